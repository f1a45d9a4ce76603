package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"macplugins/internal/driver"
	"macplugins/internal/pipeline"
	"macplugins/internal/source"
	"macplugins/internal/ui"
)

type expandOutcome struct {
	fs      *source.FileSet
	results []driver.FileResult
	err     error
}

// expandDirectory runs driver.ExpandDir, optionally under the progress UI.
func expandDirectory(cmd *cobra.Command, dir string, opts driver.Options, withUI bool) (*source.FileSet, []driver.FileResult, error) {
	if !withUI {
		return driver.ExpandDir(cmd.Context(), dir, opts)
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = driver.DefaultExtensions
	}
	files, err := driver.ListFiles(dir, exts)
	if err != nil {
		return nil, nil, fmt.Errorf("list %s: %w", dir, err)
	}
	display := make([]string, len(files))
	for i, path := range files {
		display[i] = pipeline.DisplayPath(path, dir)
	}

	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan expandOutcome, 1)
	go func() {
		o := opts
		o.Progress = pipeline.MultiSink{opts.Progress, pipeline.ChannelSink{Ch: events}}
		fs, results, err := driver.ExpandDir(cmd.Context(), dir, o)
		outcomeCh <- expandOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(fmt.Sprintf("expanding %s", dir), display, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(cmd.Context()))
	_, uiErr := program.Run()
	// UI мог выйти раньше: дочитываем события, чтобы воркеры не встали
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
