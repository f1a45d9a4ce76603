package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"macplugins/internal/diag"
	"macplugins/internal/diagfmt"
	"macplugins/internal/fix"
	"macplugins/internal/pipeline"
	"macplugins/internal/source"
	"macplugins/internal/version"
)

type reportOptions struct {
	format    string
	color     bool
	pathMode  diagfmt.PathMode
	withNotes bool
	suggest   bool
	preview   bool
}

func checkFormat(format string) error {
	switch format {
	case "pretty", "short", "json", "sarif":
		return nil
	}
	return fmt.Errorf("unknown format: %s", format)
}

// printDiagnostics выводит bag в выбранном формате. Пустой bag в pretty и
// short ничего не печатает; json и sarif всегда выдают документ.
func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts reportOptions) error {
	switch opts.format {
	case "pretty":
		if bag.Len() == 0 {
			return nil
		}
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:       opts.color,
			Context:     2,
			PathMode:    opts.pathMode,
			ShowNotes:   opts.withNotes,
			ShowFixes:   opts.suggest || opts.preview,
			ShowPreview: opts.preview,
		})
	case "short":
		diagfmt.Short(w, bag, fs, opts.pathMode)
	case "json":
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         opts.pathMode,
			IncludeNotes:     opts.withNotes,
			IncludeFixes:     opts.suggest || opts.preview,
			IncludePreviews:  opts.preview,
		}
		if err := diagfmt.JSON(w, bag, fs, jsonOpts); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "sarif":
		meta := diagfmt.SarifRunMeta{
			ToolName:       "macplugins",
			ToolVersion:    version.Plain(),
			InvocationArgs: os.Args[1:],
		}
		if err := diagfmt.Sarif(w, bag, fs, meta); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", opts.format)
	}
	return nil
}

// mergeBags собирает диагностики нескольких файлов в один отсортированный bag.
func mergeBags(bags ...*diag.Bag) *diag.Bag {
	total := 0
	for _, b := range bags {
		if b != nil {
			total += b.Len()
		}
	}
	out := diag.NewBag(total)
	for _, b := range bags {
		if b != nil {
			out.Merge(b)
		}
	}
	out.Sort()
	out.Dedup()
	return out
}

func printStageTimings(out io.Writer, timings pipeline.Timings) {
	for _, stage := range []pipeline.Stage{pipeline.StageParse, pipeline.StageExpand, pipeline.StageWrite} {
		if d := timings.Duration(stage); d > 0 {
			fmt.Fprintf(out, "%s %.1f ms\n", stage, toMillis(d))
		}
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func handleApplyResult(out io.Writer, res *fix.ApplyResult, applyErr error) error {
	if res == nil {
		return applyErr
	}
	if len(res.Applied) > 0 {
		fmt.Fprintf(out, "Applied %d fix(es):\n", len(res.Applied))
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			fmt.Fprintf(out, "  %s [%s]: %s (%d edits, %s)\n",
				item.Title, item.ID, location, item.EditCount, item.Applicability.String())
		}
	}
	if len(res.FileChanges) > 0 {
		fmt.Fprintln(out, "Updated files:")
		for _, change := range res.FileChanges {
			fmt.Fprintf(out, "  %s (%d edits)\n", change.Path, change.EditCount)
		}
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintln(out, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				fmt.Fprintf(out, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}
	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			fmt.Fprintln(out, "No applicable fixes found.")
			return nil
		}
		return applyErr
	}
	if len(res.Applied) == 0 {
		fmt.Fprintln(out, "No fixes applied.")
	}
	return nil
}
