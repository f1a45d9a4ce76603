package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"macplugins/internal/diag"
	"macplugins/internal/driver"
	"macplugins/internal/fix"
	"macplugins/internal/pipeline"
)

var expandCmd = &cobra.Command{
	Use:   "expand [flags] <file.swift|directory>",
	Short: "Expand macros in a Swift source file or directory",
	Long: `Expand prints the source of a file with every macro expanded in place.
For a directory it prints every expanded file, or with --write rewrites the
files and prints a summary`,
	Args: cobra.ExactArgs(1),
	RunE: runExpand,
}

func init() {
	expandCmd.Flags().Bool("write", false, "rewrite files in place instead of printing them")
	expandCmd.Flags().String("format", "", "diagnostics format (pretty|short|json|sarif), default from config")
	expandCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	expandCmd.Flags().String("ui", "auto", "progress UI for directories with --write (auto|on|off)")
	expandCmd.Flags().Bool("cache", false, "reuse expansions from the disk cache")
	expandCmd.Flags().Bool("clear-cache", false, "drop the disk cache before expanding")
	expandCmd.Flags().StringSlice("disable", nil, "macros to leave unexpanded (repeatable)")
}

// diagnosticsFormat — --format, иначе [diagnostics].format из конфига.
func diagnosticsFormat(cmd *cobra.Command, s settings) (string, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", fmt.Errorf("failed to get format flag: %w", err)
	}
	if format == "" {
		format = s.cfg.Diagnostics.Format
	}
	return format, checkFormat(format)
}

func openCache(cmd *cobra.Command, s settings) (*driver.DiskCache, error) {
	enabled, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache flag: %w", err)
	}
	drop, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	if !enabled && !s.cfg.Expand.Cache && !drop {
		return nil, nil
	}
	cache, err := driver.OpenDiskCache("macplugins")
	if err != nil {
		return nil, err
	}
	if drop {
		if err := cache.DropAll(); err != nil {
			return nil, err
		}
		if !enabled && !s.cfg.Expand.Cache {
			return nil, nil
		}
	}
	return cache, nil
}

func runExpand(cmd *cobra.Command, args []string) error {
	targetPath := args[0]
	s := current
	log := zerolog.Ctx(cmd.Context())

	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return fmt.Errorf("failed to get write flag: %w", err)
	}
	format, err := diagnosticsFormat(cmd, s)
	if err != nil {
		return err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	disabled, err := cmd.Flags().GetStringSlice("disable")
	if err != nil {
		return fmt.Errorf("failed to get disable flag: %w", err)
	}

	opts := s.driverOptions(disabled)
	opts.Write = write
	if cmd.Flags().Changed("jobs") {
		if opts.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if opts.Cache, err = openCache(cmd, s); err != nil {
		log.Warn().Err(err).Msg("disk cache unavailable, expanding without it")
	}

	report := reportOptions{format: format, color: s.useColor(os.Stderr)}

	st, err := os.Stat(targetPath)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if !st.IsDir() {
		return expandSingle(cmd, targetPath, opts, report)
	}

	recorder := &pipeline.Recorder{}
	opts.Progress = recorder
	fs, results, runErr := expandDirectory(cmd, targetPath, opts, write && shouldUseTUI(mode))
	if fs == nil {
		return fmt.Errorf("expand failed: %w", runErr)
	}

	bags := make([]*diag.Bag, 0, len(results))
	changed := 0
	for _, r := range results {
		bags = append(bags, r.Bag)
		if r.Changed {
			changed++
		}
		switch {
		case r.Output == nil:
		case !write:
			if !s.quiet {
				fmt.Fprintf(os.Stdout, "== %s ==\n", pipeline.DisplayPath(r.Path, targetPath))
			}
			if _, err := os.Stdout.Write(r.Output); err != nil {
				return err
			}
		case r.Changed && !s.quiet:
			fmt.Fprintf(os.Stdout, "%s: %d expansion(s)\n", pipeline.DisplayPath(r.Path, targetPath), r.Expanded)
		}
	}
	bag := mergeBags(bags...)
	if err := printDiagnostics(os.Stderr, bag, fs, report); err != nil {
		return err
	}
	if write && !s.quiet {
		fmt.Fprintf(os.Stdout, "%d of %d file(s) changed\n", changed, len(results))
	}
	if s.timings {
		printStageTimings(os.Stderr, recorder.Timings())
	}
	if runErr != nil {
		return runErr
	}
	if bag.HasErrors() {
		return errReported
	}
	return nil
}

func expandSingle(cmd *cobra.Command, path string, opts driver.Options, report reportOptions) error {
	s := current
	fs, res, err := driver.ExpandPath(cmd.Context(), path, opts)
	if err != nil {
		return fmt.Errorf("expand failed: %w", err)
	}
	if err := printDiagnostics(os.Stderr, res.Bag, fs, report); err != nil {
		return err
	}
	if opts.Write {
		if res.Changed {
			if err := fix.WriteFile(path, res.Output); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
		}
		if !s.quiet {
			fmt.Fprintf(os.Stdout, "%s: %d expansion(s)\n", path, res.Expanded)
		}
	} else if _, err := os.Stdout.Write(res.Output); err != nil {
		return err
	}
	if s.timings {
		fmt.Fprintln(os.Stderr, res.Timing.String())
	}
	if res.Bag.HasErrors() {
		return errReported
	}
	return nil
}
