package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"macplugins/internal/diag"
	"macplugins/internal/diagfmt"
	"macplugins/internal/driver"
	"macplugins/internal/fix"
	"macplugins/internal/source"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <file.swift|directory>",
	Short: "Report macro diagnostics for a Swift source file or directory",
	Long: `Diag expands every macro without writing anything and reports what the
expansion found. It exits with status 1 when any error is reported`,
	Args: cobra.ExactArgs(1),
	RunE: runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "", "output format (pretty|short|json|sarif), default from config")
	diagCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	diagCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	diagCmd.Flags().String("min-severity", "info", "hide diagnostics below this severity (info|warning|error)")
	diagCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	diagCmd.Flags().Bool("preview", false, "include previews of fix edits in output")
	diagCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	diagCmd.Flags().Bool("fix", false, "apply every safe fix and rewrite the files")
	diagCmd.Flags().String("fix-id", "", "apply the fix with this identifier only")
	diagCmd.Flags().StringSlice("disable", nil, "macros to leave unexpanded (repeatable)")
}

// runDiagnose expands the target without writing, filters the diagnostics
// according to the warning flags, prints them, and optionally applies fixes.
func runDiagnose(cmd *cobra.Command, args []string) error {
	targetPath := args[0]
	s := current

	format, err := diagnosticsFormat(cmd, s)
	if err != nil {
		return err
	}
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if noWarnings && warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	minName, err := cmd.Flags().GetString("min-severity")
	if err != nil {
		return fmt.Errorf("failed to get min-severity flag: %w", err)
	}
	minSev, ok := diag.ParseSeverity(minName)
	if !ok {
		return fmt.Errorf("unknown severity %q (valid: info, warning, error)", minName)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	applyAll, err := cmd.Flags().GetBool("fix")
	if err != nil {
		return fmt.Errorf("failed to get fix flag: %w", err)
	}
	fixID, err := cmd.Flags().GetString("fix-id")
	if err != nil {
		return fmt.Errorf("failed to get fix-id flag: %w", err)
	}
	if applyAll && fixID != "" {
		return fmt.Errorf("--fix and --fix-id are mutually exclusive")
	}
	disabled, err := cmd.Flags().GetStringSlice("disable")
	if err != nil {
		return fmt.Errorf("failed to get disable flag: %w", err)
	}

	opts := s.driverOptions(disabled)
	if cmd.Flags().Changed("jobs") {
		if opts.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}

	fs, bag, err := diagnosePath(cmd, targetPath, opts)
	if err != nil {
		return err
	}
	if noWarnings {
		bag.Filter(func(d diag.Diagnostic) bool { return d.Severity != diag.SevWarning })
	}
	if warningsAsErrors {
		bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
			return d
		})
	}
	if minSev > diag.SevInfo {
		bag.Filter(func(d diag.Diagnostic) bool { return d.Severity >= minSev })
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	report := reportOptions{
		format:    format,
		color:     s.useColor(os.Stdout),
		pathMode:  pathMode,
		withNotes: withNotes,
		suggest:   suggest,
		preview:   preview,
	}
	if err := printDiagnostics(os.Stdout, bag, fs, report); err != nil {
		return err
	}

	if applyAll || fixID != "" {
		applyOpts := fix.ApplyOptions{Mode: fix.ApplyModeAll, Write: true}
		if fixID != "" {
			applyOpts = fix.ApplyOptions{Mode: fix.ApplyModeID, TargetID: fixID, Write: true}
		}
		res, applyErr := fix.ApplyFixes(fs, bag.Items(), applyOpts)
		if err := handleApplyResult(os.Stdout, res, applyErr); err != nil {
			return err
		}
	}

	if bag.HasErrors() {
		return errReported
	}
	return nil
}

func diagnosePath(cmd *cobra.Command, path string, opts driver.Options) (*source.FileSet, *diag.Bag, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat path: %w", err)
	}
	if !st.IsDir() {
		fs, res, err := driver.ExpandPath(cmd.Context(), path, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("diagnosis failed: %w", err)
		}
		res.Bag.Sort()
		return fs, res.Bag, nil
	}

	fs, results, err := driver.ExpandDir(cmd.Context(), path, opts)
	if fs == nil {
		return nil, nil, fmt.Errorf("diagnosis failed: %w", err)
	}
	// ошибки загрузки уже лежат в bag'ах как IO-диагностики
	bags := make([]*diag.Bag, 0, len(results))
	for _, r := range results {
		bags = append(bags, r.Bag)
	}
	return fs, mergeBags(bags...), nil
}
