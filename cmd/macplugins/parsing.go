package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"macplugins/internal/diagfmt"
	"macplugins/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.swift",
	Short: "Parse a Swift source file and print declarations and macro sites",
	Long: `Parse shows what the macro front-end extracts from a Swift source file:
type declarations with their attributes and every freestanding macro site`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	result, err := driver.Parse(filePath, current.maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:   current.useColor(os.Stderr),
			Context: 2,
		})
	}

	switch format {
	case "pretty":
		return diagfmt.FormatASTPretty(os.Stdout, result.Builder, result.FileID, result.FileSet)
	case "json":
		return diagfmt.FormatASTJSON(os.Stdout, result.Builder, result.FileID, result.FileSet)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
