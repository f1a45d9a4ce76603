package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"macplugins/internal/macros"
)

var macrosCmd = &cobra.Command{
	Use:   "macros",
	Short: "List the macros this plugin provides",
	Args:  cobra.NoArgs,
	RunE:  runMacros,
}

func init() {
	macrosCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type macroEntry struct {
	Name     string `json:"name"`
	Spelling string `json:"spelling"`
	Role     string `json:"role"`
	Module   string `json:"module"`
	TypeName string `json:"type_name"`
	Enabled  bool   `json:"enabled"`
}

func runMacros(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	entries := listMacros(macros.DefaultRegistry(), current.cfg.Macros.Disabled)
	switch format {
	case "pretty":
		renderMacrosPretty(cmd.OutOrStdout(), entries, current.useColor(os.Stdout))
		return nil
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func listMacros(reg macros.Registry, disabled []string) []macroEntry {
	all := reg.All()
	out := make([]macroEntry, 0, len(all))
	for _, m := range all {
		prefix := "@"
		if m.Role.Freestanding() {
			prefix = "#"
		}
		out = append(out, macroEntry{
			Name:     m.Name,
			Spelling: prefix + m.Name,
			Role:     m.Role.String(),
			Module:   m.Module,
			TypeName: m.TypeName,
			Enabled:  !slices.Contains(disabled, m.Name),
		})
	}
	return out
}

func renderMacrosPretty(w io.Writer, entries []macroEntry, useColor bool) {
	header := lipgloss.NewStyle().Bold(true)
	on := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	off := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	if !useColor {
		header, on, off = lipgloss.NewStyle(), lipgloss.NewStyle(), lipgloss.NewStyle()
	}

	rows := [][]string{{"MACRO", "ROLE", "IMPLEMENTATION", "STATUS"}}
	for _, e := range entries {
		status := "enabled"
		if !e.Enabled {
			status = "disabled"
		}
		rows = append(rows, []string{e.Spelling, e.Role, e.Module + "." + e.TypeName, status})
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	for r, row := range rows {
		for i, cell := range row {
			text := runewidth.FillRight(cell, widths[i])
			switch {
			case r == 0:
				text = header.Render(text)
			case i == len(row)-1 && cell == "enabled":
				text = on.Render(cell)
			case i == len(row)-1:
				text = off.Render(cell)
			}
			if i > 0 {
				fmt.Fprint(w, "  ")
			}
			fmt.Fprint(w, text)
		}
		fmt.Fprintln(w)
	}
}
