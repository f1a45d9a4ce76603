package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"macplugins/internal/diag"
	"macplugins/internal/macros"
	"macplugins/internal/source"
)

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{"AUTO", uiModeAuto, false},
		{" on ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Fatalf("readUIMode(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestListMacros(t *testing.T) {
	entries := listMacros(macros.DefaultRegistry(), []string{"OSLogger"})
	if len(entries) != 3 {
		t.Fatalf("expected 3 macros, got %d", len(entries))
	}
	spellings := []string{entries[0].Spelling, entries[1].Spelling, entries[2].Spelling}
	if strings.Join(spellings, " ") != "#buildURLRequest @OSLogger @Equatable" {
		t.Fatalf("spellings = %v", spellings)
	}
	if !entries[0].Enabled || entries[1].Enabled {
		t.Fatalf("enabled flags wrong: %+v", entries)
	}

	var buf bytes.Buffer
	renderMacrosPretty(&buf, entries, false)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 || !strings.HasPrefix(lines[0], "MACRO") {
		t.Fatalf("unexpected table:\n%s", buf.String())
	}
	if !strings.Contains(lines[2], "MacpluginsMacros.OSLoggerMacro") || !strings.HasSuffix(lines[2], "disabled") {
		t.Fatalf("unexpected row %q", lines[2])
	}
}

func TestPrintDiagnosticsFormats(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.swift", []byte("@OSLogger enum E {}\n"))
	bag := diag.NewBag(4)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.MacWrongType,
		Message:  "OSLogger can only be attached to class or struct",
		Primary:  source.Span{File: id, Start: 0, End: 9},
	})

	for _, format := range []string{"pretty", "short", "json", "sarif"} {
		var buf bytes.Buffer
		if err := printDiagnostics(&buf, bag, fs, reportOptions{format: format}); err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if !strings.Contains(buf.String(), "OSLogger can only be attached") {
			t.Fatalf("%s output misses the message:\n%s", format, buf.String())
		}
	}
	if err := checkFormat("xml"); err == nil {
		t.Fatal("xml must be rejected")
	}
}

func TestMergeBags(t *testing.T) {
	a := diag.NewBag(2)
	a.Add(diag.Diagnostic{Severity: diag.SevWarning, Code: diag.MacDuplicateMember, Message: "a"})
	b := diag.NewBag(2)
	b.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.MacWrongType, Message: "b"})
	merged := mergeBags(a, nil, b)
	if merged.Len() != 2 || !merged.HasErrors() {
		t.Fatalf("merged = %+v", merged.Items())
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// execute runs the root command with a config from dir so that a
// macplugins.toml elsewhere on disk does not leak in.
func execute(t *testing.T, dir string, args ...string) error {
	t.Helper()
	cfg := filepath.Join(dir, "macplugins.toml")
	if _, err := os.Stat(cfg); err != nil {
		writeFile(t, cfg, "[log]\nlevel = \"disabled\"\n")
	}
	rootCmd.SetArgs(append([]string{"--config", cfg, "--color", "off", "--quiet"}, args...))
	return rootCmd.Execute()
}

func TestExpandWriteAndDiag(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.swift")
	writeFile(t, good, "@Equatable\nstruct P {}\n")

	if err := execute(t, dir, "expand", "--write", "--ui", "off", good); err != nil {
		t.Fatalf("expand: %v", err)
	}
	got, err := os.ReadFile(good)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "struct P {}\n\nextension P: Equatable {\n}\n" {
		t.Fatalf("rewritten file = %q", got)
	}

	bad := filepath.Join(dir, "bad.swift")
	writeFile(t, bad, "@OSLogger\nenum E {\n}\n")
	err = execute(t, dir, "diag", "--format", "short", bad)
	if !errors.Is(err, errReported) {
		t.Fatalf("diag on a wrong-type attachment: err = %v", err)
	}
}

func TestInvalidConfigStopsCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "macplugins.toml"), "[diagnostics]\nformat = \"xml\"\n")
	if err := execute(t, dir, "macros"); err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Fatalf("err = %v", err)
	}
}
