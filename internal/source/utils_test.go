package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		flags FileFlags
	}{
		{"plain", "let a = 1\n", "let a = 1\n", 0},
		{"bom", "\xEF\xBB\xBFlet a", "let a", FileHadBOM},
		{"crlf keeps lone cr", "a\r\nb\rc\r\n", "a\nb\rc\n", FileNormalizedCRLF},
		{"nfc", "cafe\u0301", "caf\u00e9", FileNormalizedNFC},
		{"all", "\xEF\xBB\xBFe\u0301\r\n", "\u00e9\n", FileHadBOM | FileNormalizedCRLF | FileNormalizedNFC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, flags := Normalize([]byte(tt.in))
			if string(got) != tt.want || flags != tt.flags {
				t.Fatalf("Normalize(%q) = %q, %b; want %q, %b", tt.in, got, flags, tt.want, tt.flags)
			}
		})
	}
}

func TestToLineCol(t *testing.T) {
	idx := buildLineIndex([]byte("ab\n\ncd\n"))
	if len(idx) != 3 {
		t.Fatalf("line index = %v", idx)
	}
	for off, want := range map[uint32]LineCol{
		0: {1, 1},
		2: {1, 3}, // сам '\n' ещё на первой строке
		3: {2, 1},
		4: {3, 1},
		7: {4, 1},
	} {
		if got := toLineCol(idx, off); got != want {
			t.Errorf("toLineCol(%d) = %+v, want %+v", off, got, want)
		}
	}
	if got := toLineCol(nil, 5); got != (LineCol{1, 6}) {
		t.Errorf("single line: %+v", got)
	}
}

func TestRelativePath(t *testing.T) {
	tmp := t.TempDir()
	base := filepath.Join(tmp, "base")
	if err := os.MkdirAll(base, 0o755); err != nil {
		t.Fatal(err)
	}

	inside, err := RelativePath(filepath.Join(base, "Sources", "Api.swift"), base)
	if err != nil || inside != "Sources/Api.swift" {
		t.Fatalf("inside = %q, %v", inside, err)
	}

	outsidePath := filepath.Join(tmp, "other", "Api.swift")
	outside, err := RelativePath(outsidePath, base)
	if err != nil || outside != normalizePath(outsidePath) {
		t.Fatalf("outside = %q, %v; want absolute fallback", outside, err)
	}
}
