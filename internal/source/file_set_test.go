package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("Sources/App/main.swift", []byte("let a = 1"), 0)
	id2 := fs.Add("Sources/App/main.swift", []byte("let a = 2"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct FileIDs, got %d twice", id1)
	}

	// Индекс всегда указывает на последнюю версию
	latest, ok := fs.GetLatest("Sources/App/main.swift")
	if !ok || latest != id2 {
		t.Fatalf("expected latest id %d, got %d (ok=%v)", id2, latest, ok)
	}
	if got := string(fs.Get(id1).Content); got != "let a = 1" {
		t.Errorf("old version lost: %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("expected 2 files, got %d", fs.Len())
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.swift", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("LineIdx[%d] = %d, want %d", i, file.LineIdx[i], val)
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag to be set")
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.swift", []byte("ab\ncd\n\nα"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{2, LineCol{Line: 1, Col: 3}}, // сам '\n' относится к первой строке
		{3, LineCol{Line: 2, Col: 1}},
		{6, LineCol{Line: 3, Col: 1}},
		{7, LineCol{Line: 4, Col: 1}},
		{8, LineCol{Line: 4, Col: 2}}, // середина α
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("Resolve(%d) = %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestTextAndIndentation(t *testing.T) {
	fs := NewFileSet()
	content := "struct A {\n    let x = #buildURLRequest(url)\n}\n"
	id := fs.AddVirtual("a.swift", []byte(content))
	file := fs.Get(id)

	off := uint32(len("struct A {\n    let x = "))
	sp := Span{File: id, Start: off, End: off + uint32(len("#buildURLRequest(url)"))}
	if got := fs.Text(sp); got != "#buildURLRequest(url)" {
		t.Errorf("Text = %q", got)
	}
	if got := file.LineStart(off); got != uint32(len("struct A {\n")) {
		t.Errorf("LineStart = %d", got)
	}
	if got := file.Indentation(off); got != "    " {
		t.Errorf("Indentation = %q, want 4 spaces", got)
	}
	if got := file.Indentation(0); got != "" {
		t.Errorf("Indentation of first line = %q", got)
	}
	// span за пределами файла обрезается
	if got := file.Text(Span{File: id, Start: 100, End: 200}); got != "" {
		t.Errorf("out of range Text = %q", got)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.swift", []byte("one\ntwo\nthree"))
	file := fs.Get(id)
	for n, want := range map[uint32]string{0: "", 1: "one", 2: "two", 3: "three", 4: ""} {
		if got := file.GetLine(n); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.swift")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa\r\nb\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "a\nb\n" {
		t.Errorf("content = %q", file.Content)
	}
	if file.Flags&FileHadBOM == 0 || file.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b", file.Flags)
	}
	if _, err := fs.Load(filepath.Join(dir, "missing.swift")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Errorf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Errorf("Cover across files = %v", got)
	}
	if !a.Cover(b).Contains(a) {
		t.Error("cover must contain its inputs")
	}
	if z := a.ZeroideToEnd(); !z.Empty() || z.Start != 8 {
		t.Errorf("ZeroideToEnd = %v", z)
	}
}
