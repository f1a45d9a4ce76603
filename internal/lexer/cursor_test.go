package lexer

import (
	"testing"

	"macplugins/internal/source"
)

func newTestCursor(content string) (Cursor, *source.FileSet) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("cursor.swift", []byte(content))
	return NewCursor(fs.Get(id)), fs
}

func TestCursorReadsPastEndAsZero(t *testing.T) {
	c, _ := newTestCursor("ab")
	if c.PeekAt(1) != 'b' || c.PeekAt(2) != 0 || c.PeekAt(-1) != 0 {
		t.Fatalf("unexpected lookahead: %q %q %q", c.PeekAt(1), c.PeekAt(2), c.PeekAt(-1))
	}
	got := []byte{c.Bump(), c.Bump(), c.Bump()}
	if string(got) != "ab\x00" {
		t.Fatalf("Bump sequence = %q", got)
	}
	if !c.EOF() || c.Off != 2 || c.Rest() != nil {
		t.Fatalf("cursor must stop at EOF, off=%d", c.Off)
	}
}

func TestCursorPrefixHelpers(t *testing.T) {
	c, _ := newTestCursor(`##"raw"##`)
	if n := c.RunLen('#', 0); n != 2 {
		t.Fatalf("RunLen('#') = %d, want 2", n)
	}
	if c.EatString(`##'`) {
		t.Fatal("EatString must not consume a partial match")
	}
	if c.Off != 0 {
		t.Fatalf("failed EatString moved the cursor to %d", c.Off)
	}
	if !c.EatString(`##"`) || c.Peek() != 'r' {
		t.Fatalf("EatString did not consume the opener, at %q", c.Peek())
	}
	c.Advance(100)
	if !c.EOF() {
		t.Fatal("Advance past the end must clamp to EOF")
	}
}

func TestCursorSpanResolvesMultibyte(t *testing.T) {
	// α и β по два байта
	c, fs := newTestCursor("α\nβ")
	m := c.Mark()
	c.Advance(2)
	sp := c.SpanFrom(m)
	if sp.Start != 0 || sp.End != 2 {
		t.Fatalf("span = %d..%d", sp.Start, sp.End)
	}
	start, end := fs.Resolve(sp)
	if start != (source.LineCol{Line: 1, Col: 1}) || end != (source.LineCol{Line: 1, Col: 3}) {
		t.Fatalf("resolved %+v..%+v", start, end)
	}

	m = c.Mark()
	if !c.Eat('\n') {
		t.Fatal("expected newline")
	}
	_, end = fs.Resolve(c.SpanFrom(m))
	if end != (source.LineCol{Line: 2, Col: 1}) {
		t.Fatalf("end after newline = %+v", end)
	}

	c.Reset(m)
	if c.Peek() != '\n' {
		t.Fatalf("Reset did not rewind, at %q", c.Peek())
	}
	if c.Eat('x') {
		t.Fatal("Eat must fail on mismatch")
	}
}
