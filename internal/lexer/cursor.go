package lexer

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"macplugins/internal/source"
)

// Cursor идёт по байтам src. Все чтения за концом дают 0, поэтому
// сканерам не нужно отдельно проверять границу перед каждым сравнением.
type Cursor struct {
	src  []byte
	file source.FileID
	Off  uint32
}

// NewCursor creates a cursor over the whole content of f.
func NewCursor(f *source.File) Cursor {
	if _, err := safecast.Conv[uint32](len(f.Content)); err != nil {
		panic(fmt.Errorf("file %s is too large to lex: %w", f.Path, err))
	}
	return Cursor{src: f.Content, file: f.ID}
}

func (c *Cursor) EOF() bool {
	return int(c.Off) >= len(c.src)
}

// Peek возвращает текущий байт или 0 на EOF.
func (c *Cursor) Peek() byte {
	return c.PeekAt(0)
}

// PeekAt смотрит на n байт вперёд от текущей позиции.
func (c *Cursor) PeekAt(n int) byte {
	i := int(c.Off) + n
	if i < 0 || i >= len(c.src) {
		return 0
	}
	return c.src[i]
}

// Rest is the unread tail of the input.
func (c *Cursor) Rest() []byte {
	if c.EOF() {
		return nil
	}
	return c.src[c.Off:]
}

func (c *Cursor) Bump() byte {
	b := c.Peek()
	if !c.EOF() {
		c.Off++
	}
	return b
}

// Advance сдвигает курсор на n байт, не выходя за конец.
func (c *Cursor) Advance(n int) {
	rest := len(c.src) - int(c.Off)
	if n > rest {
		n = rest
	}
	if n > 0 {
		c.Off += uint32(n) //nolint:gosec // n <= len(src), длина проверена в NewCursor
	}
}

// SkipToEnd ставит курсор на EOF.
func (c *Cursor) SkipToEnd() {
	c.Off = uint32(len(c.src)) //nolint:gosec // проверено в NewCursor
}

func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.src[c.Off] != b {
		return false
	}
	c.Off++
	return true
}

// HasPrefix reports whether the unread input starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	return bytes.HasPrefix(c.Rest(), []byte(s))
}

// EatString потребляет s целиком или ничего.
func (c *Cursor) EatString(s string) bool {
	if !c.HasPrefix(s) {
		return false
	}
	c.Advance(len(s))
	return true
}

// RunLen считает, сколько байт b подряд стоит начиная со смещения from.
func (c *Cursor) RunLen(b byte, from int) int {
	n := 0
	for c.PeekAt(from+n) == b {
		n++
	}
	return n
}

// Mark запоминает позицию для SpanFrom и Reset.
type Mark uint32

func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.file, Start: uint32(m), End: c.Off}
}

func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}
