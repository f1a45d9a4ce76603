package diagfmt

import (
	"bytes"
	"fmt"
	"strings"

	"macplugins/internal/diag"
	"macplugins/internal/source"
)

// editPreview хранит строки, которые правка затрагивает, до и после неё.
type editPreview struct {
	before []string
	after  []string
}

// previewEdit берёт целые строки вокруг edit.Span и подставляет NewText.
func previewEdit(fs *source.FileSet, edit diag.TextEdit) (editPreview, error) {
	f := fs.Get(edit.Span.File)
	if f == nil {
		return editPreview{}, fmt.Errorf("preview: unknown file %d", edit.Span.File)
	}
	content := f.Content
	start, end := int(edit.Span.Start), int(edit.Span.End)
	if start > end || end > len(content) {
		return editPreview{}, fmt.Errorf("preview: span %d..%d outside %s", start, end, f.Path)
	}

	lo := int(f.LineStart(edit.Span.Start))
	hi := len(content)
	if nl := bytes.IndexByte(content[end:], '\n'); nl >= 0 {
		hi = end + nl
	}

	var after strings.Builder
	after.Write(content[lo:start])
	after.WriteString(edit.NewText)
	after.Write(content[end:hi])

	return editPreview{
		before: previewLines(string(content[lo:hi])),
		after:  previewLines(after.String()),
	}, nil
}

func previewLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
