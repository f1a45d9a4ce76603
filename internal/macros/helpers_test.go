package macros

import (
	"testing"

	"github.com/stretchr/testify/require"

	"macplugins/internal/ast"
	"macplugins/internal/diag"
	"macplugins/internal/parser"
	"macplugins/internal/source"
)

type fragment struct {
	fs      *source.FileSet
	builder *ast.Builder
	file    *ast.File
	src     *source.File
}

func parseFragment(t *testing.T, code string) fragment {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("fragment.swift", []byte(code))
	bag := diag.NewBag(16)
	builder, res := parser.ParseSource(fs, id, bag)
	require.Zero(t, bag.Len(), "fragment must parse cleanly")
	return fragment{fs: fs, builder: builder, file: builder.Files.Get(res.File), src: fs.Get(id)}
}

func (f fragment) freestanding(t *testing.T) FreestandingInput {
	t.Helper()
	require.NotEmpty(t, f.file.Sites, "no macro site in fragment")
	in, ok := NewFreestandingInput(f.builder, f.src, f.file.Sites[0])
	require.True(t, ok)
	return in
}

// attached returns the input for the first attribute named name.
func (f fragment) attached(t *testing.T, name string) AttachedInput {
	t.Helper()
	for _, declID := range f.file.Decls {
		for _, attrID := range f.builder.Decls.Get(declID).Attrs {
			if f.builder.Attrs.Get(attrID).Name == name {
				in, ok := NewAttachedInput(f.builder, f.src, attrID)
				require.True(t, ok)
				return in
			}
		}
	}
	t.Fatalf("attribute @%s not found", name)
	return AttachedInput{}
}

func (f fragment) text(sp source.Span) string {
	return f.fs.Text(sp)
}

func ids(reports []Report) []string {
	out := make([]string, len(reports))
	for i, r := range reports {
		out[i] = r.Info.ID.ID
	}
	return out
}
