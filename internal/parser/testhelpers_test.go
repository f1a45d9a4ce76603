package parser

import (
	"fmt"
	"strings"
	"testing"

	"macplugins/internal/ast"
	"macplugins/internal/diag"
	"macplugins/internal/source"
)

type parsed struct {
	fs      *source.FileSet
	builder *ast.Builder
	res     Result
	bag     *diag.Bag
}

func parseString(t *testing.T, input string) parsed {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.swift", []byte(input))
	bag := diag.NewBag(100)
	builder, res := ParseSource(fs, id, bag)
	return parsed{fs: fs, builder: builder, res: res, bag: bag}
}

func (p parsed) file() *ast.File {
	return p.builder.Files.Get(p.res.File)
}

func (p parsed) decl(i int) *ast.Decl {
	return p.builder.Decls.Get(p.file().Decls[i])
}

func (p parsed) text(sp source.Span) string {
	return p.fs.Text(sp)
}

func (p parsed) site(i int) *ast.ExprMacroData {
	data, ok := p.builder.Exprs.Macro(p.file().Sites[i])
	if !ok {
		return nil
	}
	return data
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func expectNoDiagnostics(t *testing.T, p parsed) {
	t.Helper()
	if p.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(p.bag))
	}
}

func expectCode(t *testing.T, p parsed, code diag.Code) diag.Diagnostic {
	t.Helper()
	for _, d := range p.bag.Items() {
		if d.Code == code {
			return d
		}
	}
	t.Fatalf("expected %s, got %s", code.ID(), diagnosticsSummary(p.bag))
	return diag.Diagnostic{}
}
