package driver

import (
	"macplugins/internal/ast"
	"macplugins/internal/diag"
	"macplugins/internal/lexer"
	"macplugins/internal/source"
	"macplugins/internal/token"
)

// Loaded is one file read into its own FileSet, with a bag for whatever the
// front-end reports about it.
type Loaded struct {
	FileSet *source.FileSet
	File    *source.File
	Bag     *diag.Bag
}

func load(path string, maxDiagnostics int) (Loaded, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return Loaded{}, err
	}
	return Loaded{FileSet: fs, File: fs.Get(id), Bag: diag.NewBag(maxDiagnostics)}, nil
}

func (l Loaded) reporter() diag.Reporter {
	return &diag.BagReporter{Bag: l.Bag}
}

// TokenizeResult: Tokens всегда заканчиваются EOF.
type TokenizeResult struct {
	Loaded
	Tokens []token.Token
}

// Tokenize lexes path for `macplugins tokenize`.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	l, err := load(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	lx := lexer.New(l.File, lexer.Options{Reporter: l.reporter()})
	return &TokenizeResult{Loaded: l, Tokens: lx.All()}, nil
}

// ParseResult is what `macplugins parse` prints: the tree, nothing expanded.
type ParseResult struct {
	Loaded
	Builder *ast.Builder
	FileID  ast.FileID
}

func Parse(path string, maxDiagnostics int) (*ParseResult, error) {
	l, err := load(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	builder, res := parseFile(l.FileSet, l.File, l.reporter(), maxDiagnostics)
	return &ParseResult{Loaded: l, Builder: builder, FileID: res.File}, nil
}
