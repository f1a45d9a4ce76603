package driver

import (
	"context"
	"fmt"
	"sort"

	"fortio.org/safecast"
	"github.com/rs/zerolog"

	"macplugins/internal/ast"
	"macplugins/internal/diag"
	"macplugins/internal/fix"
	"macplugins/internal/lexer"
	"macplugins/internal/observ"
	"macplugins/internal/parser"
	"macplugins/internal/source"
)

// FileResult — итог раскрытия одного файла.
type FileResult struct {
	Path   string
	FileID source.FileID
	// Output is the file content with every expansion spliced in.
	Output   []byte
	Changed  bool
	Bag      *diag.Bag
	Expanded int // сколько макросов раскрыто
	Cached   bool
	Timing   observ.Report
	Err      error
}

// ExpandFile parses fileID, runs every registered macro it uses and splices
// the expansions into a copy of the content. The FileSet is only read.
func ExpandFile(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts Options) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	file := fs.Get(fileID)
	if file == nil {
		return nil, fmt.Errorf("expand: unknown file id %d", fileID)
	}
	log := zerolog.Ctx(ctx).With().Str("file", file.Path).Logger()

	key := cacheKey(file.Hash, opts)
	if res, ok := lookupCache(opts.Cache, key, file, opts.MaxDiagnostics, &log); ok {
		return res, nil
	}

	timer := observ.NewTimer()
	bag := diag.NewBag(opts.MaxDiagnostics)
	reporter := &diag.BagReporter{Bag: bag}

	var builder *ast.Builder
	var parsed parser.Result
	timer.Measure("parse", func() string {
		builder, parsed = parseFile(fs, file, reporter, opts.MaxDiagnostics)
		return ""
	})

	p := newPlanner(builder, file, reporter, opts)
	timer.Measure("expand", func() string {
		p.plan(builder.Files.Get(parsed.File))
		return fmt.Sprintf("%d expansions", p.expanded)
	})

	var output []byte
	var spliceErr error
	timer.Measure("splice", func() string {
		edits := p.edits()
		output, spliceErr = fix.Apply(file.Content, edits)
		return fmt.Sprintf("%d edits", len(edits))
	})
	if spliceErr != nil {
		return nil, fmt.Errorf("expand %s: %w", file.Path, spliceErr)
	}

	res := &FileResult{
		Path:     file.Path,
		FileID:   fileID,
		Output:   output,
		Changed:  string(output) != string(file.Content),
		Bag:      bag,
		Expanded: p.expanded,
		Timing:   timer.Report(),
	}
	storeCache(opts.Cache, key, res, &log)
	if opts.Timings {
		// AddAll, чтобы лимит bag не съел отчёт
		bag.AddAll([]diag.Diagnostic{res.Timing.Diagnostic("expand", file.Path)})
	}
	log.Debug().
		Int("expanded", res.Expanded).
		Int("diagnostics", bag.Len()).
		Object("timings", res.Timing).
		Msg("file expanded")
	return res, nil
}

// ExpandPath loads path into a fresh FileSet and expands it.
func ExpandPath(ctx context.Context, path string, opts Options) (*source.FileSet, *FileResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return fs, nil, err
	}
	res, err := ExpandFile(ctx, fs, fileID, opts)
	return fs, res, err
}

func parseFile(fs *source.FileSet, file *source.File, reporter diag.Reporter, maxDiagnostics int) (*ast.Builder, parser.Result) {
	maxErrors, err := safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		maxErrors = 0
	}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(fs, lx, builder, parser.Options{Reporter: reporter, MaxErrors: maxErrors})
	return builder, res
}

// use — одно место применения макроса: #site или @attr.
type use struct {
	start uint32
	site  ast.ExprID
	attr  ast.AttrID
}

func collectUses(b *ast.Builder, f *ast.File) []use {
	uses := make([]use, 0, len(f.Sites)+len(f.Decls))
	for _, site := range f.Sites {
		uses = append(uses, use{start: b.Exprs.Get(site).Span.Start, site: site})
	}
	for _, declID := range f.Decls {
		for _, attrID := range b.Decls.Get(declID).Attrs {
			uses = append(uses, use{start: b.Attrs.Get(attrID).Span.Start, attr: attrID})
		}
	}
	sort.SliceStable(uses, func(i, j int) bool { return uses[i].start < uses[j].start })
	return uses
}
