package parser

import (
	"macplugins/internal/ast"
	"macplugins/internal/diag"
	"macplugins/internal/lexer"
	"macplugins/internal/source"
	"macplugins/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File   ast.FileID
	Source source.FileID
	Bag    *diag.Bag
}

// frame — открытая фигурная скобка; decl задан, если это тело декларации.
type frame struct {
	open token.Token
	decl ast.DeclID
}

// Parser — состояние парсера на один файл.
// Файл разбирается плоско: нас интересуют только декларации с атрибутами и
// сайты #macro(...), поэтому остальной код просто пролистывается с учётом
// вложенности фигурных скобок.
type Parser struct {
	toks     []token.Token
	pos      int
	src      *source.File
	arenas   *ast.Builder
	file     ast.FileID
	opts     Options
	lastSpan source.Span

	stack   []frame
	pending pendingDecl
}

// ParseFile — входная точка для разбора одного файла.
func ParseFile(
	fs *source.FileSet,
	lx *lexer.Lexer,
	arenas *ast.Builder,
	opts Options,
) Result {
	src := lx.File()
	p := Parser{
		toks:   lx.All(),
		src:    src,
		arenas: arenas,
		opts:   opts,
	}
	p.file = arenas.NewFile(source.Span{File: src.ID, Start: 0, End: p.toks[len(p.toks)-1].Span.End})
	p.lastSpan = source.Span{File: src.ID}

	p.parseTopLevel()

	var bag *diag.Bag
	switch br := opts.Reporter.(type) {
	case *diag.BagReporter:
		bag = br.Bag
	case diag.BagReporter:
		bag = br.Bag
	}
	return Result{
		File:   p.file,
		Source: src.ID,
		Bag:    bag,
	}
}

// ParseSource is a convenience wrapper: lexes and parses one file of fs into
// a fresh builder, reporting into bag.
func ParseSource(fs *source.FileSet, id source.FileID, bag *diag.Bag) (*ast.Builder, Result) {
	reporter := &diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{})
	return builder, ParseFile(fs, lx, builder, Options{Reporter: reporter})
}

// parseTopLevel — основной цикл: пока не EOF, смотрим на текущий токен.
func (p *Parser) parseTopLevel() {
	for !p.at(token.EOF) {
		tok := p.peek()
		switch {
		case tok.Kind == token.At:
			p.parseAttribute()

		case tok.Kind == token.Hash:
			p.parsePoundSite()

		case tok.Kind == token.Ident && token.IsModifier(tok.Text) && p.modifierApplies():
			p.parseModifier()

		case tok.Kind == token.KwClass && p.classIsModifier():
			p.parseModifier()

		case tok.IsNominalIntro() && p.startsTypeDecl():
			p.parseTypeDecl()

		case tok.Kind == token.KwImport:
			p.parseImport()

		case tok.Kind == token.KwFunc, tok.Kind == token.KwVar, tok.Kind == token.KwLet,
			tok.Kind == token.KwInit, tok.Kind == token.KwTypealias, tok.Kind == token.KwCase:
			p.parseOtherDecl()

		case tok.Kind == token.LBrace:
			p.pending.reset()
			p.stack = append(p.stack, frame{open: p.advance()})

		case tok.Kind == token.RBrace:
			p.pending.reset()
			p.closeBrace()

		default:
			p.pending.reset()
			if sites := EmbeddedSites(p.advance()); len(sites) > 0 {
				f := p.arenas.Files.Get(p.file)
				f.Embedded = append(f.Embedded, sites...)
			}
		}
	}
	p.pending.reset()

	for i := len(p.stack) - 1; i >= 0; i-- {
		p.report(diag.SynUnclosedBrace, diag.SevError, p.stack[i].open.Span, "unclosed '{'")
	}
	p.stack = nil
}

func (p *Parser) closeBrace() {
	closing := p.advance()
	if len(p.stack) == 0 {
		p.report(diag.SynUnbalancedBrace, diag.SevError, closing.Span, "unexpected '}'")
		return
	}
	top := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	if top.decl.IsValid() {
		d := p.arenas.Decls.Get(top.decl)
		d.RBrace = closing.Span
		d.Span = d.Span.Cover(closing.Span)
	}
}

// parent — ближайшая декларация, в теле которой мы находимся.
func (p *Parser) parent() ast.DeclID {
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].decl.IsValid() {
			return p.stack[i].decl
		}
	}
	return ast.NoDeclID
}
