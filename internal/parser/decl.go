package parser

import (
	"strings"

	"macplugins/internal/ast"
	"macplugins/internal/diag"
	"macplugins/internal/source"
	"macplugins/internal/token"
)

// pendingDecl копит атрибуты и модификаторы до ключевого слова декларации.
type pendingDecl struct {
	attrs     []ast.AttrID
	modifiers []string
	start     source.Span
	has       bool
}

func (pd *pendingDecl) mark(sp source.Span) {
	if !pd.has {
		pd.start = sp
		pd.has = true
	}
}

func (pd *pendingDecl) reset() {
	pd.attrs = nil
	pd.modifiers = nil
	pd.has = false
}

// parseAttribute разбирает `@Name` и `@Name(args)`. Между '@', именем и '('
// пробелов быть не должно.
func (p *Parser) parseAttribute() {
	at := p.advance()
	name := p.peek()
	if name.Kind != token.Ident || !adjacent(name) {
		p.report(diag.SynExpectIdentifier, diag.SevError, at.Span, "expected attribute name after '@'")
		return
	}
	p.advance()

	attr := ast.Attr{
		Name:     name.Text,
		NameSpan: name.Span,
		Span:     at.Span.Cover(name.Span),
	}
	if p.at(token.LParen) && adjacent(p.peek()) {
		args, closeSpan := p.parseArgList(token.RParen)
		attr.Args = args
		attr.HasArgs = true
		attr.Span = attr.Span.Cover(closeSpan)
	}

	p.pending.mark(at.Span)
	p.pending.attrs = append(p.pending.attrs, p.arenas.Attrs.New(attr))
}

// modifierApplies: за цепочкой модификаторов действительно стоит декларация.
func (p *Parser) modifierApplies() bool {
	for i := 0; ; {
		tok := p.peekN(i)
		switch {
		case tok.Kind == token.Ident && token.IsModifier(tok.Text):
			i++
			if next := p.peekN(i); next.Kind == token.LParen && adjacent(next) {
				i += 3 // private(set)
			}
		case tok.Kind == token.At:
			i += 2
		default:
			return isDeclKeyword(tok.Kind)
		}
	}
}

func (p *Parser) parseModifier() {
	tok := p.advance()
	p.pending.mark(tok.Span)
	text := tok.Text
	if p.at(token.LParen) && adjacent(p.peek()) {
		p.advance()
		if arg, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected modifier argument"); ok {
			text += "(" + arg.Text + ")"
		}
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after modifier argument")
	}
	p.pending.modifiers = append(p.pending.modifiers, text)
}

// classIsModifier: `class func`, `class var`, `class override func`.
func (p *Parser) classIsModifier() bool {
	next := p.peekN(1)
	switch next.Kind {
	case token.KwFunc, token.KwVar, token.KwLet, token.KwTypealias:
		return true
	case token.Ident:
		return token.IsModifier(next.Text)
	}
	return false
}

func (p *Parser) startsTypeDecl() bool {
	return p.peekN(1).Kind == token.Ident
}

func isDeclKeyword(k token.Kind) bool {
	switch k {
	case token.KwClass, token.KwStruct, token.KwEnum, token.KwActor, token.KwProtocol, token.KwExtension,
		token.KwFunc, token.KwVar, token.KwLet, token.KwInit, token.KwTypealias, token.KwCase:
		return true
	}
	return false
}

var nominalKinds = map[token.Kind]ast.DeclKind{
	token.KwClass:     ast.DeclClass,
	token.KwStruct:    ast.DeclStruct,
	token.KwEnum:      ast.DeclEnum,
	token.KwActor:     ast.DeclActor,
	token.KwProtocol:  ast.DeclProtocol,
	token.KwExtension: ast.DeclExtension,
}

// parseTypeDecl разбирает заголовок class/struct/enum/actor/protocol/extension
// и открывает тело. Члены тела обрабатывает основной цикл.
func (p *Parser) parseTypeDecl() {
	kw := p.advance()
	start := kw.Span
	if p.pending.has {
		start = p.pending.start
	}

	nameTok := p.advance()
	name := nameTok.Text
	nameSpan := nameTok.Span
	if kw.Kind == token.KwExtension {
		for p.at(token.Dot) && p.peekN(1).Kind == token.Ident {
			p.advance()
			part := p.advance()
			name += "." + part.Text
			nameSpan = nameSpan.Cover(part.Span)
		}
	}

	decl := ast.Decl{
		Kind:      nominalKinds[kw.Kind],
		Name:      name,
		NameSpan:  nameSpan,
		Keyword:   kw.Span,
		Modifiers: p.pending.modifiers,
		Parent:    p.parent(),
	}
	if p.at(token.Operator) && strings.HasPrefix(p.peek().Text, "<") {
		decl.Generics = p.skipAngles()
	}
	p.skipTypeHeader()
	decl.Span = start.Cover(p.lastSpan)

	var lbrace token.Token
	if p.at(token.LBrace) {
		lbrace = p.advance()
		decl.LBrace = lbrace.Span
		decl.HasBody = true
		decl.Span = decl.Span.Cover(lbrace.Span)
	} else {
		p.err(diag.SynUnexpectedToken, "expected '{' to start the body of "+decl.Kind.String()+" "+name)
	}

	id := p.arenas.Decls.New(decl)
	p.arenas.PushDecl(p.file, id)
	for _, attr := range p.pending.attrs {
		p.arenas.AttachAttr(id, attr)
	}
	p.pending.reset()

	if decl.HasBody {
		p.stack = append(p.stack, frame{open: lbrace, decl: id})
	}
}

// skipTypeHeader пропускает наследование и where до '{'.
func (p *Parser) skipTypeHeader() {
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.LBrace, token.RBrace, token.EOF, token.Semicolon:
			return
		case token.KwClass:
			// protocol P: class
			if prev := p.toks[p.pos-1].Kind; prev != token.Colon && prev != token.Comma {
				return
			}
		default:
			if isDeclKeyword(tok.Kind) {
				return
			}
		}
		p.advance()
	}
}

// skipAngles съедает сбалансированный <...>, считая '<' и '>' внутри операторов.
func (p *Parser) skipAngles() source.Span {
	start := p.peek().Span
	depth := 0
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.EOF, token.LBrace, token.RBrace:
			return start.Cover(p.lastSpan)
		case token.Operator:
			depth += strings.Count(tok.Text, "<") - strings.Count(tok.Text, ">")
		}
		p.advance()
		if depth <= 0 {
			return start.Cover(p.lastSpan)
		}
	}
}

// parseOtherDecl: func/var/let/init/typealias/case. Запоминаем только если
// на них висят атрибуты, чтобы драйвер мог о них сообщить.
func (p *Parser) parseOtherDecl() {
	kw := p.advance()
	if len(p.pending.attrs) == 0 {
		p.pending.reset()
		return
	}
	decl := ast.Decl{
		Kind:      ast.DeclOther,
		Keyword:   kw.Span,
		Modifiers: p.pending.modifiers,
		Parent:    p.parent(),
	}
	if p.at(token.Ident) || p.at(token.Operator) {
		nameTok := p.advance()
		decl.Name = nameTok.Text
		decl.NameSpan = nameTok.Span
	}
	decl.Span = p.pending.start.Cover(p.lastSpan)

	id := p.arenas.Decls.New(decl)
	p.arenas.PushDecl(p.file, id)
	for _, attr := range p.pending.attrs {
		p.arenas.AttachAttr(id, attr)
	}
	p.pending.reset()
}

// parseImport: `import Foundation`, `import struct Foo.Bar`.
func (p *Parser) parseImport() {
	p.advance()
	p.pending.reset()
	if isDeclKeyword(p.peek().Kind) {
		p.advance()
	}
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected module name after 'import'")
	if !ok {
		return
	}
	path := nameTok.Text
	for p.at(token.Dot) && p.peekN(1).Kind == token.Ident {
		p.advance()
		path += "." + p.advance().Text
	}
	f := p.arenas.Files.Get(p.file)
	f.Imports = append(f.Imports, path)
}

// poundBuiltins — `#name` конструкции языка, а не макросы.
var poundBuiltins = map[string]struct{}{
	"available":      {},
	"unavailable":    {},
	"selector":       {},
	"keyPath":        {},
	"file":           {},
	"fileID":         {},
	"filePath":       {},
	"line":           {},
	"column":         {},
	"function":       {},
	"dsohandle":      {},
	"sourceLocation": {},
	"warning":        {},
	"error":          {},
	"colorLiteral":   {},
	"imageLiteral":   {},
	"fileLiteral":    {},
	"externalMacro":  {},
	"elseif":         {},
	"endif":          {},
}

// IsPoundBuiltin reports whether #name is a language construct rather than a macro.
func IsPoundBuiltin(name string) bool {
	_, ok := poundBuiltins[name]
	return ok
}

// parsePoundSite: `#name(args)` — сайт макроса; `#if`, `#available` и т.п. пропускаем.
func (p *Parser) parsePoundSite() {
	hash := p.peek()
	next := p.peekN(1)
	p.pending.reset()

	switch {
	case !adjacent(next) || (next.Kind != token.Ident && !next.IsKeyword()):
		p.advance()
		p.report(diag.SynExpectMacroName, diag.SevError, hash.Span, "expected macro name after '#'")
	case next.Kind != token.Ident || IsPoundBuiltin(next.Text):
		p.advance()
		p.advance()
	default:
		site := p.parseMacroExpr()
		p.arenas.PushSite(p.file, site)
	}
}
