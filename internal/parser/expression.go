package parser

import (
	"strings"

	"macplugins/internal/ast"
	"macplugins/internal/diag"
	"macplugins/internal/source"
	"macplugins/internal/token"
)

// parseExpr разбирает выражение аргумента. Цепочки бинарных операторов,
// тернарник и as/is сворачиваются в ExprOther: их структура макросам не нужна.
func (p *Parser) parseExpr() ast.ExprID {
	lhs := p.parseUnary()
	if !lhs.IsValid() {
		return lhs
	}
	parts := []ast.ExprID{lhs}
	start := p.arenas.Exprs.Get(lhs).Span

	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.KwAs || tok.Kind == token.KwIs:
			p.advance()
			if p.atOr(token.Question, token.Bang) && adjacent(p.peek()) {
				p.advance() // as? / as!
			}
			if ty := p.parseUnary(); ty.IsValid() {
				parts = append(parts, ty)
			}

		case tok.Kind == token.Question && tok.HasTrivia():
			p.advance()
			if mid := p.parseExpr(); mid.IsValid() {
				parts = append(parts, mid)
			}
			p.expect(token.Colon, diag.SynExpectColon, "expected ':' in ternary expression")
			if rhs := p.parseExpr(); rhs.IsValid() {
				parts = append(parts, rhs)
			}

		case tok.Kind == token.Operator || tok.Kind == token.Assign || tok.Kind == token.Arrow:
			p.advance()
			rhs := p.parseUnary()
			if !rhs.IsValid() {
				return p.arenas.Exprs.NewOther(start.Cover(p.lastSpan), parts)
			}
			parts = append(parts, rhs)

		default:
			if len(parts) == 1 {
				return lhs
			}
			return p.arenas.Exprs.NewOther(start.Cover(p.lastSpan), parts)
		}
	}
}

func (p *Parser) parseUnary() ast.ExprID {
	tok := p.peek()
	switch tok.Kind {
	case token.Operator, token.Bang:
		if !adjacent(p.peekN(1)) {
			break
		}
		p.advance()
		operand := p.parseUnary()
		if !operand.IsValid() {
			return operand
		}
		return p.arenas.Exprs.NewOther(tok.Span.Cover(p.lastSpan), []ast.ExprID{operand})

	case token.Backslash:
		// key path: \.name, \Type.name
		p.advance()
		var parts []ast.ExprID
		if p.at(token.Dot) {
			if root := p.parsePrimary(); root.IsValid() {
				parts = append(parts, p.parsePostfix(root))
			}
		} else if root := p.parsePrimary(); root.IsValid() {
			parts = append(parts, p.parsePostfix(root))
		}
		return p.arenas.Exprs.NewOther(tok.Span.Cover(p.lastSpan), parts)
	}

	base := p.parsePrimary()
	if !base.IsValid() {
		return base
	}
	return p.parsePostfix(base)
}

// parsePrimary возвращает NoExprID, не съедая токен, если выражение здесь не начинается.
func (p *Parser) parsePrimary() ast.ExprID {
	tok := p.peek()
	exprs := p.arenas.Exprs
	switch tok.Kind {
	case token.Ident, token.Underscore:
		p.advance()
		return exprs.NewIdent(tok.Span, tok.Text)

	case token.KwSelf, token.KwActor, token.KwInit:
		p.advance()
		return exprs.NewIdent(tok.Span, tok.Text)

	case token.IntLit:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.LitInt)
	case token.FloatLit:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.LitFloat)
	case token.KwTrue:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.LitTrue)
	case token.KwFalse:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.LitFalse)
	case token.KwNil:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.LitNil)

	case token.StringLit:
		p.advance()
		return exprs.NewStringLit(tok.Span, StringData(tok))

	case token.LBracket:
		return p.parseCollection()

	case token.LParen:
		args, closeSpan := p.parseArgList(token.RParen)
		return exprs.NewTuple(tok.Span.Cover(closeSpan), args)

	case token.LBrace:
		return exprs.NewClosure(p.skipBraces())

	case token.Hash:
		if next := p.peekN(1); next.Kind == token.Ident && adjacent(next) {
			return p.parseMacroExpr()
		}
		p.advance()
		p.report(diag.SynExpectMacroName, diag.SevError, tok.Span, "expected macro name after '#'")
		return ast.NoExprID

	case token.Dot:
		next := p.peekN(1)
		if (next.Kind == token.Ident || next.IsKeyword()) && adjacent(next) {
			p.advance()
			p.advance()
			return exprs.NewImplicitMember(tok.Span.Cover(next.Span), next.Text)
		}

	case token.Comma, token.RParen, token.RBracket, token.RBrace, token.EOF:
		p.err(diag.SynExpectExpression, "expected expression")
	}
	return ast.NoExprID
}

func (p *Parser) parsePostfix(base ast.ExprID) ast.ExprID {
	exprs := p.arenas.Exprs
	for {
		tok := p.peek()
		start := exprs.Get(base).Span
		switch {
		case tok.Kind == token.Dot:
			next := p.peekN(1)
			if next.Kind != token.Ident && next.Kind != token.IntLit && !next.IsKeyword() {
				return base
			}
			p.advance()
			p.advance()
			base = exprs.NewMember(start.Cover(next.Span), base, next.Text, next.Span)

		case tok.Kind == token.LParen && !tok.HasNewline():
			args, closeSpan := p.parseArgList(token.RParen)
			base = exprs.NewCall(start.Cover(closeSpan), base, args)

		case tok.Kind == token.LBracket && !tok.HasNewline():
			args, closeSpan := p.parseArgList(token.RBracket)
			base = exprs.NewSubscript(start.Cover(closeSpan), base, args)

		case tok.Kind == token.LBrace && !tok.HasNewline() && exprs.Get(base).Kind == ast.ExprCall:
			// trailing closure
			sp := p.skipBraces()
			base = exprs.NewOther(start.Cover(sp), []ast.ExprID{base})

		case (tok.Kind == token.Question || tok.Kind == token.Bang) && adjacent(tok):
			p.advance()
			base = exprs.NewOther(start.Cover(tok.Span), []ast.ExprID{base})

		default:
			return base
		}
	}
}

// parseCollection: [a, b], [k: v], [:] и [].
func (p *Parser) parseCollection() ast.ExprID {
	lb := p.advance()
	exprs := p.arenas.Exprs

	if p.at(token.Colon) && p.peekN(1).Kind == token.RBracket {
		p.advance()
		rb := p.advance()
		return exprs.NewDict(lb.Span.Cover(rb.Span), nil)
	}

	var (
		elems   []ast.ExprID
		entries []ast.DictEntry
		isDict  bool
	)
	for first := true; ; first = false {
		if p.at(token.RBracket) {
			break
		}
		if p.at(token.EOF) {
			p.report(diag.SynUnclosedBracket, diag.SevError, lb.Span, "unclosed '['")
			return exprs.NewOther(lb.Span.Cover(p.lastSpan), elems)
		}

		key := p.parseExpr()
		if first && p.at(token.Colon) {
			isDict = true
		}
		if isDict {
			p.expect(token.Colon, diag.SynExpectColon, "expected ':' in dictionary literal")
			value := p.parseExpr()
			if !p.atOr(token.Comma, token.RBracket, token.EOF) {
				value = p.recoverExpr(value)
			}
			entries = append(entries, ast.DictEntry{Key: key, Value: value})
		} else {
			if !p.atOr(token.Comma, token.RBracket, token.EOF) {
				key = p.recoverExpr(key)
			}
			elems = append(elems, key)
		}

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if !p.atOr(token.RBracket, token.EOF) {
			// чужая закрывающая скобка
			p.report(diag.SynUnclosedBracket, diag.SevError, lb.Span, "unclosed '['")
			return exprs.NewOther(lb.Span.Cover(p.lastSpan), elems)
		}
	}
	rb := p.advance()
	span := lb.Span.Cover(rb.Span)
	if isDict {
		return exprs.NewDict(span, entries)
	}
	return exprs.NewArray(span, elems)
}

// parseMacroExpr: #name, #name<T>(args) и trailing closure.
func (p *Parser) parseMacroExpr() ast.ExprID {
	hash := p.advance()
	name := p.advance()
	data := ast.ExprMacroData{Name: name.Text, NameSpan: name.Span}
	span := hash.Span.Cover(name.Span)

	if p.at(token.Operator) && strings.HasPrefix(p.peek().Text, "<") && adjacent(p.peek()) {
		span = span.Cover(p.skipAngles())
	}
	if p.at(token.LParen) && !p.peek().HasNewline() {
		args, closeSpan := p.parseArgList(token.RParen)
		data.Args = args
		data.HasArgs = true
		span = span.Cover(closeSpan)
	}
	if p.at(token.LBrace) && !p.peek().HasNewline() && data.HasArgs {
		span = span.Cover(p.skipBraces())
	}
	return p.arenas.Exprs.NewMacro(span, data)
}

// skipBraces пропускает сбалансированный { ... } и возвращает его спан.
func (p *Parser) skipBraces() source.Span {
	lb := p.advance()
	depth := 1
	for depth > 0 {
		tok := p.peek()
		switch tok.Kind {
		case token.EOF:
			p.report(diag.SynUnclosedBrace, diag.SevError, lb.Span, "unclosed '{'")
			return lb.Span.Cover(p.lastSpan)
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
		}
		p.advance()
	}
	return lb.Span.Cover(p.lastSpan)
}

// recoverExpr досъедает всё до ',' или закрывающей скобки на нулевой
// глубине и заворачивает в ExprOther. Ошибок не репортит: это валидный код,
// который мы просто не моделируем.
func (p *Parser) recoverExpr(first ast.ExprID) ast.ExprID {
	var (
		parts []ast.ExprID
		start = p.peek().Span
	)
	if first.IsValid() {
		parts = append(parts, first)
		start = p.arenas.Exprs.Get(first).Span
	}
	consumed := false
	depth := 0
loop:
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.EOF:
			break loop
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			if depth == 0 {
				break loop
			}
			depth--
		case token.Comma:
			if depth == 0 {
				break loop
			}
		}
		p.advance()
		consumed = true
	}
	if !consumed && !first.IsValid() {
		return ast.NoExprID
	}
	return p.arenas.Exprs.NewOther(start.Cover(p.lastSpan), parts)
}
