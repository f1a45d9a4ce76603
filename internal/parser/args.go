package parser

import (
	"macplugins/internal/ast"
	"macplugins/internal/diag"
	"macplugins/internal/source"
	"macplugins/internal/token"
)

// parseArgList разбирает `( ... )` или `[ ... ]` начиная с открывающей скобки.
// Возвращает аргументы и спан закрывающей скобки (или последнего токена при ошибке).
func (p *Parser) parseArgList(closing token.Kind) ([]ast.Arg, source.Span) {
	open := p.advance()
	var args []ast.Arg
	for {
		if p.at(closing) {
			return args, p.advance().Span
		}
		if p.at(token.EOF) {
			p.reportUnclosed(open, closing)
			return args, p.lastSpan
		}

		args = append(args, p.parseArg(closing))

		switch {
		case p.at(token.Comma):
			p.advance()
		case p.at(closing):
		default:
			// EOF или чужая закрывающая скобка
			p.reportUnclosed(open, closing)
			return args, p.lastSpan
		}
	}
}

func (p *Parser) reportUnclosed(open token.Token, closing token.Kind) {
	if closing == token.RBracket {
		p.report(diag.SynUnclosedBracket, diag.SevError, open.Span, "unclosed '['")
		return
	}
	p.report(diag.SynUnclosedParen, diag.SevError, open.Span, "unclosed '('")
}

// parseArg: `label: value` или `value`. Меткой может быть и ключевое слово (`in:`, `for:`).
func (p *Parser) parseArg(closing token.Kind) ast.Arg {
	start := p.peek().Span
	var arg ast.Arg

	if tok := p.peek(); isLabelToken(tok) && p.peekN(1).Kind == token.Colon {
		arg.Label = tok.Text
		arg.LabelSpan = tok.Span
		arg.HasLabel = true
		p.advance()
		p.advance()
	}

	value := p.parseExpr()
	if !p.atOr(token.Comma, closing, token.EOF) {
		value = p.recoverExpr(value)
	}
	arg.Value = value
	arg.Span = start.Cover(p.lastSpan)
	return arg
}

func isLabelToken(tok token.Token) bool {
	return tok.Kind == token.Ident || tok.Kind == token.Underscore || tok.IsKeyword()
}
