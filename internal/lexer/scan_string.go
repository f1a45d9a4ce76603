package lexer

import (
	"macplugins/internal/diag"
	"macplugins/internal/token"
)

// scanString сканирует "...", """...""" и сырые #"..."# (любое число '#').
// Escape в сырой строке — '\' плюс столько же '#'. Интерполяция \( ... )
// может содержать вложенные скобки и строки; отмечается StrInterpolated.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()

	hashes := 0
	for lx.cursor.Peek() == '#' {
		lx.cursor.Bump()
		hashes++
	}
	var flags token.Flags
	if hashes > 0 {
		flags |= token.StrRaw
	}

	multiline := lx.cursor.EatString(`"""`)
	if multiline {
		flags |= token.StrMultiline
	} else {
		lx.cursor.Bump() // opening '"'
	}

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '\\' && lx.atEscape(hashes):
			escStart := lx.cursor.Mark()
			lx.cursor.Advance(1 + hashes)
			if lx.cursor.Peek() == '(' {
				flags |= token.StrInterpolated
				lx.skipInterpolation(multiline)
				continue
			}
			lx.scanEscape(escStart, multiline)

		case b == '"' && lx.atClosingQuote(multiline, hashes):
			lx.cursor.Advance(closingLen(multiline, hashes))
			tok := lx.emit(token.StringLit, start)
			tok.Flags = flags
			return tok

		case b == '\n' && !multiline:
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}

		default:
			lx.cursor.Bump()
		}
	}

	// EOF без закрывающей кавычки
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// atEscape: курсор на '\', за ним ровно hashes символов '#'.
func (lx *Lexer) atEscape(hashes int) bool {
	return lx.cursor.RunLen('#', 1) >= hashes
}

func closingLen(multiline bool, hashes int) int {
	if multiline {
		return 3 + hashes
	}
	return 1 + hashes
}

// atClosingQuote: лишние '#' после закрывающих hashes допускаются и не входят в литерал.
func (lx *Lexer) atClosingQuote(multiline bool, hashes int) bool {
	quotes := closingLen(multiline, 0)
	if lx.cursor.RunLen('"', 0) < quotes {
		return false
	}
	return lx.cursor.RunLen('#', quotes) >= hashes
}

// scanEscape разбирает символ после '\'; курсор стоит сразу за вводной частью,
// escStart указывает на сам '\'.
func (lx *Lexer) scanEscape(escStart Mark, multiline bool) {
	switch lx.cursor.Peek() {
	case '0', '\\', 't', 'n', 'r', '"', '\'':
		lx.cursor.Bump()
		return
	case 'u':
		lx.cursor.Bump()
		if lx.cursor.Eat('{') {
			digits := 0
			for isHex(lx.cursor.Peek()) {
				lx.cursor.Bump()
				digits++
			}
			if digits > 0 && digits <= 8 && lx.cursor.Eat('}') {
				return
			}
		}
	case '\n':
		if multiline {
			lx.cursor.Bump() // перенос строки без разрыва
			return
		}
	}
	if b := lx.cursor.Peek(); b != '\n' && b != '"' && !lx.cursor.EOF() {
		lx.bumpRune()
	}
	lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "invalid escape sequence in string literal")
}

// skipInterpolation пропускает ( ... ) вместе с вложенными строками.
func (lx *Lexer) skipInterpolation(multiline bool) {
	lx.cursor.Bump() // '('
	depth := 1
	for !lx.cursor.EOF() && depth > 0 {
		switch b := lx.cursor.Peek(); {
		case b == '(':
			depth++
			lx.cursor.Bump()
		case b == ')':
			depth--
			lx.cursor.Bump()
		case b == '"', b == '#' && lx.isRawStringStart():
			lx.scanString()
		case b == '\n' && !multiline:
			return
		default:
			lx.cursor.Bump()
		}
	}
}
