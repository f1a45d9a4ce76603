package lexer

import (
	"macplugins/internal/diag"
	"macplugins/internal/token"
)

// collectLeadingTrivia складывает в lx.hold всё незначимое перед токеном.
// Пробелы (включая одиночный '\r') и переводы строк сливаются в один
// элемент на серию. Комментарии: "//", "///" (doc) и вложенные "/* */".
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		kind, ok := lx.scanTrivia()
		if !ok {
			lx.cursor.Reset(start)
			return
		}
		sp := lx.cursor.SpanFrom(start)
		lx.hold = append(lx.hold, token.Trivia{
			Kind: kind,
			Span: sp,
			Text: string(lx.file.Content[sp.Start:sp.End]),
		})
	}
}

func isBlank(b byte) bool { return b == ' ' || b == '\t' || b == '\r' }

// scanTrivia потребляет один элемент trivia; false, если под курсором токен.
func (lx *Lexer) scanTrivia() (token.TriviaKind, bool) {
	switch b := lx.cursor.Peek(); {
	case isBlank(b):
		for isBlank(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return token.TriviaSpace, true

	case b == '\n':
		lx.cursor.Advance(lx.cursor.RunLen('\n', 0))
		return token.TriviaNewline, true

	case lx.cursor.HasPrefix("//"):
		kind := token.TriviaLineComment
		if lx.cursor.HasPrefix("///") {
			kind = token.TriviaDocLine
		}
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		return kind, true

	case lx.cursor.HasPrefix("/*"):
		lx.skipBlockComment()
		return token.TriviaBlockComment, true
	}
	return 0, false
}

// skipBlockComment; незакрытый комментарий дотягивается до EOF с ошибкой.
func (lx *Lexer) skipBlockComment() {
	start := lx.cursor.Mark()
	lx.cursor.Advance(2)
	for depth := 1; depth > 0; {
		switch {
		case lx.cursor.EOF():
			lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
			return
		case lx.cursor.EatString("/*"):
			depth++
		case lx.cursor.EatString("*/"):
			depth--
		default:
			lx.cursor.Bump()
		}
	}
}
