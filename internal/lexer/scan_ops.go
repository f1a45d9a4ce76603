package lexer

import (
	"macplugins/internal/token"
)

// scanOperatorOrPunct: сначала одиночная пунктуация, затем жадная серия
// операторных символов. Серия, начатая с '.', может содержать точки
// (..., ..<); иначе точка её обрывает (a?.b → ? . b). "//" и "/*" внутри
// серии начинают комментарий.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch ch := lx.cursor.Peek(); ch {
	case '(', ')', '{', '}', '[', ']', ',', ':', ';', '@', '#', '\\':
		lx.cursor.Bump()
		return lx.emit(punctKinds[ch], start)
	}

	if !isOperatorByte(lx.cursor.Peek()) {
		return lx.scanUnknown()
	}

	dotted := lx.cursor.Peek() == '.'
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '.' && !dotted {
			break
		}
		if !isOperatorByte(b) {
			break
		}
		if b == '/' {
			if b1 := lx.cursor.PeekAt(1); b1 == '/' || b1 == '*' {
				break
			}
		}
		lx.cursor.Bump()
	}

	tok := lx.emit(token.Operator, start)
	switch tok.Text {
	case "=":
		tok.Kind = token.Assign
	case "->":
		tok.Kind = token.Arrow
	case ".":
		tok.Kind = token.Dot
	case "?":
		tok.Kind = token.Question
	case "!":
		tok.Kind = token.Bang
	}
	return tok
}

var punctKinds = map[byte]token.Kind{
	'(':  token.LParen,
	')':  token.RParen,
	'{':  token.LBrace,
	'}':  token.RBrace,
	'[':  token.LBracket,
	']':  token.RBracket,
	',':  token.Comma,
	':':  token.Colon,
	';':  token.Semicolon,
	'@':  token.At,
	'#':  token.Hash,
	'\\': token.Backslash,
}

func isOperatorByte(b byte) bool {
	switch b {
	case '/', '=', '-', '+', '!', '*', '%', '<', '>', '&', '|', '^', '~', '?', '.':
		return true
	}
	return false
}
