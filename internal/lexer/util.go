package lexer

import (
	"unicode"
	"unicode/utf8"
)

// peekRune декодирует руну под курсором; size 0 значит EOF.
func (lx *Lexer) peekRune() (r rune, size int) {
	if b := lx.cursor.Peek(); b < utf8.RuneSelf {
		if lx.cursor.EOF() {
			return utf8.RuneError, 0
		}
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.cursor.Rest())
}

func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	lx.cursor.Advance(sz)
}

// Идентификаторы Swift: ASCII проверяется по байту, остальное через unicode.
// Символы категории So (эмодзи и т.п.) разрешены, как и в компиляторе Swift.
func isIdentStartByte(b byte) bool {
	return b == '_' || (b|0x20 >= 'a' && b|0x20 <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.Is(unicode.So, r)
}

func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func isDec(b byte) bool { return '0' <= b && b <= '9' }

func isHex(b byte) bool {
	return isDec(b) || (b|0x20 >= 'a' && b|0x20 <= 'f')
}

// isRawStringStart: под курсором один или больше '#', а за ними '"'.
func (lx *Lexer) isRawStringStart() bool {
	n := lx.cursor.RunLen('#', 0)
	return n > 0 && lx.cursor.PeekAt(n) == '"'
}
