package lexer

import (
	"fmt"

	"macplugins/internal/diag"
	"macplugins/internal/source"
	"macplugins/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // 1 элементный буфер для токена
	hold   []token.Trivia // накопленные leading trivia
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		look:   nil,
		hold:   nil,
	}
}

// Next возвращает следующий **значимый** токен с уже собранным Leading.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	// Leading из hold не приклеиваем к EOF
	if lx.cursor.EOF() {
		lx.hold = nil
		return token.Token{
			Kind: token.EOF,
			Span: lx.emptySpan(),
			Text: "",
		}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '_':
		// одиночный "_" → Underscore, "_foo" и "__x" → идентификатор
		if b1 := lx.cursor.PeekAt(1); isIdentContinueByte(b1) || b1 >= utf8RuneSelf {
			tok = lx.scanIdentOrKeyword()
		} else {
			start := lx.cursor.Mark()
			lx.cursor.Bump()
			tok = lx.emit(token.Underscore, start)
		}

	case isIdentStartByte(ch), ch == '$', ch >= utf8RuneSelf:
		tok = lx.scanIdentOrKeyword()

	case ch == '`':
		tok = lx.scanBacktickIdent()

	case isDec(ch):
		tok = lx.scanNumber()

	case ch == '"':
		tok = lx.scanString()

	case ch == '#' && lx.isRawStringStart():
		tok = lx.scanString()

	default:
		// операторы и пунктуация, включая @ # \
		tok = lx.scanOperatorOrPunct()
	}

	if tok.Span.Len() > maxTokenLength {
		lx.errLex(diag.LexTokenTooLong, tok.Span, fmt.Sprintf("token exceeds %d bytes", maxTokenLength))
		// дальше не лексим: перематываем до конца
		lx.cursor.SkipToEnd()
		tok.Kind = token.Invalid
		tok.Text = ""
	}

	tok.Leading = lx.hold
	lx.hold = nil
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// All lexes the rest of the file, EOF token included.
func (lx *Lexer) All() []token.Token {
	out := make([]token.Token, 0, len(lx.file.Content)/4+1)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) emit(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind: k,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

// File returns the source file being lexed.
func (lx *Lexer) File() *source.File {
	return lx.file
}
