package token

import (
	"macplugins/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Flags   Flags
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, boolean, nil, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, KwTrue, KwFalse, KwNil:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	return t.Kind >= LParen && t.Kind <= Operator
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwClass && t.Kind <= KwSelf
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsNominalIntro reports whether the token starts a type declaration.
func (t Token) IsNominalIntro() bool {
	switch t.Kind {
	case KwClass, KwStruct, KwEnum, KwActor, KwProtocol, KwExtension:
		return true
	default:
		return false
	}
}

// HasTrivia reports whether anything (spaces, newlines, comments) precedes the token.
func (t Token) HasTrivia() bool { return len(t.Leading) > 0 }

// HasNewline reports whether the leading trivia crosses a line break.
func (t Token) HasNewline() bool {
	for _, tv := range t.Leading {
		switch tv.Kind {
		case TriviaNewline:
			return true
		case TriviaBlockComment:
			for i := 0; i < len(tv.Text); i++ {
				if tv.Text[i] == '\n' {
					return true
				}
			}
		}
	}
	return false
}
