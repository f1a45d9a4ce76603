package token_test

import (
	"testing"

	"macplugins/internal/source"
	"macplugins/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{
		token.IntLit, token.FloatLit, token.StringLit,
		token.KwTrue, token.KwFalse, token.KwNil,
	}
	for _, k := range lits {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwLet, token.Operator, token.LParen}
	for _, k := range non {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestIsPunctOrOp(t *testing.T) {
	ops := []token.Kind{
		token.LParen, token.RParen, token.LBrace, token.RBrace, token.LBracket, token.RBracket,
		token.Comma, token.Colon, token.Semicolon, token.Dot, token.At, token.Hash,
		token.Arrow, token.Assign, token.Question, token.Bang, token.Underscore,
		token.Backslash, token.Operator,
	}
	for _, k := range ops {
		if !tok(k).IsPunctOrOp() {
			t.Fatalf("%v should be punct/op", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwIf, token.IntLit, token.StringLit, token.EOF}
	for _, k := range non {
		if tok(k).IsPunctOrOp() {
			t.Fatalf("%v must NOT be punct/op", k)
		}
	}
}

func TestIsKeyword(t *testing.T) {
	if tok(token.Ident).IsKeyword() || tok(token.IntLit).IsKeyword() {
		t.Fatal("ident and literal are not keywords")
	}
	for _, k := range []token.Kind{token.KwClass, token.KwSelf, token.KwGuard, token.KwNil} {
		if !tok(k).IsKeyword() {
			t.Fatalf("%v should be keyword", k)
		}
	}
}

func TestIsNominalIntro(t *testing.T) {
	intro := []token.Kind{
		token.KwClass, token.KwStruct, token.KwEnum,
		token.KwActor, token.KwProtocol, token.KwExtension,
	}
	for _, k := range intro {
		if !tok(k).IsNominalIntro() {
			t.Errorf("%v should start a type declaration", k)
		}
	}
	if tok(token.KwFunc).IsNominalIntro() {
		t.Error("func is not a type declaration")
	}
}

func TestHasNewline(t *testing.T) {
	tk := token.Token{Kind: token.Ident, Leading: []token.Trivia{
		{Kind: token.TriviaSpace, Text: " "},
		{Kind: token.TriviaBlockComment, Text: "/* a\nb */"},
	}}
	if !tk.HasNewline() {
		t.Error("block comment spanning lines must count as newline")
	}
	tk.Leading = tk.Leading[:1]
	if tk.HasNewline() || !tk.HasTrivia() {
		t.Error("single space: trivia without newline")
	}
}

func TestKindString(t *testing.T) {
	if got := token.KwClass.String(); got != "KwClass" {
		t.Errorf("String() = %q", got)
	}
	if got := token.Kind(250).String(); got != "Kind(?)" {
		t.Errorf("String() of unknown = %q", got)
	}
}
