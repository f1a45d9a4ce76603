package ast

import (
	"macplugins/internal/source"
)

// ExprKind enumerates the different kinds of expressions.
type ExprKind uint8

const (
	// ExprIdent represents a bare declaration reference (`foo`, `self`, `` `class` ``).
	ExprIdent ExprKind = iota
	// ExprString represents a string literal of any form.
	ExprString
	// ExprLit represents number, boolean and nil literals.
	ExprLit
	ExprArray
	ExprDict
	// ExprTuple represents `( ... )`; a single unlabeled element is a parenthesized expression.
	ExprTuple
	ExprCall
	ExprMember
	// ExprImplicitMember represents `.name`.
	ExprImplicitMember
	ExprSubscript
	// ExprClosure is a `{ ... }` literal; its body is not parsed.
	ExprClosure
	// ExprMacro is a nested freestanding macro `#name(...)`.
	ExprMacro
	// ExprOther covers operator chains, postfix `?`/`!`, casts, key paths and recovered garbage.
	ExprOther
)

func (k ExprKind) String() string {
	switch k {
	case ExprIdent:
		return "ident"
	case ExprString:
		return "string"
	case ExprLit:
		return "literal"
	case ExprArray:
		return "array"
	case ExprDict:
		return "dict"
	case ExprTuple:
		return "tuple"
	case ExprCall:
		return "call"
	case ExprMember:
		return "member"
	case ExprImplicitMember:
		return "implicit-member"
	case ExprSubscript:
		return "subscript"
	case ExprClosure:
		return "closure"
	case ExprMacro:
		return "macro"
	case ExprOther:
		return "other"
	}
	return "unknown"
}

// Expr is the arena node; Payload indexes the per-kind data arena.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

// Arg — элемент списка аргументов или кортежа, возможно с меткой.
type Arg struct {
	Label     string
	LabelSpan source.Span
	HasLabel  bool
	Value     ExprID
	Span      source.Span // метка + значение
}

type ExprIdentData struct {
	Name string
}

// ExprStringData describes a string literal. Segments is 1 for a literal
// without interpolation; each \( ... ) adds an interpolation segment and the
// text segment after it.
type ExprStringData struct {
	Segments  int
	Raw       bool
	Multiline bool
	// Content is the text between the delimiters, escapes not decoded.
	Content string
}

type ExprLitKind uint8

const (
	LitInt ExprLitKind = iota
	LitFloat
	LitTrue
	LitFalse
	LitNil
)

type ExprLiteralData struct {
	Kind ExprLitKind
}

type ExprArrayData struct {
	Elems []ExprID
}

type DictEntry struct {
	Key   ExprID
	Value ExprID
}

type ExprDictData struct {
	Entries []DictEntry
}

type ExprTupleData struct {
	Elems []Arg
}

type ExprCallData struct {
	Target ExprID
	Args   []Arg
}

type ExprMemberData struct {
	Target   ExprID
	Name     string
	NameSpan source.Span
}

type ExprSubscriptData struct {
	Target ExprID
	Args   []Arg
}

type ExprMacroData struct {
	Name     string
	NameSpan source.Span
	Args     []Arg
	HasArgs  bool
}

type ExprOtherData struct {
	Parts []ExprID
}
