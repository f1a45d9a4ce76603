package ast

import (
	"macplugins/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena      *Arena[Expr]
	Idents     *Arena[ExprIdentData]
	Strings    *Arena[ExprStringData]
	Literals   *Arena[ExprLiteralData]
	Arrays     *Arena[ExprArrayData]
	Dicts      *Arena[ExprDictData]
	Tuples     *Arena[ExprTupleData]
	Calls      *Arena[ExprCallData]
	Members    *Arena[ExprMemberData]
	Subscripts *Arena[ExprSubscriptData]
	Macros     *Arena[ExprMacroData]
	Others     *Arena[ExprOtherData]
}

// NewExprs creates a new Exprs with per-kind arenas preallocated using capHint as the initial capacity.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint/4 + 1
	return &Exprs{
		Arena:      NewArena[Expr](capHint),
		Idents:     NewArena[ExprIdentData](capHint),
		Strings:    NewArena[ExprStringData](small),
		Literals:   NewArena[ExprLiteralData](small),
		Arrays:     NewArena[ExprArrayData](small),
		Dicts:      NewArena[ExprDictData](small),
		Tuples:     NewArena[ExprTupleData](small),
		Calls:      NewArena[ExprCallData](small),
		Members:    NewArena[ExprMemberData](small),
		Subscripts: NewArena[ExprSubscriptData](small),
		Macros:     NewArena[ExprMacroData](small),
		Others:     NewArena[ExprOtherData](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kind ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != kind {
		return 0, false
	}
	return uint32(expr.Payload), true
}

// NewIdent creates a new identifier expression.
func (e *Exprs) NewIdent(span source.Span, name string) ExprID {
	payload := e.Idents.Allocate(ExprIdentData{Name: name})
	return e.new(ExprIdent, span, PayloadID(payload))
}

// Ident returns the identifier data for the given expression ID.
func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	p, ok := e.payload(id, ExprIdent)
	if !ok {
		return nil, false
	}
	return e.Idents.Get(p), true
}

// NewImplicitMember creates `.name`.
func (e *Exprs) NewImplicitMember(span source.Span, name string) ExprID {
	payload := e.Idents.Allocate(ExprIdentData{Name: name})
	return e.new(ExprImplicitMember, span, PayloadID(payload))
}

// ImplicitMember returns the member name of `.name`.
func (e *Exprs) ImplicitMember(id ExprID) (*ExprIdentData, bool) {
	p, ok := e.payload(id, ExprImplicitMember)
	if !ok {
		return nil, false
	}
	return e.Idents.Get(p), true
}

// NewStringLit creates a new string literal expression.
func (e *Exprs) NewStringLit(span source.Span, data ExprStringData) ExprID {
	payload := e.Strings.Allocate(data)
	return e.new(ExprString, span, PayloadID(payload))
}

// StringLit returns the string literal data for the given expression ID.
func (e *Exprs) StringLit(id ExprID) (*ExprStringData, bool) {
	p, ok := e.payload(id, ExprString)
	if !ok {
		return nil, false
	}
	return e.Strings.Get(p), true
}

// NewLiteral creates a number, boolean or nil literal.
func (e *Exprs) NewLiteral(span source.Span, kind ExprLitKind) ExprID {
	payload := e.Literals.Allocate(ExprLiteralData{Kind: kind})
	return e.new(ExprLit, span, PayloadID(payload))
}

// Literal returns the literal data for the given expression ID.
func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	p, ok := e.payload(id, ExprLit)
	if !ok {
		return nil, false
	}
	return e.Literals.Get(p), true
}

// NewArray creates an array literal.
func (e *Exprs) NewArray(span source.Span, elems []ExprID) ExprID {
	payload := e.Arrays.Allocate(ExprArrayData{Elems: append([]ExprID(nil), elems...)})
	return e.new(ExprArray, span, PayloadID(payload))
}

// Array returns the array literal data.
func (e *Exprs) Array(id ExprID) (*ExprArrayData, bool) {
	p, ok := e.payload(id, ExprArray)
	if !ok {
		return nil, false
	}
	return e.Arrays.Get(p), true
}

// NewDict creates a dictionary literal; an empty entries slice means `[:]`.
func (e *Exprs) NewDict(span source.Span, entries []DictEntry) ExprID {
	payload := e.Dicts.Allocate(ExprDictData{Entries: append([]DictEntry(nil), entries...)})
	return e.new(ExprDict, span, PayloadID(payload))
}

// Dict returns the dictionary literal data.
func (e *Exprs) Dict(id ExprID) (*ExprDictData, bool) {
	p, ok := e.payload(id, ExprDict)
	if !ok {
		return nil, false
	}
	return e.Dicts.Get(p), true
}

// NewTuple creates a parenthesized expression or tuple.
func (e *Exprs) NewTuple(span source.Span, elems []Arg) ExprID {
	payload := e.Tuples.Allocate(ExprTupleData{Elems: append([]Arg(nil), elems...)})
	return e.new(ExprTuple, span, PayloadID(payload))
}

// Tuple returns the tuple data.
func (e *Exprs) Tuple(id ExprID) (*ExprTupleData, bool) {
	p, ok := e.payload(id, ExprTuple)
	if !ok {
		return nil, false
	}
	return e.Tuples.Get(p), true
}

// NewCall creates a new function call expression.
func (e *Exprs) NewCall(span source.Span, target ExprID, args []Arg) ExprID {
	payload := e.Calls.Allocate(ExprCallData{Target: target, Args: append([]Arg(nil), args...)})
	return e.new(ExprCall, span, PayloadID(payload))
}

// Call returns the call data for the given expression ID.
func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}

// NewMember creates a new member access expression.
func (e *Exprs) NewMember(span source.Span, target ExprID, name string, nameSpan source.Span) ExprID {
	payload := e.Members.Allocate(ExprMemberData{Target: target, Name: name, NameSpan: nameSpan})
	return e.new(ExprMember, span, PayloadID(payload))
}

// Member returns the member access data.
func (e *Exprs) Member(id ExprID) (*ExprMemberData, bool) {
	p, ok := e.payload(id, ExprMember)
	if !ok {
		return nil, false
	}
	return e.Members.Get(p), true
}

// NewSubscript creates `target[args]`.
func (e *Exprs) NewSubscript(span source.Span, target ExprID, args []Arg) ExprID {
	payload := e.Subscripts.Allocate(ExprSubscriptData{Target: target, Args: append([]Arg(nil), args...)})
	return e.new(ExprSubscript, span, PayloadID(payload))
}

// Subscript returns the subscript data.
func (e *Exprs) Subscript(id ExprID) (*ExprSubscriptData, bool) {
	p, ok := e.payload(id, ExprSubscript)
	if !ok {
		return nil, false
	}
	return e.Subscripts.Get(p), true
}

// NewClosure creates an opaque closure literal.
func (e *Exprs) NewClosure(span source.Span) ExprID {
	return e.new(ExprClosure, span, NoPayloadID)
}

// NewMacro creates a freestanding macro expression.
func (e *Exprs) NewMacro(span source.Span, data ExprMacroData) ExprID {
	data.Args = append([]Arg(nil), data.Args...)
	payload := e.Macros.Allocate(data)
	return e.new(ExprMacro, span, PayloadID(payload))
}

// Macro returns the freestanding macro data.
func (e *Exprs) Macro(id ExprID) (*ExprMacroData, bool) {
	p, ok := e.payload(id, ExprMacro)
	if !ok {
		return nil, false
	}
	return e.Macros.Get(p), true
}

// NewOther creates an expression the tooling does not model; parts keep
// any sub-expressions that were parsed.
func (e *Exprs) NewOther(span source.Span, parts []ExprID) ExprID {
	payload := e.Others.Allocate(ExprOtherData{Parts: append([]ExprID(nil), parts...)})
	return e.new(ExprOther, span, PayloadID(payload))
}

// Other returns the data of an unmodelled expression.
func (e *Exprs) Other(id ExprID) (*ExprOtherData, bool) {
	p, ok := e.payload(id, ExprOther)
	if !ok {
		return nil, false
	}
	return e.Others.Get(p), true
}
