package macros

import (
	"macplugins/internal/ast"
	"macplugins/internal/source"
)

// Syntax — разобранный фрагмент, который движок только читает.
type Syntax struct {
	Builder *ast.Builder
	File    *source.File
}

func (s Syntax) classify(id ast.ExprID) Classification {
	return Classify(s.Builder, s.File, id)
}

// FreestandingInput describes one #name(...) site.
type FreestandingInput struct {
	Syntax
	Name string
	Node source.Span
	Args Arguments
}

// NewFreestandingInput builds the input for a parsed macro expression.
func NewFreestandingInput(b *ast.Builder, file *source.File, site ast.ExprID) (FreestandingInput, bool) {
	data, ok := b.Exprs.Macro(site)
	if !ok {
		return FreestandingInput{}, false
	}
	return FreestandingInput{
		Syntax: Syntax{Builder: b, File: file},
		Name:   data.Name,
		Node:   b.Exprs.Get(site).Span,
		Args:   ArgumentsFrom(data.Args),
	}, true
}

// AttachedInput describes an attribute together with the declaration it is
// attached to.
type AttachedInput struct {
	Syntax
	Name     string
	Node     source.Span // сам атрибут
	Args     Arguments
	Decl     ast.DeclID
	DeclKind ast.DeclKind
	// TypeName — имя типа, как его видно с верхнего уровня (Outer.Inner).
	TypeName string
	// Name of the declaration itself, without enclosing types.
	DeclName string
}

// NewAttachedInput builds the input for attribute attr of a parsed declaration.
func NewAttachedInput(b *ast.Builder, file *source.File, attr ast.AttrID) (AttachedInput, bool) {
	a := b.Attrs.Get(attr)
	if a == nil || !a.Decl.IsValid() {
		return AttachedInput{}, false
	}
	d := b.Decls.Get(a.Decl)
	return AttachedInput{
		Syntax:   Syntax{Builder: b, File: file},
		Name:     a.Name,
		Node:     a.Span,
		Args:     ArgumentsFrom(a.Args),
		Decl:     a.Decl,
		DeclKind: d.Kind,
		TypeName: b.Decls.QualifiedName(a.Decl),
		DeclName: d.Name,
	}, true
}
