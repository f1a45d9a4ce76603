package ast

import "macplugins/internal/source"

// Attr описывает атрибут вида `@name` или `@name(args...)`.
type Attr struct {
	Name     string
	NameSpan source.Span
	Span     source.Span // от '@' до ')' включительно (или до конца имени)
	Args     []Arg
	HasArgs  bool
	Decl     DeclID
}

type Attrs struct {
	Arena *Arena[Attr]
}

func NewAttrs(capHint uint) *Attrs {
	return &Attrs{Arena: NewArena[Attr](capHint)}
}

func (a *Attrs) New(attr Attr) AttrID {
	attr.Args = append([]Arg(nil), attr.Args...)
	return AttrID(a.Arena.Allocate(attr))
}

func (a *Attrs) Get(id AttrID) *Attr {
	return a.Arena.Get(uint32(id))
}
