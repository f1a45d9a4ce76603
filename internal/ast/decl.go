package ast

import (
	"strings"

	"macplugins/internal/source"
)

type DeclKind uint8

const (
	DeclOther DeclKind = iota // func, var, let, init, typealias, case ...
	DeclClass
	DeclStruct
	DeclEnum
	DeclActor
	DeclProtocol
	DeclExtension
)

func (k DeclKind) String() string {
	switch k {
	case DeclClass:
		return "class"
	case DeclStruct:
		return "struct"
	case DeclEnum:
		return "enum"
	case DeclActor:
		return "actor"
	case DeclProtocol:
		return "protocol"
	case DeclExtension:
		return "extension"
	}
	return "other"
}

// IsNominal reports whether the declaration introduces or extends a type.
func (k DeclKind) IsNominal() bool {
	return k != DeclOther
}

// Decl — декларация с её атрибутами. Для DeclOther тело и имя могут отсутствовать.
type Decl struct {
	Kind      DeclKind
	Name      string      // для extension — расширяемый тип, как в исходнике
	NameSpan  source.Span
	Keyword   source.Span // class/struct/... или func/var
	Span      source.Span // от первого атрибута/модификатора до '}' (или конца заголовка)
	Generics  source.Span // <...> после имени, пустой если нет
	Modifiers []string
	Attrs     []AttrID
	Parent    DeclID
	Members   []DeclID
	LBrace    source.Span
	RBrace    source.Span
	HasBody   bool
}

type Decls struct {
	Arena *Arena[Decl]
}

func NewDecls(capHint uint) *Decls {
	return &Decls{Arena: NewArena[Decl](capHint)}
}

func (d *Decls) New(decl Decl) DeclID {
	return DeclID(d.Arena.Allocate(decl))
}

func (d *Decls) Get(id DeclID) *Decl {
	return d.Arena.Get(uint32(id))
}

// QualifiedName returns Outer.Inner.Name for nested nominal declarations.
// Extensions contribute their extended type name.
func (d *Decls) QualifiedName(id DeclID) string {
	parts := make([]string, 0, 4)
	for cur := id; cur.IsValid(); {
		decl := d.Get(cur)
		if decl == nil {
			break
		}
		if decl.Kind.IsNominal() && decl.Name != "" {
			parts = append(parts, decl.Name)
		}
		cur = decl.Parent
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// Outermost returns the top-level ancestor of id (id itself when top-level).
func (d *Decls) Outermost(id DeclID) DeclID {
	cur := id
	for {
		decl := d.Get(cur)
		if decl == nil || !decl.Parent.IsValid() {
			return cur
		}
		cur = decl.Parent
	}
}
