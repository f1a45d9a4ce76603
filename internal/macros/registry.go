package macros

import (
	"errors"
	"fmt"
	"slices"

	"macplugins/internal/ast"
)

// ModuleName is the module the host compiler loads the macros from.
const ModuleName = "MacpluginsMacros"

// Role — какой вид синтаксиса производит макрос.
type Role uint8

const (
	RoleExpression Role = iota
	RoleMember
	RoleExtension
)

func (r Role) String() string {
	switch r {
	case RoleExpression:
		return "expression"
	case RoleMember:
		return "member"
	case RoleExtension:
		return "extension"
	}
	return "unknown"
}

// Freestanding reports whether the role is invoked as #name rather than @Name.
func (r Role) Freestanding() bool {
	return r == RoleExpression
}

// AttachesTo reports whether an attached macro of this role can expand on a
// declaration of kind k. A protocol cannot be extended with a conformance.
func (r Role) AttachesTo(k ast.DeclKind) bool {
	switch {
	case r.Freestanding(), !k.IsNominal():
		return false
	case r == RoleExtension:
		return k != ast.DeclProtocol
	}
	return true
}

// NotAttachableMessage — текст диагностики для AttachesTo == false.
func NotAttachableMessage(name string, k ast.DeclKind) string {
	if k == ast.DeclProtocol {
		return fmt.Sprintf("@%s cannot be attached to a protocol", name)
	}
	return fmt.Sprintf("@%s can only be attached to a type declaration", name)
}

type Macro struct {
	Name     string
	Role     Role
	TypeName string
	Module   string
}

const (
	BuildURLRequestType = "BuildURLRequestMacro"
	OSLoggerType        = "OSLoggerMacro"
	EquatableType       = "EquatableMacro"
)

var builtin = []Macro{
	{Name: "buildURLRequest", Role: RoleExpression, TypeName: BuildURLRequestType, Module: ModuleName},
	{Name: "OSLogger", Role: RoleMember, TypeName: OSLoggerType, Module: ModuleName},
	{Name: "Equatable", Role: RoleExtension, TypeName: EquatableType, Module: ModuleName},
}

var (
	ErrUnknownMacro = errors.New("unknown macro")
	ErrWrongRole    = errors.New("macro used in the wrong role")
)

// Registry — неизменяемый список макросов. Регистрация — только данные.
type Registry struct {
	macros []Macro
}

// DefaultRegistry returns the three macros this plugin provides.
func DefaultRegistry() Registry {
	return Registry{macros: slices.Clone(builtin)}
}

// Without returns a copy of r without the named macros.
func (r Registry) Without(names ...string) Registry {
	out := Registry{macros: make([]Macro, 0, len(r.macros))}
	for _, m := range r.macros {
		if !slices.Contains(names, m.Name) {
			out.macros = append(out.macros, m)
		}
	}
	return out
}

// All returns the registered macros in registration order.
func (r Registry) All() []Macro {
	return slices.Clone(r.macros)
}

// Lookup finds a macro by the name used at the site.
func (r Registry) Lookup(name string) (Macro, bool) {
	for _, m := range r.macros {
		if m.Name == name {
			return m, true
		}
	}
	return Macro{}, false
}

// LookupType finds a macro by its implementation type name.
func (r Registry) LookupType(typeName string) (Macro, bool) {
	for _, m := range r.macros {
		if m.TypeName == typeName {
			return m, true
		}
	}
	return Macro{}, false
}

// ExpandFreestanding запускает движок freestanding-макроса m.
func ExpandFreestanding(m Macro, in FreestandingInput, sink Sink) (Expansion, error) {
	if !m.Role.Freestanding() {
		return Expansion{}, fmt.Errorf("%w: %s is %s", ErrWrongRole, m.Name, m.Role)
	}
	switch m.TypeName {
	case BuildURLRequestType:
		return Expansion{Role: RoleExpression, Expr: ExpandBuildRequest(in, sink)}, nil
	}
	return Expansion{}, fmt.Errorf("%w: %s", ErrUnknownMacro, m.TypeName)
}

// ExpandAttached запускает движок attached-макроса m.
func ExpandAttached(m Macro, in AttachedInput, sink Sink) (Expansion, error) {
	if m.Role.Freestanding() {
		return Expansion{}, fmt.Errorf("%w: %s is %s", ErrWrongRole, m.Name, m.Role)
	}
	switch m.TypeName {
	case OSLoggerType:
		return Expansion{Role: RoleMember, Members: ExpandOSLogger(in, sink)}, nil
	case EquatableType:
		return Expansion{Role: RoleExtension, Extensions: ExpandEquatable(in)}, nil
	}
	return Expansion{}, fmt.Errorf("%w: %s", ErrUnknownMacro, m.TypeName)
}
