package macros

import "strings"

// IndentUnit — один уровень отступа в сгенерированном коде.
const IndentUnit = "    "

// ExprExpansion is the replacement for a freestanding site: either the
// typed-null placeholder or a closure that is called in place.
type ExprExpansion struct {
	Placeholder bool
	// PlaceholderType — тип в `nil as T?`.
	PlaceholderType string
	Statements      []string
}

// Render печатает выражение. indent добавляется ко всем строкам, кроме
// первой: первая встаёт на место сайта.
func (e ExprExpansion) Render(indent string) string {
	if e.Placeholder {
		return "nil as " + e.PlaceholderType + "?"
	}
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, stmt := range e.Statements {
		for line := range strings.SplitSeq(stmt, "\n") {
			sb.WriteString(indent)
			sb.WriteString(IndentUnit)
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	sb.WriteString(indent)
	sb.WriteString("}()")
	return sb.String()
}

// MemberDecl is a declaration to splice into a type body.
type MemberDecl struct {
	Name   string
	Source string
}

// ExtensionDecl is a top-level extension emitted next to the type.
type ExtensionDecl struct {
	TypeName string
	Source   string
}

// Expansion — результат любого движка; заполнено поле, соответствующее роли.
type Expansion struct {
	Role       Role
	Expr       ExprExpansion
	Members    []MemberDecl
	Extensions []ExtensionDecl
}

// Empty reports whether the expansion produces nothing to splice.
func (e Expansion) Empty() bool {
	switch e.Role {
	case RoleExpression:
		return false
	case RoleMember:
		return len(e.Members) == 0
	case RoleExtension:
		return len(e.Extensions) == 0
	}
	return true
}
