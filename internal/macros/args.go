package macros

import (
	"macplugins/internal/ast"
	"macplugins/internal/source"
)

// Argument — один аргумент сайта макроса.
type Argument struct {
	Label    string
	HasLabel bool
	Expr     ast.ExprID
	Span     source.Span
}

type Arguments []Argument

// ArgumentsFrom копирует аргументы из AST, ничего не меняя в нём.
func ArgumentsFrom(args []ast.Arg) Arguments {
	out := make(Arguments, len(args))
	for i, a := range args {
		out[i] = Argument{
			Label:    a.Label,
			HasLabel: a.HasLabel,
			Expr:     a.Value,
			Span:     a.Span,
		}
	}
	return out
}

// FirstUnlabeled returns the first argument without a label.
func FirstUnlabeled(args Arguments) (Argument, bool) {
	for _, a := range args {
		if !a.HasLabel {
			return a, true
		}
	}
	return Argument{}, false
}

// ByLabel returns the first argument whose label is exactly name.
func ByLabel(args Arguments, name string) (Argument, bool) {
	for _, a := range args {
		if a.HasLabel && a.Label == name {
			return a, true
		}
	}
	return Argument{}, false
}
