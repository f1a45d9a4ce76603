package macros

import (
	"strings"

	"macplugins/internal/ast"
	"macplugins/internal/source"
)

// Shape — форма выражения, по которой ветвятся движки.
type Shape uint8

const (
	ShapeUnrecognized Shape = iota
	ShapeIdentifier
	ShapeString
	ShapeMapping
)

func (s Shape) String() string {
	switch s {
	case ShapeIdentifier:
		return "identifier"
	case ShapeString:
		return "string"
	case ShapeMapping:
		return "mapping"
	}
	return "unrecognized"
}

// Classification is the shape of an expression plus the source text to re-emit.
type Classification struct {
	Shape Shape
	Text  string
}

var unrecognized = Classification{Shape: ShapeUnrecognized}

// Classify определяет форму выражения id.
//   - Identifier: голое имя, Text — исходный текст как есть;
//   - String: строковый литерал без интерполяции с непустым содержимым,
//     Text — исходник вместе с кавычками и '#';
//   - Mapping: словарный литерал, Text — каноничная запись [k: v, ...];
//   - всё остальное Unrecognized.
func Classify(b *ast.Builder, file *source.File, id ast.ExprID) Classification {
	expr := b.Exprs.Get(id)
	if expr == nil {
		return unrecognized
	}
	switch expr.Kind {
	case ast.ExprIdent:
		data, _ := b.Exprs.Ident(id)
		if data.Name == "_" {
			return unrecognized
		}
		return Classification{Shape: ShapeIdentifier, Text: file.Text(expr.Span)}

	case ast.ExprString:
		data, _ := b.Exprs.StringLit(id)
		text := file.Text(expr.Span)
		if data.Segments != 1 || len(text) <= 2 || data.Content == "" {
			return unrecognized
		}
		return Classification{Shape: ShapeString, Text: text}

	case ast.ExprDict:
		data, _ := b.Exprs.Dict(id)
		text, ok := renderMapping(b, file, data)
		if !ok {
			return unrecognized
		}
		return Classification{Shape: ShapeMapping, Text: text}
	}
	return unrecognized
}

func renderMapping(b *ast.Builder, file *source.File, data *ast.ExprDictData) (string, bool) {
	if len(data.Entries) == 0 {
		return "[:]", true
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range data.Entries {
		key, value := b.Exprs.Get(e.Key), b.Exprs.Get(e.Value)
		if key == nil || value == nil {
			return "", false
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(file.Text(key.Span))
		sb.WriteString(": ")
		sb.WriteString(file.Text(value.Span))
	}
	sb.WriteByte(']')
	return sb.String(), true
}
