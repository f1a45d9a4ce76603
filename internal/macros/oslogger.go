package macros

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"macplugins/internal/ast"
	"macplugins/internal/token"
)

const (
	defaultLoggerName = "logger"
	defaultSubsystem  = `Bundle.main.bundleIdentifier ?? "Unknown"`
)

// ExpandOSLogger раскрывает @OSLogger(name, subsystem:, category:) в
// `private let <name> = Logger(subsystem: ..., category: ...)`.
// Допустимы только class и struct. Любой плохой слот — его диагностика и
// ноль членов; порядок проверки name → subsystem → category.
func ExpandOSLogger(in AttachedInput, sink Sink) []MemberDecl {
	if in.DeclKind != ast.DeclClass && in.DeclKind != ast.DeclStruct {
		sink.Report(in.Node, WrongType.Info())
		return nil
	}

	name := defaultLoggerName
	if arg, ok := FirstUnlabeled(in.Args); ok {
		n, ok := loggerName(in.classify(arg.Expr))
		if !ok {
			sink.Report(in.Node, BadLoggerNameValue.Info())
			return nil
		}
		name = n
	}

	subsystem := defaultSubsystem
	if arg, ok := ByLabel(in.Args, "subsystem"); ok {
		s, ok := loggerValue(in.classify(arg.Expr))
		if !ok {
			sink.Report(in.Node, BadSubsystemValue.Info())
			return nil
		}
		subsystem = s
	}

	category := strconv.Quote(strings.Trim(in.DeclName, "`"))
	if arg, ok := ByLabel(in.Args, "category"); ok {
		c, ok := loggerValue(in.classify(arg.Expr))
		if !ok {
			sink.Report(in.Node, BadCategoryValue.Info())
			return nil
		}
		category = c
	}

	return []MemberDecl{{
		Name:   name,
		Source: fmt.Sprintf("private let %s = Logger(subsystem: %s, category: %s)", name, subsystem, category),
	}}
}

func loggerValue(c Classification) (string, bool) {
	switch c.Shape {
	case ShapeIdentifier, ShapeString:
		return c.Text, true
	case ShapeMapping, ShapeUnrecognized:
	}
	return "", false
}

// loggerName: из строки берётся содержимое, и оно само должно быть именем.
func loggerName(c Classification) (string, bool) {
	switch c.Shape {
	case ShapeIdentifier:
		return c.Text, true
	case ShapeString:
		content := stringContent(c.Text)
		if !IsIdentifier(content) {
			return "", false
		}
		return content, true
	case ShapeMapping, ShapeUnrecognized:
	}
	return "", false
}

// stringContent снимает '#' и кавычки с однострочного литерала.
func stringContent(lit string) string {
	for len(lit) >= 2 && lit[0] == '#' && lit[len(lit)-1] == '#' {
		lit = lit[1 : len(lit)-1]
	}
	if len(lit) >= 2 && lit[0] == '"' && lit[len(lit)-1] == '"' {
		return lit[1 : len(lit)-1]
	}
	return lit
}

// IsIdentifier reports whether s can be used as a declaration name as is.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	if _, kw := token.LookupKeyword(s); kw {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return s != "_"
}
