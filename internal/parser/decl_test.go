package parser

// Тесты для деклараций и атрибутов.
//
// Покрытие:
//   - class/struct/enum/actor/protocol/extension с атрибутами
//   - атрибуты с аргументами и без, builtin-атрибуты
//   - модификаторы, private(set), class func
//   - вложенные типы и Parent/Members
//   - генерики и наследование в заголовке
//   - незакрытые и лишние фигурные скобки

import (
	"testing"

	"macplugins/internal/ast"
	"macplugins/internal/diag"
)

func TestAttributeOnClass(t *testing.T) {
	p := parseString(t, "@OSLogger(\"variablename\", subsystem: \"subsystem\", category: \"category\")\nclass Foo {\n}\n")
	expectNoDiagnostics(t, p)

	if got := len(p.file().Decls); got != 1 {
		t.Fatalf("expected 1 decl, got %d", got)
	}
	d := p.decl(0)
	if d.Kind != ast.DeclClass || d.Name != "Foo" {
		t.Fatalf("unexpected decl %s %q", d.Kind, d.Name)
	}
	if !d.HasBody || p.text(d.LBrace) != "{" || p.text(d.RBrace) != "}" {
		t.Fatalf("body braces not recorded: %+v", d)
	}
	if len(d.Attrs) != 1 {
		t.Fatalf("expected 1 attribute, got %d", len(d.Attrs))
	}
	attr := p.builder.Attrs.Get(d.Attrs[0])
	if attr.Name != "OSLogger" || !attr.HasArgs || len(attr.Args) != 3 {
		t.Fatalf("unexpected attribute %+v", attr)
	}
	if attr.Decl != p.file().Decls[0] {
		t.Fatalf("attribute not linked back to decl")
	}
	if attr.Args[0].HasLabel {
		t.Fatalf("first argument must be unlabeled")
	}
	if attr.Args[1].Label != "subsystem" || attr.Args[2].Label != "category" {
		t.Fatalf("labels: %q %q", attr.Args[1].Label, attr.Args[2].Label)
	}
	if got := p.text(attr.Span); got != "@OSLogger(\"variablename\", subsystem: \"subsystem\", category: \"category\")" {
		t.Fatalf("attribute span %q", got)
	}
	if p.text(d.Span)[:9] != "@OSLogger" {
		t.Fatalf("decl span must start at the attribute: %q", p.text(d.Span))
	}
}

func TestAttributeWithoutArgs(t *testing.T) {
	p := parseString(t, "@Equatable\nclass XXX {}")
	expectNoDiagnostics(t, p)
	attr := p.builder.Attrs.Get(p.decl(0).Attrs[0])
	if attr.Name != "Equatable" || attr.HasArgs {
		t.Fatalf("unexpected attribute %+v", attr)
	}
}

func TestAttributeSpaceBeforeParenIsNotArgs(t *testing.T) {
	p := parseString(t, "@Equatable (x)\nstruct S {}")
	// скобка с пробелом — не аргументы, атрибут сбрасывается
	if got := len(p.decl(0).Attrs); got != 0 {
		t.Fatalf("expected attribute to be dropped, got %d", got)
	}
}

func TestDeclKinds(t *testing.T) {
	cases := []struct {
		src  string
		kind ast.DeclKind
		name string
	}{
		{"@M class A {}", ast.DeclClass, "A"},
		{"@M struct B {}", ast.DeclStruct, "B"},
		{"@M enum C {}", ast.DeclEnum, "C"},
		{"@M actor D {}", ast.DeclActor, "D"},
		{"@M protocol E {}", ast.DeclProtocol, "E"},
		{"@M extension Swift.Array {}", ast.DeclExtension, "Swift.Array"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := parseString(t, tc.src)
			expectNoDiagnostics(t, p)
			d := p.decl(0)
			if d.Kind != tc.kind || d.Name != tc.name {
				t.Fatalf("got %s %q, want %s %q", d.Kind, d.Name, tc.kind, tc.name)
			}
		})
	}
}

func TestModifiersAndHeader(t *testing.T) {
	src := "@MainActor public final class Box<T: Equatable>: NSObject, @unchecked Sendable where T: Hashable {\n}"
	p := parseString(t, src)
	expectNoDiagnostics(t, p)
	d := p.decl(0)
	if d.Name != "Box" {
		t.Fatalf("name %q", d.Name)
	}
	if len(d.Modifiers) != 2 || d.Modifiers[0] != "public" || d.Modifiers[1] != "final" {
		t.Fatalf("modifiers %v", d.Modifiers)
	}
	if got := p.text(d.Generics); got != "<T: Equatable>" {
		t.Fatalf("generics %q", got)
	}
	if !d.HasBody {
		t.Fatalf("body not found")
	}
}

func TestPrivateSetModifier(t *testing.T) {
	p := parseString(t, "struct S {\n    @Published private(set) var x = 1\n}")
	expectNoDiagnostics(t, p)
	if len(p.file().Decls) != 2 {
		t.Fatalf("expected struct and var, got %d", len(p.file().Decls))
	}
	v := p.decl(1)
	if v.Kind != ast.DeclOther || v.Name != "x" {
		t.Fatalf("unexpected member %s %q", v.Kind, v.Name)
	}
	if len(v.Modifiers) != 1 || v.Modifiers[0] != "private(set)" {
		t.Fatalf("modifiers %v", v.Modifiers)
	}
}

func TestClassAsModifier(t *testing.T) {
	p := parseString(t, "class A {\n    @objc class func make() {}\n    class var shared: A { A() }\n}")
	expectNoDiagnostics(t, p)
	if len(p.file().Decls) != 2 {
		t.Fatalf("expected class and func, got %d", len(p.file().Decls))
	}
	f := p.decl(1)
	if f.Name != "make" || len(f.Modifiers) != 1 || f.Modifiers[0] != "class" {
		t.Fatalf("unexpected func %q %v", f.Name, f.Modifiers)
	}
}

func TestNestedDecls(t *testing.T) {
	src := "struct Outer {\n    func f() {\n        let x = { }\n    }\n    @Equatable\n    class Inner {\n    }\n}\n"
	p := parseString(t, src)
	expectNoDiagnostics(t, p)
	if len(p.file().Decls) != 2 {
		t.Fatalf("expected 2 decls, got %d", len(p.file().Decls))
	}
	outerID := p.file().Decls[0]
	inner := p.decl(1)
	if inner.Parent != outerID {
		t.Fatalf("inner parent = %d, want %d", inner.Parent, outerID)
	}
	outer := p.builder.Decls.Get(outerID)
	if len(outer.Members) != 1 || outer.Members[0] != p.file().Decls[1] {
		t.Fatalf("outer members %v", outer.Members)
	}
	if got := p.builder.Decls.QualifiedName(p.file().Decls[1]); got != "Outer.Inner" {
		t.Fatalf("qualified name %q", got)
	}
	if p.text(outer.RBrace) != "}" || outer.RBrace.Start != uint32(len(src)-2) {
		t.Fatalf("outer rbrace at %d", outer.RBrace.Start)
	}
}

func TestParamAttributesDoNotLeak(t *testing.T) {
	p := parseString(t, "func run(_ f: @escaping () -> Void) {}\nclass K {}")
	expectNoDiagnostics(t, p)
	if len(p.file().Decls) != 1 {
		t.Fatalf("expected only class K, got %d decls", len(p.file().Decls))
	}
	if got := len(p.decl(0).Attrs); got != 0 {
		t.Fatalf("class K picked up %d attributes", got)
	}
}

func TestProtocolClassConstraint(t *testing.T) {
	p := parseString(t, "@M protocol P: class {}")
	expectNoDiagnostics(t, p)
	if !p.decl(0).HasBody {
		t.Fatalf("protocol body not found")
	}
}

func TestImports(t *testing.T) {
	p := parseString(t, "import Foundation\n@testable import struct OSLog.Logger\n")
	expectNoDiagnostics(t, p)
	imports := p.file().Imports
	if len(imports) != 2 || imports[0] != "Foundation" || imports[1] != "OSLog.Logger" {
		t.Fatalf("imports %v", imports)
	}
}

func TestUnclosedBrace(t *testing.T) {
	p := parseString(t, "@Equatable class A {\n  func f() {\n")
	d := expectCode(t, p, diag.SynUnclosedBrace)
	if d.Severity != diag.SevError {
		t.Fatalf("severity %v", d.Severity)
	}
	if got := p.bag.Len(); got != 2 {
		t.Fatalf("expected two unclosed braces, got %s", diagnosticsSummary(p.bag))
	}
}

func TestUnbalancedBrace(t *testing.T) {
	p := parseString(t, "class A {}\n}\n")
	expectCode(t, p, diag.SynUnbalancedBrace)
}

func TestMissingBody(t *testing.T) {
	p := parseString(t, "@Equatable class A\nfunc f() {}")
	expectCode(t, p, diag.SynUnexpectedToken)
	if p.decl(0).HasBody {
		t.Fatalf("decl without body reported HasBody")
	}
}

func TestAttributeWithoutName(t *testing.T) {
	p := parseString(t, "@ class A {}")
	expectCode(t, p, diag.SynExpectIdentifier)
}

func TestStrayBracesEachReported(t *testing.T) {
	p := parseString(t, "}}}}")
	if got := p.bag.Len(); got != 4 {
		t.Fatalf("expected 4 errors, got %d", got)
	}
}
