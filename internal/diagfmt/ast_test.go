package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"macplugins/internal/diag"
	"macplugins/internal/parser"
	"macplugins/internal/source"
)

func TestFormatASTPretty(t *testing.T) {
	fs := source.NewFileSet()
	src := "@OSLogger(\"log\", subsystem: \"s\", category: \"c\")\npublic final class Foo {\n    @Equatable struct Bar {}\n}\nlet r = #buildURLRequest(url: \"u\")\n"
	id := fs.AddVirtual("demo.swift", []byte(src))
	bag := diag.NewBag(10)
	builder, res := parser.ParseSource(fs, id, bag)

	var buf bytes.Buffer
	if err := FormatASTPretty(&buf, builder, res.File, fs); err != nil {
		t.Fatalf("FormatASTPretty: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"demo.swift (span: 1:1-",
		"├─ Decl class Foo [public final]",
		"│  ├─ Attr OSLogger",
		"│  │  ├─ Arg string \"log\"",
		"│  │  ├─ Arg string subsystem: \"s\"",
		"│  └─ Decl struct Bar",
		"└─ Site macro #buildURLRequest",
		"   └─ Arg string url: \"u\"",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatASTJSON(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("demo.swift", []byte("import Foundation\n@Equatable class A {}\n"))
	builder, res := parser.ParseSource(fs, id, diag.NewBag(10))

	var buf bytes.Buffer
	if err := FormatASTJSON(&buf, builder, res.File, fs); err != nil {
		t.Fatalf("FormatASTJSON: %v", err)
	}
	var out ASTNodeOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(out.Children) != 1 || out.Children[0].Text != "A" || out.Children[0].Kind != "class" {
		t.Fatalf("unexpected children %+v", out.Children)
	}
	if len(out.Children[0].Children) != 1 || out.Children[0].Children[0].Text != "Equatable" {
		t.Fatalf("attribute missing: %+v", out.Children[0].Children)
	}
}

func TestSarif(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.swift", []byte("@OSLogger\nclass A {}"))
	bag := diag.NewBag(2)
	bag.Add(diag.New(diag.SevError, diag.MacWrongType, source.Span{File: fileID, Start: 0, End: 9}, "wrong type"))

	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "macplugins", ToolVersion: "0.1.0", InvocationArgs: []string{"diag"}}); err != nil {
		t.Fatalf("Sarif: %v", err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "macplugins" || len(run.Tool.Driver.Rules) != 1 {
		t.Fatalf("unexpected driver %+v", run.Tool.Driver)
	}
	res := run.Results[0]
	if res.RuleID != "MAC4101" || res.Level != "error" {
		t.Fatalf("unexpected result %+v", res)
	}
	if region := res.Locations[0].PhysicalLocation.Region; region.StartLine != 1 || region.EndColumn != 10 {
		t.Fatalf("unexpected region %+v", region)
	}
	if run.Invocations[0].ExecutionSuccessful {
		t.Fatalf("run with errors reported as successful")
	}
}
