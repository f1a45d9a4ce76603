package driver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"macplugins/internal/diag"
	"macplugins/internal/fix"
	"macplugins/internal/parser"
	"macplugins/internal/source"
)

const defaultSubsystem = `Bundle.main.bundleIdentifier ?? "Unknown"`

func expandString(t *testing.T, code string, opts Options) (*source.FileSet, *FileResult) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.swift", []byte(code))
	res, err := ExpandFile(context.Background(), fs, id, opts)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	return fs, res
}

// requestBlock is the #buildURLRequest closure rendered at indent.
func requestBlock(url, indent string) string {
	lines := []string{
		"{",
		"    guard let url = URL(string: " + url + ") else {",
		"        return nil",
		"    }",
		"    var result = URLRequest(url: url)",
		`    result.httpMethod = "GET"`,
		"    let headers: [String: String] = [:]",
		"    for (header, value) in headers {",
		"        result.setValue(value, forHTTPHeaderField: header)",
		"    }",
		"    return result",
	}
	out := lines[0] + "\n"
	for _, line := range lines[1:] {
		out += indent + line + "\n"
	}
	return out + indent + "}()"
}

func logger(name, category string) string {
	return "private let " + name + " = Logger(subsystem: " + defaultSubsystem + `, category: "` + category + `")`
}

func codes(bag *diag.Bag) []diag.Code {
	out := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func sameCodes(got, want []diag.Code) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestExpandFile(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		codes []diag.Code
	}{
		{
			name:  "oslogger all arguments",
			input: "@OSLogger(\"variablename\", subsystem: \"subsystem\", category: \"category\")\nclass Foo {\n}\n",
			want:  "class Foo {\n\n    private let variablename = Logger(subsystem: \"subsystem\", category: \"category\")\n}\n",
		},
		{
			name:  "oslogger body on one line",
			input: "@OSLogger struct S { let x = 1 }\n",
			want:  "struct S { let x = 1\n\n    " + logger("logger", "S") + "\n}\n",
		},
		{
			name:  "oslogger empty body",
			input: "@OSLogger final class Empty {}\n",
			want:  "final class Empty {\n\n    " + logger("logger", "Empty") + "\n}\n",
		},
		{
			name:  "oslogger nested keeps indentation",
			input: "enum Outer {\n    @OSLogger\n    class Inner {\n    }\n}\n",
			want:  "enum Outer {\n    class Inner {\n\n        " + logger("logger", "Inner") + "\n    }\n}\n",
		},
		{
			name:  "equatable",
			input: "@Equatable\nclass XXX {}\n",
			want:  "class XXX {}\n\nextension XXX: Equatable {\n}\n",
		},
		{
			name:  "equatable nested goes after outermost type",
			input: "enum Outer {\n    @Equatable\n    struct Inner {}\n}\n",
			want:  "enum Outer {\n    struct Inner {}\n}\n\nextension Outer.Inner: Equatable {\n}\n",
		},
		{
			name:  "member and extension together",
			input: "@OSLogger @Equatable\nstruct P {\n}\n",
			want:  "struct P {\n\n    " + logger("logger", "P") + "\n}\n\nextension P: Equatable {\n}\n",
		},
		{
			name:  "oslogger on enum",
			input: "@OSLogger\nenum John {\n    case one\n}\n",
			want:  "enum John {\n    case one\n}\n",
			codes: []diag.Code{diag.MacWrongType},
		},
		{
			name:  "buildURLRequest invalid url",
			input: "let result = #buildURLRequest(\"\")\n",
			want:  "let result = nil as URLRequest?\n",
			codes: []diag.Code{diag.MacInvalidURLString},
		},
		{
			name:  "buildURLRequest indented",
			input: "func f() {\n    let r = #buildURLRequest(\"https://a.b\")\n}\n",
			want:  "func f() {\n    let r = " + requestBlock(`"https://a.b"`, "    ") + "\n}\n",
		},
		{
			name:  "site inside a type with a generated member",
			input: "@OSLogger\nclass C {\n    let r = #buildURLRequest(u)\n}\n",
			want:  "class C {\n    let r = " + requestBlock("u", "    ") + "\n\n    " + logger("logger", "C") + "\n}\n",
		},
		{
			name:  "duplicate member",
			input: "@OSLogger\n@OSLogger\nclass A {\n}\n",
			want:  "class A {\n\n    " + logger("logger", "A") + "\n\n    " + logger("logger", "A") + "\n}\n",
			codes: []diag.Code{diag.MacDuplicateMember},
		},
		{
			name:  "unknown macros are left alone",
			input: "let v = #stringify(1)\n@Observable class A {}\n@objc class B {}\n",
			want:  "let v = #stringify(1)\n@Observable class A {}\n@objc class B {}\n",
			codes: []diag.Code{diag.MacUnknownMacro, diag.MacUnknownMacro},
		},
		{
			name:  "wrong role",
			input: "@buildURLRequest class A {}\nlet x = #Equatable\n",
			want:  "@buildURLRequest class A {}\nlet x = #Equatable\n",
			codes: []diag.Code{diag.MacUnknownMacro, diag.MacUnknownMacro},
		},
		{
			name:  "attribute on a function",
			input: "@Equatable\nfunc f() {}\n",
			want:  "@Equatable\nfunc f() {}\n",
			codes: []diag.Code{diag.MacNotNominal},
		},
		{
			name:  "equatable on a protocol",
			input: "@Equatable\nprotocol P {}\n",
			want:  "@Equatable\nprotocol P {}\n",
			codes: []diag.Code{diag.MacNotNominal},
		},
		{
			name:  "site inside a string interpolation",
			input: "let s = \"\\(#buildURLRequest(\"https://a.b\"))\"\n",
			want:  "let s = \"\\(#buildURLRequest(\"https://a.b\"))\"\n",
			codes: []diag.Code{diag.MacUnknownMacro},
		},
		{
			name:  "syntax errors do not stop expansion",
			input: "}\n@Equatable class A {}\n",
			want:  "}\nclass A {}\n\nextension A: Equatable {\n}\n",
			codes: []diag.Code{diag.SynUnbalancedBrace},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, res := expandString(t, tt.input, Options{})
			if got := string(res.Output); got != tt.want {
				t.Fatalf("output mismatch\n got: %q\nwant: %q", got, tt.want)
			}
			if got := codes(res.Bag); !sameCodes(got, tt.codes) {
				t.Fatalf("diagnostics: got %v, want %v", got, tt.codes)
			}
			if res.Changed != (tt.input != tt.want) {
				t.Fatalf("Changed = %v", res.Changed)
			}
		})
	}
}

func TestExpandDiagnosticLocations(t *testing.T) {
	fs, res := expandString(t, "let result = #buildURLRequest(\"\")\n", Options{})
	d := res.Bag.Items()[0]
	start, _ := fs.Resolve(d.Primary)
	if start.Line != 1 || start.Col != 14 {
		t.Fatalf("expected 1:14, got %d:%d", start.Line, start.Col)
	}
	if d.Message != "Value for URL is invalid" {
		t.Fatalf("unexpected message %q", d.Message)
	}
	if len(d.Notes) != 1 || d.Notes[0].Msg != "id: MacpluginsMacros.invalidURLString" {
		t.Fatalf("unexpected notes %+v", d.Notes)
	}

	fs, res = expandString(t, "@OSLogger\nenum John {}\n", Options{})
	start, _ = fs.Resolve(res.Bag.Items()[0].Primary)
	if start.Line != 1 || start.Col != 1 {
		t.Fatalf("expected 1:1, got %d:%d", start.Line, start.Col)
	}
}

func TestExpandOutputReparses(t *testing.T) {
	inputs := []string{
		"@OSLogger(\"log\", subsystem: \"s\", category: \"c\")\nclass Foo {\n}\n",
		"@Equatable\nstruct Bar<T> {\n    let t: T\n}\n",
		"@OSLogger\nclass C {\n    let r = #buildURLRequest(\"https://a.b\", method: \"PUT\", headers: [\"a\": \"b\"])\n}\n",
	}
	for _, input := range inputs {
		_, res := expandString(t, input, Options{})
		fs := source.NewFileSet()
		id := fs.AddVirtual("out.swift", res.Output)
		bag := diag.NewBag(10)
		builder, parsed := parser.ParseSource(fs, id, bag)
		if bag.Len() != 0 {
			t.Fatalf("expanded output has diagnostics: %v\n%s", codes(bag), res.Output)
		}
		if n := len(builder.Files.Get(parsed.File).Sites); n != 0 {
			t.Fatalf("expanded output still has %d macro sites", n)
		}
	}
}

func TestExpandDisabledMacro(t *testing.T) {
	input := "@OSLogger class A {}\n"
	fs, res := expandString(t, input, Options{Disabled: []string{"OSLogger"}})
	if string(res.Output) != input {
		t.Fatalf("disabled macro was expanded: %q", res.Output)
	}
	if got := codes(res.Bag); !sameCodes(got, []diag.Code{diag.MacDisabled}) {
		t.Fatalf("diagnostics: %v", got)
	}
	d := res.Bag.Items()[0]
	if d.Severity != diag.SevInfo || len(d.Fixes) != 1 {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	applied, err := fix.ApplyFixes(fs, res.Bag.Items(), fix.ApplyOptions{Mode: fix.ApplyModeOnce})
	if err != nil {
		t.Fatalf("apply fix: %v", err)
	}
	if got := string(applied.FileChanges[0].Content); got != "class A {}\n" {
		t.Fatalf("fix result %q", got)
	}
}

func TestExpandNotNominalFix(t *testing.T) {
	fs, res := expandString(t, "@Equatable\nfunc f() {}\n", Options{})
	applied, err := fix.ApplyFixes(fs, res.Bag.Items(), fix.ApplyOptions{Mode: fix.ApplyModeAll})
	if err != nil {
		t.Fatalf("apply fix: %v", err)
	}
	if got := string(applied.FileChanges[0].Content); got != "func f() {}\n" {
		t.Fatalf("fix result %q", got)
	}
}

func TestExpandTimings(t *testing.T) {
	_, res := expandString(t, "@Equatable class A {}\n", Options{Timings: true})
	last := res.Bag.Items()[res.Bag.Len()-1]
	if last.Code != diag.ObsTimings || !strings.Contains(last.Notes[0].Msg, `"phases"`) {
		t.Fatalf("expected timing diagnostic, got %+v", last)
	}
	if len(res.Timing.Phases) != 3 {
		t.Fatalf("expected parse/expand/splice phases, got %+v", res.Timing.Phases)
	}
}

func TestExpandCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.swift", []byte("@Equatable class A {}"))
	if _, err := ExpandFile(ctx, fs, id, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
