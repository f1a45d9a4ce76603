package driver

import (
	"fmt"
	"strings"

	"macplugins/internal/ast"
	"macplugins/internal/diag"
	"macplugins/internal/fix"
	"macplugins/internal/macros"
	"macplugins/internal/source"
)

// planner превращает раскрытия в TextEdit'ы над исходным содержимым файла.
// Члены одного типа копятся и вставляются одной правкой, расширения
// вставляются после внешнего типа в порядке появления.
type planner struct {
	b        *ast.Builder
	file     *source.File
	reporter diag.Reporter
	sink     macros.ReporterSink
	opts     Options

	replacements []diag.TextEdit
	members      map[ast.DeclID][]macros.MemberDecl
	memberOrder  []ast.DeclID
	extensions   map[ast.DeclID][]macros.ExtensionDecl
	extOrder     []ast.DeclID
	expanded     int
}

func newPlanner(b *ast.Builder, file *source.File, reporter diag.Reporter, opts Options) *planner {
	return &planner{
		b:          b,
		file:       file,
		reporter:   reporter,
		sink:       macros.ReporterSink{Reporter: reporter},
		opts:       opts,
		members:    make(map[ast.DeclID][]macros.MemberDecl),
		extensions: make(map[ast.DeclID][]macros.ExtensionDecl),
	}
}

func (p *planner) plan(f *ast.File) {
	if f == nil {
		return
	}
	for _, u := range collectUses(p.b, f) {
		if u.site.IsValid() {
			p.freestanding(u.site)
		} else {
			p.attached(u.attr)
		}
	}
	for _, e := range f.Embedded {
		diag.ReportInfo(p.reporter, diag.MacUnknownMacro, e.Span,
			fmt.Sprintf("#%s inside a string interpolation is not expanded; left unchanged", e.Name)).Emit()
	}
}

// resolve находит макрос по имени и сообщает, если его нельзя раскрыть здесь.
func (p *planner) resolve(name string, span source.Span, freestanding bool) (macros.Macro, bool) {
	m, ok := p.opts.Registry.Lookup(name)
	if !ok {
		if !freestanding && ast.IsBuiltinAttr(name) {
			return macros.Macro{}, false
		}
		sigil := "@"
		if freestanding {
			sigil = "#"
		}
		diag.ReportInfo(p.reporter, diag.MacUnknownMacro, span,
			fmt.Sprintf("unknown macro %s%s; left unchanged", sigil, name)).Emit()
		return macros.Macro{}, false
	}
	if m.Role.Freestanding() != freestanding {
		want := "@" + name
		if m.Role.Freestanding() {
			want = "#" + name
		}
		diag.ReportInfo(p.reporter, diag.MacUnknownMacro, span,
			fmt.Sprintf("%s is a %s macro; write %s", name, m.Role, want)).Emit()
		return macros.Macro{}, false
	}
	if p.opts.disabled(name) {
		b := diag.ReportInfo(p.reporter, diag.MacDisabled, span,
			fmt.Sprintf("macro %s is disabled by configuration; left unchanged", name))
		if !freestanding {
			b.WithFixSuggestion(fix.RemoveAttribute(p.file, span, diag.FixApplicabilityManualReview))
		}
		b.Emit()
		return macros.Macro{}, false
	}
	return m, true
}

func (p *planner) freestanding(site ast.ExprID) {
	in, ok := macros.NewFreestandingInput(p.b, p.file, site)
	if !ok {
		return
	}
	m, ok := p.resolve(in.Name, in.Node, true)
	if !ok {
		return
	}
	exp, err := macros.ExpandFreestanding(m, in, p.sink)
	if err != nil {
		return
	}
	indent := p.file.Indentation(in.Node.Start)
	p.replacements = append(p.replacements, diag.TextEdit{
		Span:    in.Node,
		NewText: exp.Expr.Render(indent),
		OldText: p.file.Text(in.Node),
	})
	p.expanded++
}

func (p *planner) attached(attrID ast.AttrID) {
	in, ok := macros.NewAttachedInput(p.b, p.file, attrID)
	if !ok {
		return
	}
	m, ok := p.resolve(in.Name, in.Node, false)
	if !ok {
		return
	}
	decl := p.b.Decls.Get(in.Decl)
	if !m.Role.AttachesTo(decl.Kind) {
		diag.ReportWarning(p.reporter, diag.MacNotNominal, in.Node, macros.NotAttachableMessage(in.Name, decl.Kind)).
			WithFixSuggestion(fix.RemoveAttribute(p.file, in.Node, diag.FixApplicabilityAlwaysSafe)).
			Emit()
		return
	}
	if !decl.HasBody {
		return
	}

	exp, err := macros.ExpandAttached(m, in, p.sink)
	if err != nil {
		return
	}
	p.replacements = append(p.replacements, fix.AttributeRemoval(p.file, in.Node))
	p.expanded++

	for _, member := range exp.Members {
		p.addMember(in, member)
	}
	if len(exp.Extensions) > 0 {
		outer := p.b.Decls.Outermost(in.Decl)
		if _, seen := p.extensions[outer]; !seen {
			p.extOrder = append(p.extOrder, outer)
		}
		p.extensions[outer] = append(p.extensions[outer], exp.Extensions...)
	}
}

func (p *planner) addMember(in macros.AttachedInput, member macros.MemberDecl) {
	existing, seen := p.members[in.Decl]
	if !seen {
		p.memberOrder = append(p.memberOrder, in.Decl)
	}
	for _, prev := range existing {
		if prev.Name == member.Name {
			diag.ReportWarning(p.reporter, diag.MacDuplicateMember, in.Node,
				fmt.Sprintf("member '%s' is generated more than once in %s", member.Name, in.TypeName)).Emit()
			break
		}
	}
	p.members[in.Decl] = append(existing, member)
}

// edits собирает итоговый набор правок.
func (p *planner) edits() []diag.TextEdit {
	out := make([]diag.TextEdit, 0, len(p.replacements)+len(p.memberOrder)+len(p.extOrder))
	out = append(out, p.replacements...)
	for _, declID := range p.memberOrder {
		out = append(out, p.memberEdit(p.b.Decls.Get(declID), p.members[declID]))
	}
	for _, declID := range p.extOrder {
		out = append(out, p.extensionEdit(p.b.Decls.Get(declID), p.extensions[declID]))
	}
	return out
}

// memberEdit вставляет члены перед закрывающей '}' тела.
//
//	class Foo {          class Foo {
//	}             ->
//	                         private let logger = ...
//	                     }
func (p *planner) memberEdit(decl *ast.Decl, members []macros.MemberDecl) diag.TextEdit {
	declIndent := p.file.Indentation(decl.Keyword.Start)
	indent := declIndent + macros.IndentUnit

	var body strings.Builder
	for _, m := range members {
		body.WriteString("\n")
		body.WriteString(indentLines(m.Source, indent))
		body.WriteString("\n")
	}

	rbrace := decl.RBrace.Start
	lineStart := p.file.LineStart(rbrace)
	if lineStart > decl.LBrace.End && isBlank(p.file.Content[lineStart:rbrace]) {
		at := source.Span{File: decl.RBrace.File, Start: lineStart, End: lineStart}
		return diag.TextEdit{Span: at, NewText: body.String()}
	}
	// пробелы перед '}' на той же строке заменяем
	start := rbrace
	for start > decl.LBrace.End && (p.file.Content[start-1] == ' ' || p.file.Content[start-1] == '\t') {
		start--
	}
	at := source.Span{File: decl.RBrace.File, Start: start, End: rbrace}
	return diag.TextEdit{Span: at, NewText: "\n" + body.String() + declIndent, OldText: p.file.Text(at)}
}

// extensionEdit дописывает расширения после '}' внешнего типа.
func (p *planner) extensionEdit(decl *ast.Decl, exts []macros.ExtensionDecl) diag.TextEdit {
	at := decl.Span.ZeroideToEnd()
	if decl.HasBody && decl.RBrace.End > 0 {
		at = decl.RBrace.ZeroideToEnd()
	}
	var sb strings.Builder
	for _, ext := range exts {
		sb.WriteString("\n\n")
		sb.WriteString(ext.Source)
	}
	return diag.TextEdit{Span: at, NewText: sb.String()}
}

func indentLines(src, indent string) string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}

func isBlank(b []byte) bool {
	for _, c := range b {
		if c != ' ' && c != '\t' {
			return false
		}
	}
	return true
}
