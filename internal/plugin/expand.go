package plugin

import (
	"fmt"
	"strings"

	"macplugins/internal/ast"
	"macplugins/internal/diag"
	"macplugins/internal/macros"
	"macplugins/internal/parser"
	"macplugins/internal/source"
)

// hostDomain — домен диагностик самого адаптера, не движков.
const hostDomain = "macplugins"

// fragment — разобранный кусок исходника хоста. Смещения спанов внутри
// фрагмента переводятся в смещения файла хоста через base; если перед
// declSyntax пришлось приклеить атрибут, его байты отображаются на attrBase.
type fragment struct {
	b        *ast.Builder
	file     *source.File
	tree     *ast.File
	fileName string
	base     int
	prefix   int
	attrBase int
}

func parseFragment(name, src string, base int) (fragment, *diag.Bag) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(src))
	bag := diag.NewBag(64)
	b, res := parser.ParseSource(fs, id, bag)
	return fragment{
		b:        b,
		file:     fs.Get(id),
		tree:     b.Files.Get(res.File),
		fileName: name,
		base:     base,
	}, bag
}

// offset переводит смещение во фрагменте в смещение файла хоста.
func (f fragment) offset(off uint32) int {
	if int(off) < f.prefix {
		return f.attrBase + int(off)
	}
	return f.base + int(off) - f.prefix
}

func (f fragment) position(sp source.Span) Position {
	return Position{FileName: f.fileName, Offset: f.offset(sp.Start)}
}

func (f fragment) highlight(sp source.Span) PositionRange {
	return PositionRange{FileName: f.fileName, StartOffset: f.offset(sp.Start), EndOffset: f.offset(sp.End)}
}

func (f fragment) diagnostic(sp source.Span, msg string, sev diag.Severity, id DiagnosticID) Diagnostic {
	return Diagnostic{
		Message:    msg,
		Severity:   sev.Level(),
		Position:   f.position(sp),
		Highlights: []PositionRange{f.highlight(sp)},
		ID:         id,
	}
}

func (f fragment) convert(reports []macros.Report) []Diagnostic {
	out := make([]Diagnostic, 0, len(reports))
	for _, r := range reports {
		out = append(out, f.diagnostic(r.Span, r.Info.Message, r.Info.Severity,
			DiagnosticID{Domain: r.Info.ID.Domain, ID: r.Info.ID.ID}))
	}
	return out
}

func (f fragment) syntaxErrors(bag *diag.Bag) []Diagnostic {
	var out []Diagnostic
	for _, d := range bag.Items() {
		if d.Severity != diag.SevError {
			continue
		}
		out = append(out, f.diagnostic(d.Primary, d.Message, d.Severity,
			DiagnosticID{Domain: hostDomain, ID: diag.PlgBadSyntax.ID()}))
	}
	return out
}

// hostError ставит ошибку адаптера на весь присланный узел.
func hostError(code diag.Code, node Syntax, msg string) ExpandMacroResult {
	loc := node.Location
	whole := PositionRange{FileName: loc.FileName, StartOffset: loc.Offset, EndOffset: loc.Offset + len(node.Source)}
	return ExpandMacroResult{Diagnostics: []Diagnostic{{
		Message:    msg,
		Severity:   diag.SevError.Level(),
		Position:   Position{FileName: loc.FileName, Offset: loc.Offset},
		Highlights: []PositionRange{whole},
		ID:         DiagnosticID{Domain: hostDomain, ID: code.ID()},
	}}}
}

// messageError — ответ на запрос, который не удалось разобрать: позиции нет.
func messageError(err error) PluginMessage {
	return PluginMessage{ExpandMacroResult: &ExpandMacroResult{Diagnostics: []Diagnostic{{
		Message:  err.Error(),
		Severity: diag.SevError.Level(),
		ID:       DiagnosticID{Domain: hostDomain, ID: diag.PlgBadMessage.ID()},
	}}}}
}

func (s *Server) lookup(ref MacroRef, node Syntax) (macros.Macro, *ExpandMacroResult) {
	m, ok := s.Registry.LookupType(ref.TypeName)
	if !ok || (ref.ModuleName != "" && ref.ModuleName != m.Module) {
		res := hostError(diag.PlgUnknownMacro, node,
			fmt.Sprintf("macro implementation type '%s.%s' could not be found", ref.ModuleName, ref.TypeName))
		return macros.Macro{}, &res
	}
	return m, nil
}

func (s *Server) expandFreestanding(req *ExpandFreestandingMacro) ExpandMacroResult {
	node := req.Syntax
	loc := node.Location
	m, failed := s.lookup(req.Macro, node)
	if failed != nil {
		return *failed
	}
	if !m.Role.Freestanding() || (req.MacroRole != "" && req.MacroRole != m.Role.String()) {
		return hostError(diag.PlgWrongRole, node,
			fmt.Sprintf("macro '%s' does not support the %s role", m.Name, roleOr(req.MacroRole, "freestanding")))
	}

	frag, bag := parseFragment(loc.FileName, req.Syntax.Source, loc.Offset)
	if bag.HasErrors() || len(frag.tree.Sites) == 0 {
		return s.badSyntax(frag, bag, node, "expected a freestanding macro expression")
	}
	in, ok := macros.NewFreestandingInput(frag.b, frag.file, frag.tree.Sites[0])
	if !ok {
		return s.badSyntax(frag, bag, node, "expected a freestanding macro expression")
	}

	sink := &macros.Collector{}
	exp, err := macros.ExpandFreestanding(m, in, sink)
	if err != nil {
		return hostError(diag.PlgWrongRole, node, err.Error())
	}
	rendered := exp.Expr.Render("")
	return ExpandMacroResult{ExpandedSource: &rendered, Diagnostics: frag.convert(sink.Reports)}
}

func (s *Server) expandAttached(req *ExpandAttachedMacro) ExpandMacroResult {
	node := req.AttributeSyntax
	m, failed := s.lookup(req.Macro, node)
	if failed != nil {
		return *failed
	}
	if m.Role.Freestanding() || (req.MacroRole != "" && req.MacroRole != m.Role.String()) {
		return hostError(diag.PlgWrongRole, node,
			fmt.Sprintf("macro '%s' does not support the %s role", m.Name, roleOr(req.MacroRole, "attached")))
	}

	frag, bag, attr := s.locateAttribute(req)
	if bag.HasErrors() || !attr.IsValid() {
		return s.badSyntax(frag, bag, node, "expected a declaration carrying the macro attribute")
	}
	in, ok := macros.NewAttachedInput(frag.b, frag.file, attr)
	if !ok {
		return s.badSyntax(frag, bag, node, "expected a declaration carrying the macro attribute")
	}
	if !m.Role.AttachesTo(in.DeclKind) {
		return hostError(diag.PlgWrongRole, node, macros.NotAttachableMessage(in.Name, in.DeclKind))
	}
	if req.ExtendedTypeSyntax != nil {
		if name := strings.TrimSpace(req.ExtendedTypeSyntax.Source); name != "" {
			in.TypeName = name
		}
	}

	sink := &macros.Collector{}
	exp, err := macros.ExpandAttached(m, in, sink)
	if err != nil {
		return hostError(diag.PlgWrongRole, node, err.Error())
	}
	res := ExpandMacroResult{Diagnostics: frag.convert(sink.Reports)}
	var parts []string
	for _, member := range exp.Members {
		parts = append(parts, member.Source)
	}
	for _, ext := range exp.Extensions {
		parts = append(parts, ext.Source)
	}
	if len(parts) > 0 {
		joined := strings.Join(parts, "\n\n")
		res.ExpandedSource = &joined
	}
	return res
}

// locateAttribute разбирает declSyntax и ищет в нём присланный атрибут.
// Если хост прислал декларацию без атрибутов, атрибут приклеивается спереди.
func (s *Server) locateAttribute(req *ExpandAttachedMacro) (fragment, *diag.Bag, ast.AttrID) {
	attrSrc := strings.TrimSpace(req.AttributeSyntax.Source)
	declLoc := req.DeclSyntax.Location

	frag, bag := parseFragment(declLoc.FileName, req.DeclSyntax.Source, declLoc.Offset)
	if attr := findAttribute(frag, attrSrc); attr.IsValid() || bag.HasErrors() {
		return frag, bag, attr
	}

	prefix := attrSrc + "\n"
	frag, bag = parseFragment(declLoc.FileName, prefix+req.DeclSyntax.Source, declLoc.Offset)
	frag.prefix = len(prefix)
	frag.attrBase = req.AttributeSyntax.Location.Offset
	return frag, bag, findAttribute(frag, attrSrc)
}

// findAttribute возвращает атрибут внешней декларации фрагмента: сначала
// по точному тексту, потом по имени.
func findAttribute(frag fragment, attrSrc string) ast.AttrID {
	var outer *ast.Decl
	for _, id := range frag.tree.Decls {
		if d := frag.b.Decls.Get(id); !d.Parent.IsValid() {
			outer = d
			break
		}
	}
	if outer == nil {
		return ast.NoAttrID
	}
	for _, id := range outer.Attrs {
		if strings.TrimSpace(frag.file.Text(frag.b.Attrs.Get(id).Span)) == attrSrc {
			return id
		}
	}
	name := attributeName(attrSrc)
	for _, id := range outer.Attrs {
		if frag.b.Attrs.Get(id).Name == name {
			return id
		}
	}
	return ast.NoAttrID
}

func attributeName(src string) string {
	src = strings.TrimPrefix(strings.TrimSpace(src), "@")
	if i := strings.IndexAny(src, "( \t\n"); i >= 0 {
		src = src[:i]
	}
	return src
}

func (s *Server) badSyntax(frag fragment, bag *diag.Bag, node Syntax, msg string) ExpandMacroResult {
	if diags := frag.syntaxErrors(bag); len(diags) > 0 {
		return ExpandMacroResult{Diagnostics: diags}
	}
	return hostError(diag.PlgBadSyntax, node, msg)
}

func roleOr(role, fallback string) string {
	if role == "" {
		return fallback
	}
	return role
}
