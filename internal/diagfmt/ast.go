package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"macplugins/internal/ast"
	"macplugins/internal/source"
)

type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Kind     string          `json:"kind,omitempty"`
	Span     source.Span     `json:"span"`
	Text     string          `json:"text,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
	Fields   map[string]any  `json:"fields,omitempty"`
}

// FormatASTPretty печатает декларации с атрибутами и сайты макросов деревом.
func FormatASTPretty(w io.Writer, builder *ast.Builder, fileID ast.FileID, fs *source.FileSet) error {
	file := builder.Files.Get(fileID)
	if file == nil {
		return fmt.Errorf("file not found")
	}

	header := "File"
	if f := fs.Get(file.Span.File); f != nil {
		header = f.FormatPath("auto", fs.BaseDir())
	}
	fmt.Fprintf(w, "%s (span: %s)\n", header, formatSpan(file.Span, fs))

	nodes := buildFileNodes(builder, file, fs)
	for i, n := range nodes {
		writeNode(w, n, "", i == len(nodes)-1)
	}
	return nil
}

// FormatASTJSON выводит то же дерево в JSON.
func FormatASTJSON(w io.Writer, builder *ast.Builder, fileID ast.FileID, fs *source.FileSet) error {
	file := builder.Files.Get(fileID)
	if file == nil {
		return fmt.Errorf("file not found")
	}
	output := ASTNodeOutput{
		Type:     "File",
		Span:     file.Span,
		Children: buildFileNodes(builder, file, fs),
	}
	if len(file.Imports) > 0 {
		output.Fields = map[string]any{"imports": file.Imports}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func buildFileNodes(builder *ast.Builder, file *ast.File, fs *source.FileSet) []ASTNodeOutput {
	var nodes []ASTNodeOutput
	for _, id := range file.Decls {
		if d := builder.Decls.Get(id); d != nil && !d.Parent.IsValid() {
			nodes = append(nodes, buildDeclNode(builder, id, fs))
		}
	}
	for _, site := range file.Sites {
		nodes = append(nodes, buildExprNode(builder, site, fs, "Site"))
	}
	return nodes
}

func buildDeclNode(builder *ast.Builder, id ast.DeclID, fs *source.FileSet) ASTNodeOutput {
	d := builder.Decls.Get(id)
	node := ASTNodeOutput{
		Type: "Decl",
		Kind: d.Kind.String(),
		Span: d.Span,
		Text: d.Name,
	}
	fields := map[string]any{}
	if len(d.Modifiers) > 0 {
		fields["modifiers"] = d.Modifiers
	}
	if !d.Generics.Empty() {
		fields["generics"] = fs.Text(d.Generics)
	}
	if d.HasBody {
		fields["body"] = formatSpan(d.LBrace.Cover(d.RBrace), fs)
	}
	if len(fields) > 0 {
		node.Fields = fields
	}

	for _, attrID := range d.Attrs {
		attr := builder.Attrs.Get(attrID)
		an := ASTNodeOutput{Type: "Attr", Span: attr.Span, Text: attr.Name}
		if ast.IsBuiltinAttr(attr.Name) {
			an.Kind = "builtin"
		}
		for _, arg := range attr.Args {
			an.Children = append(an.Children, buildArgNode(builder, arg, fs))
		}
		node.Children = append(node.Children, an)
	}
	for _, member := range d.Members {
		node.Children = append(node.Children, buildDeclNode(builder, member, fs))
	}
	return node
}

func buildArgNode(builder *ast.Builder, arg ast.Arg, fs *source.FileSet) ASTNodeOutput {
	node := buildExprNode(builder, arg.Value, fs, "Arg")
	node.Span = arg.Span
	if arg.HasLabel {
		if node.Fields == nil {
			node.Fields = map[string]any{}
		}
		node.Fields["label"] = arg.Label
	}
	return node
}

func buildExprNode(builder *ast.Builder, id ast.ExprID, fs *source.FileSet, typ string) ASTNodeOutput {
	expr := builder.Exprs.Get(id)
	if expr == nil {
		return ASTNodeOutput{Type: typ, Kind: "missing"}
	}
	node := ASTNodeOutput{
		Type: typ,
		Kind: expr.Kind.String(),
		Span: expr.Span,
		Text: fs.Text(expr.Span),
	}
	if m, ok := builder.Exprs.Macro(id); ok {
		node.Text = "#" + m.Name
		for _, arg := range m.Args {
			node.Children = append(node.Children, buildArgNode(builder, arg, fs))
		}
	}
	if s, ok := builder.Exprs.StringLit(id); ok {
		node.Fields = map[string]any{"segments": s.Segments}
	}
	return node
}

func writeNode(w io.Writer, n ASTNodeOutput, prefix string, last bool) {
	branch, childPrefix := "├─ ", prefix+"│  "
	if last {
		branch, childPrefix = "└─ ", prefix+"   "
	}
	fmt.Fprintf(w, "%s%s%s\n", prefix, branch, nodeLabel(n))
	for i, c := range n.Children {
		writeNode(w, c, childPrefix, i == len(n.Children)-1)
	}
}

func nodeLabel(n ASTNodeOutput) string {
	var sb strings.Builder
	sb.WriteString(n.Type)
	if n.Kind != "" {
		sb.WriteString(" " + n.Kind)
	}
	if label, ok := n.Fields["label"]; ok {
		fmt.Fprintf(&sb, " %s:", label)
	}
	if n.Text != "" {
		sb.WriteString(" " + n.Text)
	}
	if mods, ok := n.Fields["modifiers"].([]string); ok {
		fmt.Fprintf(&sb, " [%s]", strings.Join(mods, " "))
	}
	if g, ok := n.Fields["generics"].(string); ok {
		sb.WriteString(" " + g)
	}
	return sb.String()
}

func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs == nil || fs.Get(span.File) == nil {
		return fmt.Sprintf("%d-%d", span.Start, span.End)
	}
	start, end := fs.Resolve(span)
	return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
}
