package fix

import (
	"macplugins/internal/diag"
	"macplugins/internal/source"
)

// Builder собирает diag.Fix из одной или нескольких правок.
// По умолчанию fix считается always-safe.
type Builder struct {
	fix diag.Fix
}

func New(title string) *Builder {
	return &Builder{fix: diag.Fix{Title: title, Applicability: diag.FixApplicabilityAlwaysSafe}}
}

func (b *Builder) ID(id string) *Builder {
	b.fix.ID = id
	return b
}

func (b *Builder) Safety(app diag.FixApplicability) *Builder {
	b.fix.Applicability = app
	return b
}

func (b *Builder) Preferred() *Builder {
	b.fix.IsPreferred = true
	return b
}

// Insert вставляет text в начало at; длина at игнорируется.
func (b *Builder) Insert(at source.Span, text string) *Builder {
	return b.edit(diag.TextEdit{Span: at.ZeroideToStart(), NewText: text})
}

// Delete удаляет span; expect, если не пуст, сверяется при применении.
func (b *Builder) Delete(span source.Span, expect string) *Builder {
	return b.edit(diag.TextEdit{Span: span, OldText: expect})
}

func (b *Builder) Replace(span source.Span, newText, expect string) *Builder {
	return b.edit(diag.TextEdit{Span: span, NewText: newText, OldText: expect})
}

func (b *Builder) edit(e diag.TextEdit) *Builder {
	b.fix.Edits = append(b.fix.Edits, e)
	return b
}

func (b *Builder) Build() diag.Fix {
	out := b.fix
	out.Edits = append([]diag.TextEdit(nil), b.fix.Edits...)
	return out
}

// AttributeRemoval — span атрибута вместе с пробелами и переводами строк
// до следующего токена, чтобы после удаления не оставалось пустой строки.
func AttributeRemoval(f *source.File, attr source.Span) diag.TextEdit {
	end := int(attr.End)
	for end < len(f.Content) {
		switch f.Content[end] {
		case ' ', '\t', '\n', '\r':
			end++
			continue
		}
		break
	}
	sp := source.Span{File: attr.File, Start: attr.Start, End: uint32(end)} //nolint:gosec // end <= len(Content)
	return diag.TextEdit{Span: sp, OldText: f.Text(sp)}
}

// RemoveAttribute is the preferred fix offered whenever an attribute cannot
// be expanded where it is written.
func RemoveAttribute(f *source.File, attr source.Span, app diag.FixApplicability) diag.Fix {
	e := AttributeRemoval(f, attr)
	return New("remove attribute").Delete(e.Span, e.OldText).Safety(app).Preferred().Build()
}
