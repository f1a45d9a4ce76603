package ast

import (
	"macplugins/internal/source"
)

type Hints struct{ Files, Decls, Attrs, Exprs uint }

type Builder struct {
	Files *Files
	Decls *Decls
	Attrs *Attrs
	Exprs *Exprs
}

func NewBuilder(hints Hints) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 2
	}
	if hints.Decls == 0 {
		hints.Decls = 1 << 6
	}
	if hints.Attrs == 0 {
		hints.Attrs = 1 << 5
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	return &Builder{
		Files: NewFiles(hints.Files),
		Decls: NewDecls(hints.Decls),
		Attrs: NewAttrs(hints.Attrs),
		Exprs: NewExprs(hints.Exprs),
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

// PushDecl регистрирует декларацию в файле и, если есть, у родителя.
func (b *Builder) PushDecl(file FileID, decl DeclID) {
	f := b.Files.Get(file)
	f.Decls = append(f.Decls, decl)
	d := b.Decls.Get(decl)
	if d.Parent.IsValid() {
		p := b.Decls.Get(d.Parent)
		p.Members = append(p.Members, decl)
	}
}

// PushSite запоминает freestanding-макрос верхнего уровня.
func (b *Builder) PushSite(file FileID, site ExprID) {
	f := b.Files.Get(file)
	f.Sites = append(f.Sites, site)
}

// AttachAttr привязывает атрибут к декларации.
func (b *Builder) AttachAttr(decl DeclID, attr AttrID) {
	b.Decls.Get(decl).Attrs = append(b.Decls.Get(decl).Attrs, attr)
	b.Attrs.Get(attr).Decl = decl
}
