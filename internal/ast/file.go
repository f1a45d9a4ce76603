package ast

import (
	"macplugins/internal/source"
)

type File struct {
	Span     source.Span
	Decls    []DeclID       // все декларации в порядке исходника, вложенные тоже
	Sites    []ExprID       // #macro(...) вне аргументов других макросов
	Embedded []EmbeddedSite // #name внутри \( ... ) строк; не раскрываются
	Imports  []string
}

// EmbeddedSite is a #name found inside a string interpolation.
type EmbeddedSite struct {
	Name string
	Span source.Span // от '#' до конца имени
}

type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{
		Arena: NewArena[File](capHint),
	}
}

func (f *Files) New(sp source.Span) FileID {
	return FileID(f.Arena.Allocate(File{
		Span:  sp,
		Decls: make([]DeclID, 0),
		Sites: make([]ExprID, 0),
	}))
}

func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
