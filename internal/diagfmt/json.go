package diagfmt

import (
	"encoding/json"
	"io"
	"slices"

	"macplugins/internal/diag"
	"macplugins/internal/source"
)

// Report is the document written by JSON.
type Report struct {
	Summary     Summary      `json:"summary"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	// Omitted считает диагностики, отрезанные JSONOpts.Max.
	Omitted int `json:"omitted,omitempty"`
	// Dropped — сколько не влезло в лимит самого bag'а.
	Dropped int `json:"dropped,omitempty"`
}

// Summary считает по всему bag'у, а не только по выведенной части.
type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

type Location struct {
	File   string `json:"file"`
	Offset uint32 `json:"offset"`
	Length uint32 `json:"length"`
	// Line/Column только при JSONOpts.IncludePositions, 1-based.
	Line      uint32 `json:"line,omitempty"`
	Column    uint32 `json:"column,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndColumn uint32 `json:"end_column,omitempty"`
}

type Note struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

type Edit struct {
	Location Location `json:"location"`
	NewText  string   `json:"new_text"`
	OldText  string   `json:"old_text,omitempty"`
	Before   []string `json:"before,omitempty"`
	After    []string `json:"after,omitempty"`
}

type Fix struct {
	ID            string `json:"id,omitempty"`
	Title         string `json:"title"`
	Applicability string `json:"applicability"`
	Preferred     bool   `json:"preferred,omitempty"`
	Edits         []Edit `json:"edits,omitempty"`
}

type Diagnostic struct {
	Level    string   `json:"level"`
	Code     string   `json:"code"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Location Location `json:"location"`
	Notes    []Note   `json:"notes,omitempty"`
	Fixes    []Fix    `json:"fixes,omitempty"`
}

type jsonBuilder struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (b jsonBuilder) location(sp source.Span) Location {
	loc := Location{Offset: sp.Start, Length: sp.Len()}
	f := b.fs.Get(sp.File)
	if f == nil {
		return loc
	}
	loc.File = formatPath(b.fs, f, b.opts.PathMode)
	if b.opts.IncludePositions {
		start, end := b.fs.Resolve(sp)
		loc.Line, loc.Column = start.Line, start.Col
		loc.EndLine, loc.EndColumn = end.Line, end.Col
	}
	return loc
}

func (b jsonBuilder) diagnostic(d diag.Diagnostic) Diagnostic {
	out := Diagnostic{
		Level:    d.Severity.Level(),
		Code:     d.Code.ID(),
		Title:    d.Code.Title(),
		Message:  d.Message,
		Location: b.location(d.Primary),
	}
	// тайминги без заметок бессмысленны
	if b.opts.IncludeNotes || d.Code == diag.ObsTimings {
		for _, n := range d.Notes {
			out.Notes = append(out.Notes, Note{Message: n.Msg, Location: b.location(n.Span)})
		}
	}
	if b.opts.IncludeFixes {
		for _, fx := range orderedFixes(d.Fixes) {
			out.Fixes = append(out.Fixes, b.fix(fx))
		}
	}
	return out
}

func (b jsonBuilder) fix(fx diag.Fix) Fix {
	out := Fix{
		ID:            fx.ID,
		Title:         fx.Title,
		Applicability: fx.Applicability.String(),
		Preferred:     fx.IsPreferred,
	}
	for _, e := range fx.Edits {
		edit := Edit{Location: b.location(e.Span), NewText: e.NewText, OldText: e.OldText}
		if b.opts.IncludePreviews {
			if p, err := previewEdit(b.fs, e); err == nil {
				edit.Before, edit.After = p.before, p.after
			}
		}
		out.Edits = append(out.Edits, edit)
	}
	return out
}

// orderedFixes: сначала предпочтительные, затем более безопасные, затем по заголовку.
func orderedFixes(fixes []diag.Fix) []diag.Fix {
	out := slices.Clone(fixes)
	slices.SortStableFunc(out, func(a, b diag.Fix) int {
		switch {
		case a.IsPreferred != b.IsPreferred:
			if a.IsPreferred {
				return -1
			}
			return 1
		case a.Applicability != b.Applicability:
			return int(a.Applicability) - int(b.Applicability)
		case a.Title != b.Title:
			if a.Title < b.Title {
				return -1
			}
			return 1
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out
}

// BuildReport собирает Report, ничего не сериализуя.
func BuildReport(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Report {
	b := jsonBuilder{fs: fs, opts: opts}
	items := bag.Items()
	rep := Report{Diagnostics: make([]Diagnostic, 0, len(items)), Dropped: bag.Dropped()}
	for i, d := range items {
		switch d.Severity {
		case diag.SevError:
			rep.Summary.Errors++
		case diag.SevWarning:
			rep.Summary.Warnings++
		default:
			rep.Summary.Infos++
		}
		if opts.Max > 0 && i >= opts.Max {
			rep.Omitted++
			continue
		}
		rep.Diagnostics = append(rep.Diagnostics, b.diagnostic(d))
	}
	return rep
}

// JSON пишет Report с отступами.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(bag, fs, opts))
}
