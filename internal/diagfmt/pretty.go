package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"macplugins/internal/diag"
	"macplugins/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note, fix *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
		fix:    color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note, p.fix} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, pal)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "\n%s\n", pal.gutter.Sprintf("... %d more diagnostics not shown (raise --max-diagnostics)", n))
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	f := fs.Get(d.Primary.File)
	if f == nil {
		fmt.Fprintf(w, "%s %s: %s\n", pal.severity(d.Severity).Sprint(d.Severity.String()), pal.code.Sprint(d.Code.ID()), d.Message)
		return
	}
	start, _ := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		formatPath(fs, f, opts.PathMode), start.Line, start.Col,
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		pal.code.Sprint(d.Code.ID()),
		d.Message)

	writeSnippet(w, fs, f, d.Primary, opts, pal)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			if nf == nil {
				fmt.Fprintf(w, "  %s %s\n", pal.note.Sprint("note:"), n.Msg)
				continue
			}
			pos, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", pal.note.Sprint("note:"), formatPath(fs, nf, opts.PathMode), pos.Line, pos.Col, n.Msg)
		}
	}

	if opts.ShowFixes {
		for i, fix := range orderedFixes(d.Fixes) {
			header := fmt.Sprintf("fix #%d: %s", i+1, fix.Title)
			meta := []string{fix.Applicability.String()}
			if fix.ID != "" {
				meta = append(meta, "id="+fix.ID)
			}
			if fix.IsPreferred {
				meta = append(meta, "preferred")
			}
			fmt.Fprintf(w, "  %s (%s)\n", pal.fix.Sprint(header), strings.Join(meta, ", "))
			for _, edit := range fix.Edits {
				writeEdit(w, fs, edit, opts, pal)
			}
		}
	}
}

func writeEdit(w io.Writer, fs *source.FileSet, edit diag.TextEdit, opts PrettyOpts, pal palette) {
	ef := fs.Get(edit.Span.File)
	if ef == nil {
		fmt.Fprintf(w, "    edit apply=%s\n", strconv.Quote(edit.NewText))
		return
	}
	s, e := fs.Resolve(edit.Span)
	fmt.Fprintf(w, "    edit %s:%d:%d-%d:%d apply=%s\n",
		formatPath(fs, ef, opts.PathMode), s.Line, s.Col, e.Line, e.Col, strconv.Quote(edit.NewText))
	if !opts.ShowPreview {
		return
	}
	preview, err := previewEdit(fs, edit)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "    %s\n", pal.gutter.Sprint("preview:"))
	for _, line := range preview.before {
		fmt.Fprintf(w, "      %s\n", pal.err.Sprint("- "+clip(line, opts.Width)))
	}
	for _, line := range preview.after {
		fmt.Fprintf(w, "      %s\n", pal.fix.Sprint("+ "+clip(line, opts.Width)))
	}
}

// writeSnippet печатает строку span'а с контекстом и подчёркиванием.
func writeSnippet(w io.Writer, fs *source.FileSet, f *source.File, sp source.Span, opts PrettyOpts, pal palette) {
	start, end := fs.Resolve(sp)
	ctx := uint32(max(opts.Context, 0))
	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := min(start.Line+ctx, uint32(len(f.LineIdx))+1)
	gutterWidth := len(strconv.FormatUint(uint64(last), 10))

	for ln := first; ln <= last; ln++ {
		line := f.GetLine(ln)
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, ln), clip(line, opts.Width))
		if ln != start.Line {
			continue
		}

		col := int(start.Col) - 1
		col = min(col, len(line))
		endCol := len(line)
		if end.Line == start.Line {
			endCol = min(int(end.Col)-1, len(line))
		}
		pad := caretPadding(line[:col])
		width := max(runewidth.StringWidth(line[col:max(endCol, col)]), 1)
		underline := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, " %s %s%s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""), pad, pal.caret.Sprint(underline))
	}
}

// caretPadding повторяет табы из префикса, остальное заменяет пробелами по ширине.
func caretPadding(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}

func clip(line string, width uint8) string {
	if width == 0 || runewidth.StringWidth(line) <= int(width) {
		return line
	}
	if width <= 3 {
		return runewidth.Truncate(line, int(width), "")
	}
	return runewidth.Truncate(line, int(width), "...")
}
