package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"macplugins/internal/source"
	"macplugins/internal/token"
)

// TokenOutput одна строка дампа `macplugins tokenize`.
type TokenOutput struct {
	Index   int         `json:"index"`
	Kind    string      `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Pos     string      `json:"pos,omitempty"`
	Span    source.Span `json:"span"`
	Leading []string    `json:"leading,omitempty"`
	Flags   []string    `json:"flags,omitempty"`
}

var stringFlagNames = []struct {
	flag token.Flags
	name string
}{
	{token.StrInterpolated, "interpolated"},
	{token.StrRaw, "raw"},
	{token.StrMultiline, "multiline"},
}

func tokenOutputs(tokens []token.Token, fs *source.FileSet) []TokenOutput {
	out := make([]TokenOutput, 0, len(tokens))
	for i, tok := range tokens {
		row := TokenOutput{Index: i + 1, Kind: tok.Kind.String(), Text: tok.Text, Span: tok.Span}
		if fs != nil && fs.Get(tok.Span.File) != nil {
			row.Pos = formatSpan(tok.Span, fs)
		}
		for _, tr := range tok.Leading {
			row.Leading = append(row.Leading, tr.Kind.String())
		}
		for _, f := range stringFlagNames {
			if tok.Flags&f.flag != 0 {
				row.Flags = append(row.Flags, f.name)
			}
		}
		out = append(out, row)
		if tok.Kind == token.EOF {
			break
		}
	}
	return out
}

// FormatTokensPretty печатает по токену на строку, EOF последним.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for _, row := range tokenOutputs(tokens, fs) {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%4d  %-14s %-11s", row.Index, row.Kind, row.Pos)
		if row.Text != "" {
			fmt.Fprintf(&sb, " %q", row.Text)
		}
		if len(row.Flags) > 0 {
			fmt.Fprintf(&sb, " [%s]", strings.Join(row.Flags, ","))
		}
		if len(row.Leading) > 0 {
			fmt.Fprintf(&sb, " after %s", strings.Join(row.Leading, "+"))
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(sb.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}

func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tokenOutputs(tokens, fs))
}
