package parser

import (
	"strings"

	"fortio.org/safecast"

	"macplugins/internal/ast"
	"macplugins/internal/source"
	"macplugins/internal/token"
)

// StringData извлекает содержимое строкового литерала и считает сегменты.
// Строка без интерполяции — один сегмент; каждая \( ... ) добавляет
// сегмент-выражение и текстовый сегмент после него.
func StringData(tok token.Token) ast.ExprStringData {
	text := tok.Text
	hashes := len(text) - len(strings.TrimLeft(text, "#"))
	quotes := 1
	if tok.Flags&token.StrMultiline != 0 {
		quotes = 3
	}

	data := ast.ExprStringData{
		Segments:  1,
		Raw:       hashes > 0,
		Multiline: quotes == 3,
	}
	trim := hashes + quotes
	if len(text) < 2*trim {
		return data
	}
	data.Content = text[trim : len(text)-trim]
	if tok.Flags&token.StrInterpolated != 0 {
		data.Segments = 1 + 2*countInterpolations(data.Content, hashes)
	}
	return data
}

func countInterpolations(content string, hashes int) int {
	return len(interpolations(content, hashes))
}

// interpolations возвращает полуинтервалы [start, end) выражений внутри
// \( ... ), без самих скобок.
func interpolations(content string, hashes int) [][2]int {
	delim := "\\" + strings.Repeat("#", hashes)
	var out [][2]int
	for i := 0; i < len(content); {
		if !strings.HasPrefix(content[i:], delim) {
			i++
			continue
		}
		i += len(delim)
		if i >= len(content) {
			break
		}
		if content[i] != '(' {
			if hashes == 0 {
				i++ // escape: \\, \"
			}
			continue
		}
		end := skipInterpolated(content, i+1)
		out = append(out, [2]int{i + 1, max(i+1, min(end-1, len(content)))})
		i = end
	}
	return out
}

// EmbeddedSites находит #name внутри интерполяций литерала. Встроенные
// #file, #line и т.п. пропускаются.
func EmbeddedSites(tok token.Token) []ast.EmbeddedSite {
	if tok.Kind != token.StringLit || tok.Flags&token.StrInterpolated == 0 {
		return nil
	}
	text := tok.Text
	hashes := len(text) - len(strings.TrimLeft(text, "#"))
	trim := hashes + 1
	if tok.Flags&token.StrMultiline != 0 {
		trim = hashes + 3
	}
	if len(text) < 2*trim {
		return nil
	}
	content := text[trim : len(text)-trim]

	var out []ast.EmbeddedSite
	for _, r := range interpolations(content, hashes) {
		expr := content[r[0]:r[1]]
		for j := 0; j < len(expr); j++ {
			if expr[j] != '#' || j+1 >= len(expr) || !isIdentStart(expr[j+1]) {
				continue
			}
			if j > 0 && (isIdentPart(expr[j-1]) || expr[j-1] == '#') {
				continue
			}
			n := j + 1
			for n < len(expr) && isIdentPart(expr[n]) {
				n++
			}
			name := expr[j+1 : n]
			j = n - 1
			if IsPoundBuiltin(name) {
				continue
			}
			start, err := safecast.Conv[uint32](trim + r[0] + j - len(name))
			if err != nil {
				return out
			}
			width, err := safecast.Conv[uint32](len(name) + 1)
			if err != nil {
				return out
			}
			from := tok.Span.Start + start
			out = append(out, ast.EmbeddedSite{
				Name: name,
				Span: source.Span{File: tok.Span.File, Start: from, End: from + width},
			})
		}
	}
	return out
}

func isIdentStart(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || ('0' <= b && b <= '9')
}

// skipInterpolated возвращает позицию после ')' закрывающей \( ... ).
func skipInterpolated(content string, i int) int {
	depth := 1
	for i < len(content) && depth > 0 {
		switch content[i] {
		case '(':
			depth++
		case ')':
			depth--
		case '"':
			i++
			for i < len(content) && content[i] != '"' {
				if content[i] == '\\' {
					i++
				}
				i++
			}
		}
		i++
	}
	return i
}
