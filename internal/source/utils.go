package source

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalizer — один шаг нормализации содержимого и флаг, которым он отмечается.
type normalizer struct {
	flag FileFlags
	fn   func([]byte) ([]byte, bool)
}

// Порядок важен: BOM снимается до NFC, CRLF схлопывается до индекса строк.
var normalizers = []normalizer{
	{FileHadBOM, func(c []byte) ([]byte, bool) { return bytes.CutPrefix(c, utf8BOM) }},
	{FileNormalizedCRLF, normalizeCRLF},
	{FileNormalizedNFC, normalizeNFC},
}

// Normalize applies the same BOM, CRLF and NFC normalization Load does and
// reports which of them changed the input.
func Normalize(content []byte) ([]byte, FileFlags) {
	var flags FileFlags
	for _, n := range normalizers {
		var changed bool
		if content, changed = n.fn(content); changed {
			flags |= n.flag
		}
	}
	return content, flags
}

// normalizeCRLF: одиночный '\r' остаётся, лексер считает его пробелом.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, []byte("\r\n")) {
		return content, false
	}
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")), true
}

// normalizeNFC нужен, чтобы метки и идентификаторы с комбинируемыми
// символами совпадали с их составной формой.
func normalizeNFC(content []byte) ([]byte, bool) {
	if norm.NFC.IsNormal(content) {
		return content, false
	}
	return norm.NFC.Bytes(content), true
}

// buildLineIndex хранит смещения всех '\n'.
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for off := 0; ; {
		i := bytes.IndexByte(content[off:], '\n')
		if i < 0 {
			return out
		}
		off += i
		out = append(out, uint32(off)) //nolint:gosec // размер файла проверяется в лексере
		off++
	}
}

// toLineCol: номер строки равен числу '\n' строго до off.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	line, _ := slices.BinarySearch(lineIdx, off)
	var lineStart uint32
	if line > 0 {
		lineStart = lineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line + 1), Col: off - lineStart + 1} //nolint:gosec // line <= len(lineIdx)
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath returns the slash-normalized absolute form of path.
func AbsolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath expresses path relative to baseDir. Paths that escape
// baseDir fall back to their absolute form.
func RelativePath(path, baseDir string) (string, error) {
	abs, err := AbsolutePath(path)
	if err != nil {
		return "", err
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, filepath.FromSlash(abs))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return abs, nil
	}
	return normalizePath(rel), nil
}

// BaseName returns the last element of path.
func BaseName(path string) string {
	return filepath.Base(path)
}
