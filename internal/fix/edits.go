package fix

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"macplugins/internal/diag"
)

var (
	ErrConflict     = errors.New("overlapping edits")
	ErrOutOfRange   = errors.New("edit span out of range")
	ErrTextMismatch = errors.New("existing text does not match expected content")
)

// Apply splices edits into content. Offsets refer to the original content;
// insertions at the same offset keep their relative order.
func Apply(content []byte, edits []diag.TextEdit) ([]byte, error) {
	if len(edits) == 0 {
		return append([]byte(nil), content...), nil
	}
	sorted := sortedEdits(edits)
	if i, j, ok := firstConflict(sorted); ok {
		return nil, fmt.Errorf("%w: %s and %s", ErrConflict, sorted[i].Span, sorted[j].Span)
	}

	var out bytes.Buffer
	out.Grow(len(content) + growth(sorted))
	cursor := 0
	for _, e := range sorted {
		start, end := int(e.Span.Start), int(e.Span.End)
		if end < start || end > len(content) {
			return nil, fmt.Errorf("%w: %s (len %d)", ErrOutOfRange, e.Span, len(content))
		}
		if e.OldText != "" && string(content[start:end]) != e.OldText {
			return nil, fmt.Errorf("%w at %s: want %q", ErrTextMismatch, e.Span, e.OldText)
		}
		out.Write(content[cursor:start])
		out.WriteString(e.NewText)
		cursor = end
	}
	out.Write(content[cursor:])
	return out.Bytes(), nil
}

func sortedEdits(edits []diag.TextEdit) []diag.TextEdit {
	sorted := append([]diag.TextEdit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Span.Start != sorted[j].Span.Start {
			return sorted[i].Span.Start < sorted[j].Span.Start
		}
		return sorted[i].Span.End < sorted[j].Span.End
	})
	return sorted
}

func firstConflict(edits []diag.TextEdit) (int, int, bool) {
	for i := range edits {
		if edits[i].Span.Start == edits[i].Span.End {
			continue
		}
		for j := i + 1; j < len(edits) && edits[j].Span.Start < edits[i].Span.End; j++ {
			if spansConflict(edits[i], edits[j]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// spansConflict reports whether two text edits' spans overlap.
// Spans are half-open intervals [Start, End). Zero-length edits are
// insertions: they conflict only with a span that strictly contains their
// position, so inserting right before or after a replaced range is allowed.
func spansConflict(a, b diag.TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart < aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart < bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

func conflictsWithExisting(existing, edits []diag.TextEdit) bool {
	for _, prev := range existing {
		for _, cand := range edits {
			if spansConflict(prev, cand) {
				return true
			}
		}
	}
	return false
}

func growth(edits []diag.TextEdit) int {
	n := 0
	for _, e := range edits {
		if d := len(e.NewText) - int(e.Span.End-e.Span.Start); d > 0 {
			n += d
		}
	}
	return n
}
