package diag

import (
	"cmp"
	"slices"

	"fortio.org/safecast"

	"macplugins/internal/source"
)

// Bag копит диагностики до лимита max. Лишние не добавляются, но
// считаются в Dropped, чтобы вывод мог сказать, что список обрезан.
type Bag struct {
	items   []Diagnostic
	max     uint16
	dropped int
}

// NewBag создаёт Bag с лимитом max; значения вне uint16 обрезаются.
func NewBag(max int) *Bag {
	limit, err := safecast.Conv[uint16](max)
	if err != nil {
		limit = ^uint16(0)
		if max < 0 {
			limit = 0
		}
	}
	return &Bag{items: make([]Diagnostic, 0, min(int(limit), 64)), max: limit}
}

// Add возвращает false, если лимит уже исчерпан.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// AddAll добавляет всё, при необходимости поднимая лимит.
func (b *Bag) AddAll(items []Diagnostic) {
	if need := len(b.items) + len(items); need > int(b.max) {
		limit, err := safecast.Conv[uint16](need)
		if err != nil {
			limit = ^uint16(0)
		}
		b.max = limit
	}
	for _, d := range items {
		if !b.Add(d) {
			return
		}
	}
}

// Merge переносит диагностики other (и его счётчик отброшенных) в b.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.AddAll(other.items)
	b.dropped += other.dropped
}

// AddDropped учитывает n диагностик, отброшенных до того, как они попали в b
// (например, при записи в кэш).
func (b *Bag) AddDropped(n int) {
	b.dropped += max(n, 0)
}

func (b *Bag) Len() int { return len(b.items) }

// Dropped — сколько диагностик не влезло в лимит.
func (b *Bag) Dropped() int { return b.dropped }

// Items отдаёт внутренний срез; менять его нельзя.
func (b *Bag) Items() []Diagnostic { return b.items }

// Count считает диагностики с Severity не ниже sev.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity >= sev {
			n++
		}
	}
	return n
}

func (b *Bag) HasErrors() bool { return b.Count(SevError) > 0 }

// HasWarnings is true for warnings and for errors.
func (b *Bag) HasWarnings() bool { return b.Count(SevWarning) > 0 }

func (b *Bag) Filter(keep func(Diagnostic) bool) {
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool { return !keep(d) })
}

func (b *Bag) Transform(fn func(Diagnostic) Diagnostic) {
	for i := range b.items {
		b.items[i] = fn(b.items[i])
	}
}

// Sort: файл, начало, конец, затем более серьёзные раньше, затем код.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		px, py := x.Primary, y.Primary
		if c := cmp.Compare(px.File, py.File); c != 0 {
			return c
		}
		if c := cmp.Compare(px.Start, py.Start); c != 0 {
			return c
		}
		if c := cmp.Compare(px.End, py.End); c != 0 {
			return c
		}
		if c := cmp.Compare(y.Severity, x.Severity); c != 0 {
			return c
		}
		return cmp.Compare(x.Code, y.Code)
	})
}

// Dedup убирает повторы с тем же кодом и span; остаётся первый.
func (b *Bag) Dedup() {
	type key struct {
		code Code
		span source.Span
	}
	seen := make(map[key]bool, len(b.items))
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		k := key{d.Code, d.Primary}
		if seen[k] {
			return true
		}
		seen[k] = true
		return false
	})
}
