package fix

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"slices"

	"macplugins/internal/diag"
	"macplugins/internal/source"
)

// ErrNoFixes is returned when nothing ended up applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode выбирает, какие исправления применять.
type ApplyMode uint8

const (
	// ApplyModeOnce — первое always-safe исправление, а если таких нет, просто первое.
	ApplyModeOnce ApplyMode = iota
	// ApplyModeAll — все always-safe исправления, не конфликтующие между собой.
	ApplyModeAll
	// ApplyModeID — ровно одно исправление с ApplyOptions.TargetID.
	ApplyModeID
)

type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// Write rewrites the affected files on disk; otherwise only
	// FileChange.Content is filled.
	Write bool
}

type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange — итоговое содержимое одного файла после всех принятых правок.
type FileChange struct {
	File      source.FileID
	Path      string
	EditCount int
	Content   []byte
}

type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

func (c candidate) skip(reason string) SkippedFix {
	return SkippedFix{ID: c.fix.ID, Title: c.fix.Title, Reason: reason}
}

// session применяет выбранные исправления к одному FileSet.
type session struct {
	fs       *source.FileSet
	write    bool
	accepted map[source.FileID][]diag.TextEdit
	res      *ApplyResult
}

// ApplyFixes collects fixes from diagnostics, selects a subset according to
// opts, and applies them. Conflicting or stale fixes are skipped, not fatal.
func ApplyFixes(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	res := &ApplyResult{}
	if fs == nil {
		return res, errors.New("fix: FileSet is nil")
	}

	cands, skips := gatherCandidates(diagnostics)
	res.Skipped = append(res.Skipped, skips...)
	slices.SortStableFunc(cands, compareCandidates)

	selected, skips := selectCandidates(cands, opts)
	res.Skipped = append(res.Skipped, skips...)

	s := &session{fs: fs, write: opts.Write, accepted: make(map[source.FileID][]diag.TextEdit), res: res}
	for _, c := range selected {
		s.try(c)
	}
	if err := s.flush(); err != nil {
		return res, err
	}
	if len(res.Applied) == 0 {
		return res, ErrNoFixes
	}
	return res, nil
}

// gatherCandidates turns every fix with edits into a candidate. Fixes
// without an ID get one from the diagnostic code and position; a repeated
// ID is skipped.
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	var cands []candidate
	var skips []SkippedFix
	seen := make(map[string]bool)
	for _, d := range diagnostics {
		for i, f := range d.Fixes {
			c := candidate{diag: d, fix: f, order: len(cands)}
			if c.fix.ID == "" {
				c.fix.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, i)
			}
			switch {
			case len(f.Edits) == 0:
				skips = append(skips, c.skip("fix has no edits"))
			case seen[c.fix.ID]:
				skips = append(skips, c.skip("duplicate fix id"))
			default:
				seen[c.fix.ID] = true
				cands = append(cands, c)
			}
		}
	}
	return cands, skips
}

// compareCandidates: по позиции диагностики, затем по порядку появления.
func compareCandidates(a, b candidate) int {
	pa, pb := a.diag.Primary, b.diag.Primary
	if c := cmp.Compare(pa.File, pb.File); c != 0 {
		return c
	}
	if c := cmp.Compare(pa.Start, pb.Start); c != 0 {
		return c
	}
	if c := cmp.Compare(pa.End, pb.End); c != 0 {
		return c
	}
	return cmp.Compare(a.order, b.order)
}

func alwaysSafe(c candidate) bool {
	return c.fix.Applicability == diag.FixApplicabilityAlwaysSafe
}

func selectCandidates(cands []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	if len(cands) == 0 {
		return nil, nil
	}
	switch opts.Mode {
	case ApplyModeID:
		if i := slices.IndexFunc(cands, func(c candidate) bool { return c.fix.ID == opts.TargetID }); i >= 0 {
			return cands[i : i+1], nil
		}
		return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix id not found"}}
	case ApplyModeAll:
		var picked []candidate
		var skips []SkippedFix
		for _, c := range cands {
			if alwaysSafe(c) {
				picked = append(picked, c)
			} else {
				skips = append(skips, c.skip("applicability is "+c.fix.Applicability.String()))
			}
		}
		return picked, skips
	case ApplyModeOnce:
		if i := slices.IndexFunc(cands, alwaysSafe); i >= 0 {
			return cands[i : i+1], nil
		}
		return cands[:1], nil
	}
	return nil, nil
}

// check — причина, по которой c нельзя принять, или "" если можно.
func (s *session) check(c candidate) string {
	for id, edits := range editsByFile(c.fix.Edits) {
		f := s.fs.Get(id)
		switch {
		case f == nil:
			return "target file is unknown"
		case s.write && f.Flags&source.FileVirtual != 0:
			return "target file is virtual"
		case conflictsWithExisting(s.accepted[id], edits):
			return "conflicts with previously applied edits in " + f.FormatPath("auto", s.fs.BaseDir())
		}
		// пробный прогон на исходном тексте ловит устаревший OldText
		if _, err := Apply(f.Content, edits); err != nil {
			return err.Error()
		}
	}
	return ""
}

func (s *session) try(c candidate) {
	if reason := s.check(c); reason != "" {
		s.res.Skipped = append(s.res.Skipped, c.skip(reason))
		return
	}
	for id, edits := range editsByFile(c.fix.Edits) {
		s.accepted[id] = append(s.accepted[id], edits...)
	}
	applied := AppliedFix{
		ID:            c.fix.ID,
		Title:         c.fix.Title,
		Code:          c.diag.Code,
		Message:       c.diag.Message,
		Applicability: c.fix.Applicability,
		EditCount:     len(c.fix.Edits),
	}
	if f := s.fs.Get(c.diag.Primary.File); f != nil {
		applied.PrimaryPath = f.FormatPath("auto", s.fs.BaseDir())
	}
	s.res.Applied = append(s.res.Applied, applied)
}

// flush строит новое содержимое каждого затронутого файла и, при write, пишет его.
func (s *session) flush() error {
	base := s.fs.BaseDir()
	for id, edits := range s.accepted {
		f := s.fs.Get(id)
		buf, err := Apply(f.Content, edits)
		if err != nil {
			return fmt.Errorf("apply %s: %w", f.Path, err)
		}
		if s.write {
			if err := WriteFile(f.Path, buf); err != nil {
				return err
			}
		}
		s.res.FileChanges = append(s.res.FileChanges, FileChange{
			File:      id,
			Path:      f.FormatPath("relative", base),
			EditCount: len(edits),
			Content:   buf,
		})
	}
	slices.SortFunc(s.res.FileChanges, func(a, b FileChange) int { return cmp.Compare(a.Path, b.Path) })
	return nil
}

// WriteFile replaces path with buf keeping the existing file mode.
func WriteFile(path string, buf []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, buf, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func editsByFile(edits []diag.TextEdit) map[source.FileID][]diag.TextEdit {
	out := make(map[source.FileID][]diag.TextEdit)
	for _, e := range edits {
		out[e.Span.File] = append(out[e.Span.File], e)
	}
	return out
}
