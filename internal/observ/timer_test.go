package observ

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"macplugins/internal/diag"
)

func fakeClock(step time.Duration) func() time.Time {
	now := time.Unix(0, 0)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	timer.now = fakeClock(time.Millisecond)

	idx := timer.Begin("parse")
	timer.End(idx, "3 decls")
	timer.Measure("expand", func() string { return "" })
	timer.End(42, "ignored")

	report := timer.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(report.Phases))
	}
	if report.Phases[0].DurationMS != 1 || report.Phases[0].Note != "3 decls" {
		t.Fatalf("unexpected parse phase %+v", report.Phases[0])
	}
	if report.TotalMS != 2 {
		t.Fatalf("expected total 2ms, got %v", report.TotalMS)
	}
	summary := timer.Summary()
	if !strings.Contains(summary, "parse") || !strings.Contains(summary, "// 3 decls") {
		t.Fatalf("unexpected summary:\n%s", summary)
	}
}

func TestReportMerge(t *testing.T) {
	a := Report{TotalMS: 3, Phases: []PhaseReport{{Name: "parse", DurationMS: 1}, {Name: "expand", DurationMS: 2}}}
	a.Merge(Report{TotalMS: 5, Phases: []PhaseReport{{Name: "expand", DurationMS: 4}, {Name: "write", DurationMS: 1}}})
	if a.TotalMS != 8 || len(a.Phases) != 3 || a.Phases[1].DurationMS != 6 {
		t.Fatalf("unexpected merge result %+v", a)
	}
}

func TestReportZerolog(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	log.Info().Object("timings", Report{TotalMS: 1.5, Phases: []PhaseReport{{Name: "parse", DurationMS: 1.5}}}).Msg("done")
	if !strings.Contains(buf.String(), `"parse_ms":1.5`) {
		t.Fatalf("unexpected log line %s", buf.String())
	}
}

func TestReportDiagnostic(t *testing.T) {
	r := Report{TotalMS: 1.5, Phases: []PhaseReport{{Name: "parse", DurationMS: 1.5}}}
	d := r.Diagnostic("expand", "A.swift")
	if d.Code != diag.ObsTimings || d.Severity != diag.SevInfo {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if d.Message != "timings (expand): total 1.50 ms, A.swift" {
		t.Fatalf("message = %q", d.Message)
	}
	if len(d.Notes) != 1 || !strings.Contains(d.Notes[0].Msg, `"phases":[{"name":"parse"`) {
		t.Fatalf("notes = %+v", d.Notes)
	}
}
