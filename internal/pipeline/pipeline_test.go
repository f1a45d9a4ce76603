package pipeline

import (
	"path/filepath"
	"testing"
	"time"
)

func TestNormalizeFiles(t *testing.T) {
	base := t.TempDir()
	files := []string{
		filepath.Join(base, "b.swift"),
		filepath.Join(base, "sub", "a.swift"),
		filepath.Join(base, "b.swift"),
		"",
	}
	got := NormalizeFiles(files, base)
	want := []string{"b.swift", "sub/a.swift"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestDisplayPathOutsideBase(t *testing.T) {
	base := t.TempDir()
	other := filepath.Join(filepath.Dir(base), "elsewhere.swift")
	if got := DisplayPath(other, base); got != filepath.ToSlash(other) {
		t.Fatalf("got %q", got)
	}
}

func TestRecorder(t *testing.T) {
	var rec Recorder
	EmitQueued(&rec, []string{"a", "b"})
	Emit(&rec, Event{File: "a", Stage: StageParse, Status: StatusDone, Elapsed: 2 * time.Millisecond})
	Emit(&rec, Event{File: "a", Stage: StageExpand, Status: StatusDone, Elapsed: 3 * time.Millisecond})
	Emit(nil, Event{File: "ignored"})

	if n := len(rec.Events()); n != 4 {
		t.Fatalf("expected 4 events, got %d", n)
	}
	if rec.Total() != 5*time.Millisecond {
		t.Fatalf("unexpected total %v", rec.Total())
	}
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{File: "x", Status: StatusWorking})
	if ev := <-ch; ev.File != "x" {
		t.Fatalf("unexpected event %+v", ev)
	}
	ChannelSink{}.OnEvent(Event{})
}

func TestMultiSink(t *testing.T) {
	var a, b Recorder
	sink := MultiSink{&a, nil, &b}
	Emit(sink, Event{File: "x", Stage: StageWrite, Status: StatusDone, Elapsed: time.Millisecond})
	if len(a.Events()) != 1 || len(b.Events()) != 1 {
		t.Fatalf("events not fanned out: %d, %d", len(a.Events()), len(b.Events()))
	}
	if got := b.Timings().Duration(StageWrite); got != time.Millisecond {
		t.Fatalf("write timing = %v", got)
	}
}
