package ui

import (
	"fmt"
	"strings"
	"testing"

	"macplugins/internal/pipeline"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan pipeline.Event)
	m := NewProgressModel("expand", []string{"a.swift", "b.swift"}, events).(*progressModel)

	if got := m.percent(); got != 0 {
		t.Fatalf("queued percent = %v", got)
	}

	m.applyEvent(pipeline.Event{File: "a.swift", Stage: pipeline.StageExpand, Status: pipeline.StatusWorking})
	if m.states[0] != stateExpanding {
		t.Fatalf("state = %s", m.states[0])
	}
	if got := m.percent(); got != 0.2 {
		t.Fatalf("percent while expanding = %v", got)
	}
	m.applyEvent(pipeline.Event{File: "a.swift", Stage: pipeline.StageExpand, Status: pipeline.StatusDone, Cached: true})
	m.applyEvent(pipeline.Event{File: "b.swift", Stage: pipeline.StageWrite, Status: pipeline.StatusError})
	m.applyEvent(pipeline.Event{File: "unknown.swift", Stage: pipeline.StageExpand, Status: pipeline.StatusDone})

	if m.states[0] != stateCached || m.states[1] != stateFailed {
		t.Fatalf("states = %s, %s", m.states[0], m.states[1])
	}
	if got := m.percent(); got != 1 {
		t.Fatalf("percent = %v, want 1", got)
	}
	if got := m.tally(); got != "2/2 files, 1 cached, 1 failed" {
		t.Fatalf("tally = %q", got)
	}

	view := m.View()
	for _, want := range []string{"expand", "a.swift", "cached", "b.swift", "error"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view misses %q:\n%s", want, view)
		}
	}
}

func TestProgressModelWindowsLongLists(t *testing.T) {
	files := make([]string, maxVisible+5)
	for i := range files {
		files[i] = fmt.Sprintf("F%02d.swift", i)
	}
	m := NewProgressModel("expand", files, nil).(*progressModel)
	m.applyEvent(pipeline.Event{File: "F03.swift", Stage: pipeline.StageParse, Status: pipeline.StatusWorking})
	m.applyEvent(pipeline.Event{File: "F07.swift", Stage: pipeline.StageParse, Status: pipeline.StatusWorking})
	m.applyEvent(pipeline.Event{File: "F03.swift", Status: pipeline.StatusDone})

	vis := m.visible()
	if len(vis) != 2 || vis[0] != 7 || vis[1] != 3 {
		t.Fatalf("visible = %v", vis)
	}
	if view := m.View(); !strings.Contains(view, fmt.Sprintf("%d more", len(files)-2)) {
		t.Fatalf("view must mention hidden files:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Sources/App/Models/User.swift", 12); got != "Sources/A..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 12); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("narrow truncate = %q", got)
	}
}
