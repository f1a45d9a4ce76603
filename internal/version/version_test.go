package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	if Plain() != Version {
		t.Errorf("Plain() = %q, want %q", Plain(), Version)
	}
}

func TestVersion_CanBeOverridden(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version = "1.2.3"
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	info := Current()
	if info.Version != "1.2.3" || info.GitCommit != "abc123def456" || info.BuildDate != "2024-01-15T10:30:00Z" {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestColoredWithoutColor(t *testing.T) {
	orig, origVersion := color.NoColor, Version
	t.Cleanup(func() { color.NoColor, Version = orig, origVersion })
	color.NoColor = true

	Version = "0.1.0-dev"
	if got := Colored(); got != "0.1.0-dev" {
		t.Errorf("Colored() = %q", got)
	}
	Version = "nightly"
	if got := Colored(); got != "nightly" {
		t.Errorf("Colored() = %q", got)
	}
}

func TestPretty(t *testing.T) {
	orig := color.NoColor
	t.Cleanup(func() { color.NoColor = orig })
	color.NoColor = true

	out := Info{Version: "0.1.0", GitCommit: "abc", GoVersion: "go1.25.1", Platform: "linux/amd64"}.Pretty()
	for _, want := range []string{"macplugins", "commit:   abc", "go:       go1.25.1 (linux/amd64)"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "built:") {
		t.Errorf("empty build date must be omitted:\n%s", out)
	}
}
