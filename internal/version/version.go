package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/fatih/color"
)

// Version information for the macplugins CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Plain returns Version without colouring; it is part of cache keys.
func Plain() string {
	return Version
}

// Colored раскрашивает major.minor.patch, суффикс (-dev) остаётся как есть.
func Colored() string {
	return colorize(Version)
}

func colorize(v string) string {
	core, suffix, _ := strings.Cut(v, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return v
	}
	out := versionMajorColor.Sprint(parts[0]) + "." + versionMinorColor.Sprint(parts[1]) + "." + versionPatchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Info is the build information printed by `macplugins version`.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Current collects Info from the build variables.
func Current() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Pretty renders info the way `macplugins version` prints it.
func (i Info) Pretty() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "macplugins %s\n", colorize(i.Version))
	if i.GitCommit != "" {
		fmt.Fprintf(&sb, "commit:   %s\n", i.GitCommit)
	}
	if i.BuildDate != "" {
		fmt.Fprintf(&sb, "built:    %s\n", i.BuildDate)
	}
	fmt.Fprintf(&sb, "go:       %s (%s)\n", i.GoVersion, i.Platform)
	return sb.String()
}
