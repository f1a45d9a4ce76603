package driver

import (
	"runtime"
	"slices"

	"macplugins/internal/macros"
	"macplugins/internal/pipeline"
)

// DefaultExtensions — какие файлы ExpandDir подбирает по умолчанию.
var DefaultExtensions = []string{".swift"}

// Options configures ExpandFile and ExpandDir.
type Options struct {
	Registry       macros.Registry
	Disabled       []string // имена макросов, выключенных конфигом
	MaxDiagnostics int
	Jobs           int
	Extensions     []string
	// Write rewrites changed files in place (ExpandDir only).
	Write    bool
	Timings  bool
	Cache    *DiskCache
	Progress pipeline.ProgressSink
	// BaseDir is used for display paths in progress events.
	BaseDir string
}

func (o Options) withDefaults() Options {
	if len(o.Registry.All()) == 0 {
		o.Registry = macros.DefaultRegistry()
	}
	if o.MaxDiagnostics <= 0 {
		o.MaxDiagnostics = 100
	}
	if o.Jobs <= 0 {
		o.Jobs = runtime.GOMAXPROCS(0)
	}
	if len(o.Extensions) == 0 {
		o.Extensions = DefaultExtensions
	}
	return o
}

func (o Options) disabled(name string) bool {
	return slices.Contains(o.Disabled, name)
}
