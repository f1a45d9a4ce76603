package diagfmt

import "macplugins/internal/source"

// PathMode — как печатать путь файла в диагностиках.
type PathMode uint8

const (
	// PathModeAuto оставляет короткие пути как есть, длинные абсолютные режет до имени.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

var pathModeNames = [...]string{
	PathModeAuto:     "auto",
	PathModeAbsolute: "absolute",
	PathModeRelative: "relative",
	PathModeBasename: "basename",
}

func (m PathMode) String() string {
	if int(m) < len(pathModeNames) {
		return pathModeNames[m]
	}
	return "auto"
}

// formatPath: относительные пути считаются от BaseDir набора.
func formatPath(fs *source.FileSet, f *source.File, mode PathMode) string {
	return f.FormatPath(mode.String(), fs.BaseDir())
}

type PrettyOpts struct {
	Color bool
	// Context — сколько строк до и после показывать вокруг span.
	Context     int8
	PathMode    PathMode
	Width       uint8 // 0 — без обрезки
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

type JSONOpts struct {
	IncludePositions bool
	PathMode         PathMode
	// Max режет только вывод; Summary всё равно считает весь bag.
	Max             int
	IncludeNotes    bool
	IncludeFixes    bool
	IncludePreviews bool
}

// SarifRunMeta описывает инструмент и вызов для SARIF run.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}
