package project

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"macplugins/internal/diag"
	"macplugins/internal/source"
)

type ExpandConfig struct {
	Extensions []string `toml:"extensions"`
	Jobs       int      `toml:"jobs"`
	Cache      bool     `toml:"cache"`
}

type DiagnosticsConfig struct {
	Max    int    `toml:"max"`
	Format string `toml:"format"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type MacrosConfig struct {
	Disabled []string `toml:"disabled"`
}

// Config — содержимое macplugins.toml поверх значений по умолчанию.
type Config struct {
	// Path пуст, если файл не найден и действуют только умолчания.
	Path        string            `toml:"-"`
	Expand      ExpandConfig      `toml:"expand"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Log         LogConfig         `toml:"log"`
	Macros      MacrosConfig      `toml:"macros"`
}

// Formats accepted by [diagnostics].format.
var Formats = []string{"pretty", "short", "json", "sarif"}

func Default() Config {
	return Config{
		Expand:      ExpandConfig{Extensions: []string{".swift"}},
		Diagnostics: DiagnosticsConfig{Max: 100, Format: "pretty"},
		Log:         LogConfig{Level: "warn"},
	}
}

// LogLevel parses [log].level; invalid values were already reported by Load.
func (c Config) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil || c.Log.Level == "" {
		return zerolog.WarnLevel
	}
	return lvl
}

// Load decodes path on top of Default. The file is added to fs so that
// findings carry real spans: unknown keys become CfgUnknownKey warnings and
// bad values CfgInvalid errors in the returned bag. Only unreadable or
// syntactically broken TOML is a Go error.
func Load(fs *source.FileSet, path string) (Config, *diag.Bag, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, nil, fmt.Errorf("%s: failed to read config: %w", path, err)
	}
	cfg := Default()
	meta, err := toml.Decode(string(content), &cfg)
	if err != nil {
		return Config{}, nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path

	file := fs.Get(fs.Add(path, content, 0))
	bag := diag.NewBag(64)
	reporter := &diag.BagReporter{Bag: bag}

	for _, key := range meta.Undecoded() {
		diag.ReportWarning(reporter, diag.CfgUnknownKey, keySpan(file, key),
			fmt.Sprintf("unknown configuration key '%s'", key.String())).Emit()
	}
	invalid := func(msg string, key ...string) {
		diag.ReportError(reporter, diag.CfgInvalid, keySpan(file, key), msg).Emit()
	}

	if meta.IsDefined("expand", "extensions") {
		if len(cfg.Expand.Extensions) == 0 {
			invalid("[expand].extensions must not be empty", "expand", "extensions")
		}
		for _, ext := range cfg.Expand.Extensions {
			if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
				invalid(fmt.Sprintf("[expand].extensions: %q must start with '.'", ext), "expand", "extensions")
			}
		}
	}
	if cfg.Expand.Jobs < 0 {
		invalid("[expand].jobs must be >= 0", "expand", "jobs")
	}
	if cfg.Diagnostics.Max < 0 {
		invalid("[diagnostics].max must be >= 0", "diagnostics", "max")
	}
	if !slices.Contains(Formats, cfg.Diagnostics.Format) {
		invalid(fmt.Sprintf("[diagnostics].format %q is not one of %s", cfg.Diagnostics.Format, strings.Join(Formats, ", ")),
			"diagnostics", "format")
	}
	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		invalid(fmt.Sprintf("[log].level: %v", err), "log", "level")
	}
	for _, name := range cfg.Macros.Disabled {
		if strings.TrimSpace(name) == "" {
			invalid("[macros].disabled contains an empty name", "macros", "disabled")
		}
	}
	return cfg, bag, nil
}

// Discover looks for macplugins.toml from startDir upwards and loads it.
// Without a file it returns Default with ok == false.
func Discover(fs *source.FileSet, startDir string) (cfg Config, bag *diag.Bag, ok bool, err error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Config{}, nil, false, err
	}
	if !ok {
		return Default(), diag.NewBag(0), false, nil
	}
	cfg, bag, err = Load(fs, path)
	return cfg, bag, err == nil, err
}

// keySpan ищет строку, где задан последний компонент ключа, после заголовка
// его таблицы. Не найдено — спан указывает на начало файла.
func keySpan(file *source.File, key toml.Key) source.Span {
	sp := source.Span{File: file.ID}
	if len(key) == 0 {
		return sp
	}
	content := file.Content
	from := 0
	if len(key) > 1 {
		header := []byte("[" + strings.Join(key[:len(key)-1], ".") + "]")
		if i := bytes.Index(content, header); i >= 0 {
			from = i + len(header)
		}
	}
	last := key[len(key)-1]
	if len(key) == 1 {
		// ключ верхнего уровня или неизвестная таблица
		if i := bytes.Index(content, []byte("["+last+"]")); i >= 0 {
			return spanAt(file, i, len(last)+2)
		}
	}
	for off := from; off < len(content); {
		i := bytes.Index(content[off:], []byte(last))
		if i < 0 {
			break
		}
		at := off + i
		lineStart := bytes.LastIndexByte(content[:at], '\n') + 1
		if len(bytes.TrimSpace(content[lineStart:at])) == 0 {
			return spanAt(file, at, len(last))
		}
		off = at + len(last)
	}
	return sp
}

func spanAt(file *source.File, at, n int) source.Span {
	start, err1 := safecast.Conv[uint32](at)
	end, err2 := safecast.Conv[uint32](at + n)
	if err1 != nil || err2 != nil {
		return source.Span{File: file.ID}
	}
	return source.Span{File: file.ID, Start: start, End: end}
}
