package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"macplugins/internal/diag"
	"macplugins/internal/diagfmt"
	"macplugins/internal/driver"
	"macplugins/internal/macros"
	"macplugins/internal/prof"
	"macplugins/internal/project"
	"macplugins/internal/source"
)

// settings — конфиг проекта с наложенными флагами; заполняется в prepare.
type settings struct {
	cfg            project.Config
	colorMode      string
	quiet          bool
	timings        bool
	maxDiagnostics int
	logger         zerolog.Logger
	profile        *prof.Session
}

var current settings

// prepare loads macplugins.toml, applies global flags on top of it and
// installs the logger into the command context.
func prepare(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()
	colorMode, err := flags.GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorMode {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorMode)
	}
	if colorMode != "auto" {
		color.NoColor = colorMode == "off"
	}

	cfg, err := loadConfig(cmd, colorMode)
	if err != nil {
		return err
	}
	s := settings{cfg: cfg, colorMode: colorMode, maxDiagnostics: cfg.Diagnostics.Max}

	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if flags.Changed("max-diagnostics") || cfg.Path == "" {
		if s.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}

	level := cfg.LogLevel()
	levelFlag, err := flags.GetString("log-level")
	if err != nil {
		return fmt.Errorf("failed to get log-level flag: %w", err)
	}
	if levelFlag != "" {
		if level, err = zerolog.ParseLevel(strings.ToLower(levelFlag)); err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
	}
	s.logger = newLogger(os.Stderr, level, s.useColor(os.Stderr))
	if cfg.Path != "" {
		s.logger.Debug().Str("config", cfg.Path).Msg("configuration loaded")
	}
	cmd.SetContext(s.logger.WithContext(cmd.Context()))

	if s.profile, err = startProfiling(cmd); err != nil {
		return err
	}
	current = s
	return nil
}

func startProfiling(cmd *cobra.Command) (*prof.Session, error) {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return nil, nil
	}
	return prof.Start(opts)
}

func loadConfig(cmd *cobra.Command, colorMode string) (project.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return project.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	fs := source.NewFileSet()
	var (
		cfg project.Config
		bag *diag.Bag
	)
	if path != "" {
		cfg, bag, err = project.Load(fs, path)
	} else {
		cfg, bag, _, err = project.Discover(fs, ".")
	}
	if err != nil {
		return project.Config{}, err
	}
	if bag.Len() > 0 {
		useColor := colorMode == "on" || (colorMode == "auto" && isTerminal(os.Stderr))
		diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{Color: useColor, Context: 1})
	}
	if bag.HasErrors() {
		return project.Config{}, fmt.Errorf("invalid configuration in %s", cfg.Path)
	}
	return cfg, nil
}

func (s settings) useColor(f *os.File) bool {
	return s.colorMode == "on" || (s.colorMode == "auto" && isTerminal(f))
}

// registry returns the default registry without macros disabled in config
// or by --disable.
func (s settings) registry(extra ...string) macros.Registry {
	disabled := append(append([]string(nil), s.cfg.Macros.Disabled...), extra...)
	return macros.DefaultRegistry().Without(disabled...)
}

// driverOptions maps settings onto driver.Options. Disabled macros stay in
// the registry so that their sites get MAC4903 instead of "unknown macro".
func (s settings) driverOptions(disabled []string) driver.Options {
	return driver.Options{
		Registry:       macros.DefaultRegistry(),
		Disabled:       append(append([]string(nil), s.cfg.Macros.Disabled...), disabled...),
		MaxDiagnostics: s.maxDiagnostics,
		Jobs:           s.cfg.Expand.Jobs,
		Extensions:     s.cfg.Expand.Extensions,
		Timings:        s.timings,
	}
}
