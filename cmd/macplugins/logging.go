package main

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// newLogger пишет в stderr: stdout занят выводом и протоколом плагина.
// В терминале человекочитаемо, иначе JSON построчно.
func newLogger(f *os.File, level zerolog.Level, useColor bool) zerolog.Logger {
	var out io.Writer = f
	if isTerminal(f) {
		out = zerolog.ConsoleWriter{Out: f, TimeFormat: time.TimeOnly, NoColor: !useColor}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
