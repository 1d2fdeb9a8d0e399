package ui

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type LogFormat string

const (
	LogConsole LogFormat = "console"
	LogJSON    LogFormat = "json"
)

func NormalizeLogFormat(value string) LogFormat {
	if LogFormat(strings.ToLower(strings.TrimSpace(value))) == LogJSON {
		return LogJSON
	}
	return LogConsole
}

// NewLogger builds the run logger. Console output is coloured only when
// color is set; JSON output is one object per line. Every event carries
// runID.
func NewLogger(w io.Writer, format LogFormat, verbose bool, color bool, runID string) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	sink := w
	if format == LogConsole {
		sink = zerolog.ConsoleWriter{Out: w, NoColor: !color, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(sink).Level(level).With().Timestamp()
	if runID != "" {
		ctx = ctx.Str("run_id", runID)
	}
	return ctx.Logger()
}
