// Package logger sets up the zerolog logger shared across the auction
// service. main builds it once with Init and hands it down to every
// component that logs.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options selects the verbosity and output format of the service logger.
type Options struct {
	// Level names the minimum severity to emit: "trace", "debug", "info",
	// "warn" or "error". Unknown values fall back to "info".
	Level string
	// Pretty switches from JSON lines to a colourised console format,
	// meant for local development.
	Pretty bool
	// Output receives the log stream. nil means os.Stdout.
	Output io.Writer
}

// Init builds the service logger and sets the global zerolog level so
// that stray zerolog usage honours the configured verbosity too.
func Init(opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	lvl := parseLevel(opts.Level)
	zerolog.SetGlobalLevel(lvl)

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Logger()
}

// parseLevel maps the configured level name onto zerolog's scale,
// defaulting to info for anything it does not recognise.
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
