// Package logger configures the process-wide zerolog logger. Components
// receive child loggers tagged with their component name so every line in
// the pipeline carries enough context to replay a failure by hand.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New builds the base logger. Level falls back to info on unknown input.
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}

// For returns a child logger tagged with a component name.
func For(base zerolog.Logger, component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}
