package logx

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog logger configured for console output on
// stderr. BOOKGEN_LOG_LEVEL ("debug", "info", "warn", ...) overrides the
// default info level.
func NewLogger() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	level := zerolog.InfoLevel
	if s := os.Getenv("BOOKGEN_LOG_LEVEL"); s != "" {
		if parsed, err := zerolog.ParseLevel(s); err == nil {
			level = parsed
		}
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
