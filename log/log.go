// Package log configures the process-wide zerolog logger. Packages log
// through zerolog's global logger; this only sets its level and output.
package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup applies the configured level to the global logger and switches to a
// human-readable console writer when pretty is set. An unknown level falls
// back to info.
func Setup(level string, pretty bool) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
		log.Warn().Str("configured_log_level", level).Msg("Invalid LOG_LEVEL configured, defaulting to 'info'")
	}
	zerolog.SetGlobalLevel(parsed)
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
