// Package logger provides a configured zerolog instance.
package logger

import (
	"os"

	"github.com/ilindan-dev/alertgate/internal/config"
	"github.com/rs/zerolog"
)

// NewLogger creates a new configured instance of zerolog.Logger.
// Log output goes to stderr so the CLI can keep stdout for result JSON.
func NewLogger(cfg *config.Config) (*zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Logger.Level)
	if err != nil {
		// Default to info level if config is invalid or missing
		level = zerolog.InfoLevel
	}

	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr}

	logger := zerolog.New(consoleWriter).With().
		Timestamp().
		Str("service", "alertgate").
		Logger().
		Level(level)

	return &logger, nil
}
