// README: zerolog logger initialisation from config.
package infra

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"valora/internal/config"
)

// NewLogger builds the process logger. Output is JSON unless cfg.Pretty is set.
func NewLogger(cfg config.LogConfig, out io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "valora").
		Logger(), nil
}
