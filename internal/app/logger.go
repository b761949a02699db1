package app

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/a-bunting/daily-grind-sub000/internal/config"
)

// NewLogger builds the service logger: human-readable console output in
// the local env, JSON otherwise.
func NewLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	w := io.Writer(os.Stdout)
	if cfg.Env == config.EnvLocal {
		console := zerolog.NewConsoleWriter()
		console.TimeFormat = time.DateTime
		console.Out = os.Stdout
		w = console
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", "daily-grind").
		Logger()
}
