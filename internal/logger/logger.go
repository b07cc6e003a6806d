package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger.
// Development mode writes human-readable output to stderr, otherwise JSON.
func Setup(dev bool, level string) {
	SetupWriter(os.Stderr, dev, level)
}

// SetupWriter is Setup with an explicit destination
func SetupWriter(w io.Writer, dev bool, level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
		if dev {
			lvl = zerolog.DebugLevel
		}
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	if dev {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}
