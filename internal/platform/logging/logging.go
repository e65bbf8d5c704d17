package logging

import (
	"io"
	"os"
	"time"
	"trip-planner/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global logger from LOG_FORMAT and DEBUG.
func Setup() {
	log.Logger = New(os.Stdout, config.Get("LOG_FORMAT", "") == "JSON", config.Get("DEBUG", "") == "YES")
}

// New builds a logger writing JSON lines or human readable console output.
func New(out io.Writer, json bool, debug bool) zerolog.Logger {
	if !json {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(out).With().Timestamp().Logger()
	if debug {
		return logger.Level(zerolog.DebugLevel)
	}
	return logger.Level(zerolog.InfoLevel)
}
