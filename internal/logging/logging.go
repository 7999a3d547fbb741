// Package logging provides JSON structured logging using zerolog.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var globalLogger zerolog.Logger

// Config controls the process-wide logger. Console selects the
// human-readable writer instead of raw JSON.
type Config struct {
	Level      string `json:"level"`
	Debug      bool   `json:"debug"`
	Console    bool   `json:"console"`
	TimeFormat string `json:"time_format"`
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	globalLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// Init configures the global logger. Call once from main before any
// component starts.
func Init(config Config) error {
	var output io.Writer = os.Stdout
	if config.Console {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	level := zerolog.InfoLevel
	if config.Debug {
		level = zerolog.DebugLevel
	} else if config.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(config.Level)
		if err != nil {
			return err
		}
	}

	if config.TimeFormat != "" {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	globalLogger = zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	log.Logger = globalLogger

	return nil
}

// SetDebug flips the global level between debug and info; used by the
// settings hot-reload path.
func SetDebug(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	globalLogger = globalLogger.Level(level)
	log.Logger = globalLogger
}

func GetLogger() zerolog.Logger {
	return globalLogger
}

// WithComponent returns a child logger tagged with the component name.
// Every long-lived loop logs through one of these.
func WithComponent(component string) zerolog.Logger {
	return globalLogger.With().Str("component", component).Logger()
}
