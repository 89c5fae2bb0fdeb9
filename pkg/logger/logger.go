package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls how the global logger is built.
type Options struct {
	// Production switches to JSON output at info level.
	Production bool
	// Level overrides the default level (debug, info, warn, error).
	Level string
	// Output defaults to stdout.
	Output io.Writer
}

var DefaultOptions = Options{}

func safe(opts ...Options) Options {
	if len(opts) == 0 {
		return DefaultOptions
	}
	return opts[0]
}

// Init configures the package-level zerolog logger.
func Init(opts ...Options) {
	o := safe(opts...)

	out := o.Output
	if out == nil {
		out = os.Stdout
	}

	level := zerolog.DebugLevel
	if o.Production {
		level = zerolog.InfoLevel
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Caller().Logger()
	}

	if o.Level != "" {
		level = ParseLevel(o.Level)
	}
	log.Logger = log.Logger.Level(level)
}

// ParseLevel maps a textual level to zerolog, falling back to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
