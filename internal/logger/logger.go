package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures the global logger. format "console" switches to the
// human readable writer, anything else keeps JSON lines.
func Init(level, format string) {
	var out io.Writer = os.Stdout
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	log = zerolog.New(out).Level(lvl).With().Timestamp().Str("service", "driveros").Logger()
}

// SetOutput redirects log output, mostly for tests.
func SetOutput(w io.Writer) {
	log = log.Output(w)
}

// Logger exposes the underlying zerolog logger.
func Logger() *zerolog.Logger {
	return &log
}

func Info(msg string, kv ...any) {
	log.Info().Fields(kv).Msg(msg)
}

func Infof(format string, v ...any) {
	log.Info().Msgf(format, v...)
}

func Warn(msg string, kv ...any) {
	log.Warn().Fields(kv).Msg(msg)
}

func Error(msg string, kv ...any) {
	log.Error().Fields(kv).Msg(msg)
}

func Errorf(format string, v ...any) {
	log.Error().Msgf(format, v...)
}

func Debug(msg string, kv ...any) {
	log.Debug().Fields(kv).Msg(msg)
}

func Fatalf(format string, v ...any) {
	log.Fatal().Msgf(format, v...)
}
