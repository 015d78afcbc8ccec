package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel maps a level name to a zerolog level. Unknown names select info.
//
// Parameters:
//   - level: DEBUG, INFO, WARN, ERROR or TRACE in any case
//
// Returns:
//   - zerolog.Level: the parsed level
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "TRACE":
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup sets the global level and builds the root console logger.
//
// Parameters:
//   - level: the level name, see ParseLevel
//   - out: the destination, usually os.Stdout
//   - noColor: disables ANSI colors for non-terminal outputs
//
// Returns:
//   - zerolog.Logger: the root logger with timestamps
func Setup(level string, out io.Writer, noColor bool) zerolog.Logger {
	zerolog.SetGlobalLevel(ParseLevel(level))
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}).With().Timestamp().Logger()

	logger.Info().Str("loglevel", zerolog.GlobalLevel().String()).Msg("Logging set up")
	return logger
}

// Component derives a subsystem logger tagged with its name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
