package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/doeshing/wxq/internal/domain"
	"github.com/doeshing/wxq/internal/ports"
)

// ZeroLogger is a ports.Logger backed by zerolog.
type ZeroLogger struct {
	log zerolog.Logger
}

// Options configures the logger.
type Options struct {
	Verbose bool
	// Level is a zerolog level name; empty or unknown means warn.
	Level  string
	JSON   bool
	Writer io.Writer
}

// New builds a ZeroLogger. Verbose forces debug output; otherwise Level
// applies.
func New(opts Options) *ZeroLogger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	if !opts.JSON {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	level := parseLevel(opts.Level)
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	return &ZeroLogger{
		log: zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

// FromSettings builds a logger from configuration; verbose forces debug.
func FromSettings(settings domain.LoggingSettings, verbose bool) *ZeroLogger {
	return New(Options{
		Verbose: verbose,
		Level:   settings.Level,
		JSON:    settings.IsJSON(),
	})
}

func parseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.WarnLevel
	}
	return level
}

// Nop discards everything.
func Nop() *ZeroLogger {
	return &ZeroLogger{log: zerolog.Nop()}
}

// Zerolog exposes the underlying logger for adapters that log directly.
func (l *ZeroLogger) Zerolog() zerolog.Logger {
	return l.log
}

func (l *ZeroLogger) Debug(msg string, fields map[string]interface{}) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Info(msg string, fields map[string]interface{}) {
	l.log.Info().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Warn(msg string, fields map[string]interface{}) {
	l.log.Warn().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Error(msg string, err error, fields map[string]interface{}) {
	l.log.Error().Err(err).Fields(fields).Msg(msg)
}

var _ ports.Logger = (*ZeroLogger)(nil)
