package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

type Logger struct {
	logger *zerolog.Logger
}

// NewConsole returns a human-readable logger writing to w (stdout if nil).
func NewConsole(isDebug bool, noColor bool, w io.Writer) *Logger {
	logLevel := zerolog.InfoLevel
	if isDebug {
		logLevel = zerolog.DebugLevel
	}
	if w == nil {
		w = os.Stdout
	}
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: noColor}
	logger := zerolog.New(output).Level(logLevel).With().Timestamp().Logger()
	return &Logger{logger: &logger}
}

// New returns a JSON logger writing to w.
func New(isDebug bool, w io.Writer) *Logger {
	logLevel := zerolog.InfoLevel
	if isDebug {
		logLevel = zerolog.DebugLevel
	}
	logger := zerolog.New(w).Level(logLevel).With().Timestamp().Logger()
	return &Logger{logger: &logger}
}

// Nop returns a logger that drops everything.
func Nop() *Logger {
	logger := zerolog.Nop()
	return &Logger{logger: &logger}
}

// With creates a child logger with the field added to its context.
func (l *Logger) With() zerolog.Context { return l.logger.With() }

// Extend adds some additional context to the existing logger.
func (l *Logger) Extend(ctx zerolog.Context) *Logger {
	logger := ctx.Logger()
	return &Logger{logger: &logger}
}

// Debug starts a new message with debug level.
// You must call Msg on the returned event in order to send the event.
func (l *Logger) Debug() *zerolog.Event { return l.logger.Debug() }

// Info starts a new message with info level.
// You must call Msg on the returned event in order to send the event.
func (l *Logger) Info() *zerolog.Event { return l.logger.Info() }

// Warn starts a new message with warn level.
// You must call Msg on the returned event in order to send the event.
func (l *Logger) Warn() *zerolog.Event { return l.logger.Warn() }

// Error starts a new message with error level.
func (l *Logger) Error() *zerolog.Event { return l.logger.Error() }

// IsDebug reports whether debug events are emitted.
func (l *Logger) IsDebug() bool { return l.logger.GetLevel() <= zerolog.DebugLevel }
