package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog so call sites are not tied to a handler choice.
type Logger struct {
	sl *slog.Logger
}

var log *Logger

func Init() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	log = New(NewJSONHandler(os.Stdout, opts))
}

func NewJSONHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return slog.NewJSONHandler(w, opts)
}

func New(h slog.Handler) *Logger {
	return &Logger{sl: slog.New(h)}
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.sl.Info(msg, args...)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.sl.Error(msg, args...)
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.sl.Debug(msg, args...)
}

func ensure() *Logger {
	if log == nil {
		Init()
	}
	return log
}

func Info(msg string, args ...interface{}) {
	ensure().Info(msg, args...)
}

func Infof(format string, v ...interface{}) {
	ensure().Info(fmt.Sprintf(format, v...))
}

func Error(msg string, args ...interface{}) {
	ensure().Error(msg, args...)
}

func Errorf(format string, v ...interface{}) {
	ensure().Error(fmt.Sprintf(format, v...))
}

func Debug(msg string, args ...interface{}) {
	ensure().Debug(msg, args...)
}

func Debugf(format string, v ...interface{}) {
	ensure().Debug(fmt.Sprintf(format, v...))
}

func Fatal(msg string) {
	ensure().Error(msg)
	os.Exit(1)
}

func Fatalf(format string, v ...interface{}) {
	ensure().Error(fmt.Sprintf(format, v...))
	os.Exit(1)
}

// WithError returns a logger that attaches the error to every record.
func WithError(err error) *Logger {
	return &Logger{sl: ensure().sl.With("error", err)}
}

// WithFields returns a logger that attaches the given fields to every record.
func WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{sl: ensure().sl.With(args...)}
}
