package util

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger is a printf-style front for a slog text handler. Debug lines are
// dropped unless verbose output is enabled.
type Logger struct {
	slog  *slog.Logger
	level *slog.LevelVar
}

// NewLogger creates a Logger writing to stderr
func NewLogger(verbose bool) *Logger {
	return NewLoggerTo(os.Stderr, verbose)
}

// NewLoggerTo creates a Logger writing to w
func NewLoggerTo(w io.Writer, verbose bool) *Logger {
	return newLogger(w, verbose, nil)
}

func newLogger(w io.Writer, verbose bool, replace func([]string, slog.Attr) slog.Attr) *Logger {
	level := new(slog.LevelVar)
	l := &Logger{
		slog: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: replace,
		})),
		level: level,
	}
	l.SetVerbose(verbose)
	return l
}

// Discard returns a Logger that writes nothing
func Discard() *Logger {
	return NewLoggerTo(io.Discard, false)
}

// SetVerbose switches the level between debug and info
func (l *Logger) SetVerbose(v bool) {
	if v {
		l.level.Set(slog.LevelDebug)
		return
	}
	l.level.Set(slog.LevelInfo)
}

// Slog returns the underlying structured logger
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

func (l *Logger) Debug(format string, args ...any) {
	l.write(slog.LevelDebug, format, args...)
}

func (l *Logger) Info(format string, args ...any) {
	l.write(slog.LevelInfo, format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.write(slog.LevelWarn, format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.write(slog.LevelError, format, args...)
}

func (l *Logger) write(level slog.Level, format string, args ...any) {
	ctx := context.Background()
	if !l.slog.Enabled(ctx, level) {
		return
	}
	l.slog.Log(ctx, level, fmt.Sprintf(format, args...))
}
