package auth

import (
	"context"
	"fmt"
	"log/slog"
)

// SlogLogger adapts a *slog.Logger to the Logger interface.
// Arguments are treated as key/value pairs.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps logger, falling back to slog.Default when nil
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{logger: logger}
}

// Named returns a child logger tagged with the given component name
func (l *SlogLogger) Named(name string) *SlogLogger {
	return &SlogLogger{logger: l.logger.With("component", name)}
}

func (l *SlogLogger) Debug(format string, args ...any) {
	l.log(slog.LevelDebug, format, args...)
}

func (l *SlogLogger) Info(format string, args ...any) {
	l.log(slog.LevelInfo, format, args...)
}

func (l *SlogLogger) Warn(format string, args ...any) {
	l.log(slog.LevelWarn, format, args...)
}

func (l *SlogLogger) Error(format string, args ...any) {
	l.log(slog.LevelError, format, args...)
}

func (l *SlogLogger) log(level slog.Level, msg string, args ...any) {
	if len(args)%2 != 0 {
		msg = fmt.Sprintf("%s %v", msg, args[len(args)-1])
		args = args[:len(args)-1]
	}
	l.logger.Log(context.Background(), level, msg, args...)
}

var _ Logger = (*SlogLogger)(nil)

func normalizeLogger(logger Logger) Logger {
	if logger == nil {
		return defLogger{}
	}
	return logger
}
