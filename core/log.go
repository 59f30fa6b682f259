// Package core holds the ambient runtime pieces every other package is
// threaded through: logging, the monotonic clock, the timer scheduler, and
// the seedable RNG, bundled as a RuntimeContext instead of referenced as
// package-level globals.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Level is a logging severity, ordered low to high.
type Level int

const (
	LevelTrace Level = -8
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
	LevelFatal Level = 12
)

// String returns the human-readable level name.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name, defaulting to LevelInfo on error.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	case "FATAL":
		return LevelFatal, nil
	}
	return LevelInfo, fmt.Errorf("invalid log level: %s", s)
}

// Module identifies a logging call site - every table, pipeline, and mgmt
// module implements this so log lines are always tagged with their source.
type Module interface {
	String() string
}

// Logger is the forwarder-wide logging sink. Every call site passes the
// Module emitting the line as the first argument, e.g.
// `log.Info(self, msg, "key", value, ...)`.
type Logger struct {
	level   Level
	handler *slog.Logger
}

// NewLogger builds a Logger writing text-formatted lines to os.Stderr at or
// above level.
func NewLogger(level Level) *Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(level),
	})
	return &Logger{level: level, handler: slog.New(h)}
}

func (l *Logger) log(level Level, m Module, msg string, kv ...any) {
	if level < l.level {
		return
	}
	args := make([]any, 0, len(kv)+2)
	args = append(args, "module", m.String())
	args = append(args, kv...)
	l.handler.Log(context.Background(), slog.Level(level), msg, args...)
}

func (l *Logger) Trace(m Module, msg string, kv ...any) { l.log(LevelTrace, m, msg, kv...) }
func (l *Logger) Debug(m Module, msg string, kv ...any) { l.log(LevelDebug, m, msg, kv...) }
func (l *Logger) Info(m Module, msg string, kv ...any)  { l.log(LevelInfo, m, msg, kv...) }
func (l *Logger) Warn(m Module, msg string, kv ...any)  { l.log(LevelWarn, m, msg, kv...) }
func (l *Logger) Error(m Module, msg string, kv ...any) { l.log(LevelError, m, msg, kv...) }

// Fatal logs at LevelFatal and terminates the process. Reserved for
// unrecoverable startup errors.
func (l *Logger) Fatal(m Module, msg string, kv ...any) {
	l.log(LevelFatal, m, msg, kv...)
	os.Exit(1)
}
