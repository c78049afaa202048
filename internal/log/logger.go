// Package log provides the process-wide leveled logger used by the CLI.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Verbosity levels, selected with repeated -v flags.
const (
	LevelQuiet = iota // warnings and errors only
	LevelInfo         // -v: config sources, inputs resolved
	LevelDebug        // -vv: anchor and calendar selection
	LevelTrace        // -vvv: every evaluated expression
)

const slogLevelTrace = slog.Level(-8)

var (
	verbosity int
	level     = new(slog.LevelVar)
	logger    *slog.Logger
)

// Initialize points the logger at w and sets the verbosity.
func Initialize(v int, w io.Writer) {
	verbosity = v
	level.Set(slogLevel(v))
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func slogLevel(v int) slog.Level {
	switch {
	case v >= LevelTrace:
		return slogLevelTrace
	case v >= LevelDebug:
		return slog.LevelDebug
	case v >= LevelInfo:
		return slog.LevelInfo
	}
	return slog.LevelWarn
}

// Info logs at info level (-v).
func Info(msg string, args ...any) {
	logger.Info(msg, args...)
}

// Debug logs at debug level (-vv).
func Debug(msg string, args ...any) {
	logger.Debug(msg, args...)
}

// Trace logs at trace level (-vvv).
func Trace(msg string, args ...any) {
	logger.Log(context.Background(), slogLevelTrace, msg, args...)
}

// Warn logs at warn level (always visible).
func Warn(msg string, args ...any) {
	logger.Warn(msg, args...)
}

// Error logs at error level (always visible).
func Error(msg string, args ...any) {
	logger.Error(msg, args...)
}

// IsDebug reports whether debug logging is enabled.
func IsDebug() bool {
	return verbosity >= LevelDebug
}

// IsTrace reports whether trace logging is enabled.
func IsTrace() bool {
	return verbosity >= LevelTrace
}

// Verbosity returns the current verbosity level.
func Verbosity() int {
	return verbosity
}

func init() {
	Initialize(LevelQuiet, os.Stderr)
}
