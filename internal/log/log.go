// Package log provides the process-wide structured logger.
package log

import (
	"log/slog"
	"os"
)

// Setup configures the default logger. Verbose enables debug output.
// Log output goes to stderr so it never mixes with listing output.
func Setup(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// Debug logs at debug level with key-value pairs
func Debug(msg string, args ...any) {
	slog.Debug(msg, args...)
}

// Info logs at info level with key-value pairs
func Info(msg string, args ...any) {
	slog.Info(msg, args...)
}

// Warn logs at warn level with key-value pairs
func Warn(msg string, args ...any) {
	slog.Warn(msg, args...)
}

// Error logs at error level with key-value pairs
func Error(msg string, args ...any) {
	slog.Error(msg, args...)
}
