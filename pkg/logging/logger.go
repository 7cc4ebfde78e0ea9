package logging

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with application-specific functionality
type Logger struct {
	*slog.Logger
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a JSON logger writing to stdout with the specified level.
func New(level string) *Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewWithWriter creates a JSON logger writing to w. Tests use it to
// capture output.
func NewWithWriter(level string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	return &Logger{Logger: slog.New(slog.NewJSONHandler(w, opts))}
}

// NewText creates a human-readable logger writing to stderr. The
// interactive CLI uses it so log lines do not interleave with the menu
// as JSON blobs.
func NewText(level string) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, opts))}
}

// Default returns a logger with default settings
func Default() *Logger {
	return New("info")
}
