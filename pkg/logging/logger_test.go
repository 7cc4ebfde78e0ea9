package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		enable slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"warn level", "warn", slog.LevelWarn},
		{"error level", "error", slog.LevelError},
		{"default info", "", slog.LevelInfo},
		{"unknown falls back to info", "verbose", slog.LevelInfo},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.level)
			if !logger.Enabled(ctx, tt.enable) {
				t.Fatalf("expected level %s to be enabled", tt.enable)
			}
		})
	}
}

func TestNewWithWriterEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("info", &buf)

	logger.Info("appointment scheduled", "id", 1, "patient", "Ana")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "appointment scheduled" {
		t.Errorf("unexpected msg: %v", entry["msg"])
	}
	if entry["patient"] != "Ana" {
		t.Errorf("unexpected patient attr: %v", entry["patient"])
	}
}

func TestDefaultLogger(t *testing.T) {
	logger := Default()

	ctx := context.Background()
	if !logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("Default() should enable info level")
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		t.Error("Default() should not enable debug level")
	}
	if logger.Logger == nil {
		t.Fatal("Default() returned Logger with nil slog.Logger")
	}
}
