package main

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"error", LogLevelError, false},
		{"WARN", LogLevelWarn, false},
		{"warning", LogLevelWarn, false},
		{"", LogLevelInfo, false},
		{"info", LogLevelInfo, false},
		{" debug ", LogLevelDebug, false},
		{"trace", "", true},
	}

	for _, tt := range tests {
		got, err := parseLogLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLogLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSetupLoggerLevel(t *testing.T) {
	logger := setupLogger(LogLevelWarn)
	ctx := context.Background()

	if logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !logger.Enabled(ctx, slog.LevelWarn) {
		t.Error("warn should be enabled at warn level")
	}
	if !setupLogger(LogLevelDebug).Enabled(ctx, slog.LevelDebug) {
		t.Error("debug should be enabled at debug level")
	}
}
