package logging_test

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/neomorfeo/roomkeeper/internal/logging"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		production bool
		level      string
		enabled    zapcore.Level
		disabled   zapcore.Level
	}{
		{false, "debug", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{true, "info", zapcore.InfoLevel, zapcore.DebugLevel},
		{true, "warn", zapcore.WarnLevel, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := logging.New(tt.production, tt.level)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			defer logger.Sync() //nolint:errcheck

			if !logger.Core().Enabled(tt.enabled) {
				t.Errorf("level %v should be enabled", tt.enabled)
			}
			if logger.Core().Enabled(tt.disabled) {
				t.Errorf("level %v should be disabled", tt.disabled)
			}
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := logging.New(false, "loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
