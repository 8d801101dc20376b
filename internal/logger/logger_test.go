package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shrasel/bank-statement-converter/internal/config"
)

func loggerWithLevel(level string) *slog.Logger {
	return New(&config.Config{Logging: config.LoggingConfig{Level: level}})
}

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level       string
		wantDebug   bool
		wantInfo    bool
		wantWarning bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{"INFO", false, true, true},
		{"warn", false, false, true},
		{"error", false, false, false},
		{"bogus", false, true, true}, // unknown levels default to info
		{"", false, true, true},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run("level "+tt.level, func(t *testing.T) {
			log := loggerWithLevel(tt.level)
			assert.Equal(t, tt.wantDebug, log.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.wantInfo, log.Enabled(ctx, slog.LevelInfo))
			assert.Equal(t, tt.wantWarning, log.Enabled(ctx, slog.LevelWarn))
		})
	}
}
