package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"gofalre.io/storefront/config"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.LoggerConfig
		level zapcore.Level
	}{
		{"debug console", config.LoggerConfig{Level: "debug", Encoding: "console"}, zapcore.DebugLevel},
		{"upper case", config.LoggerConfig{Level: "WARN", Encoding: "json"}, zapcore.WarnLevel},
		{"unknown falls back to info", config.LoggerConfig{Level: "loud"}, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.cfg)
			assert.True(t, log.Core().Enabled(tt.level))
			assert.False(t, log.Core().Enabled(tt.level-1))
		})
	}
}
