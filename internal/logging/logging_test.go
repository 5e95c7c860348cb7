package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/plus3/stagecs/internal/config"
	"github.com/plus3/stagecs/internal/logging"
)

func TestConfig(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.LoggingConfig
		level    zapcore.Level
		encoding string
	}{
		{"console debug", config.LoggingConfig{Level: "debug", Format: "console"}, zapcore.DebugLevel, "console"},
		{"json warn", config.LoggingConfig{Level: "warn", Format: "json"}, zapcore.WarnLevel, "json"},
		{"unknown level", config.LoggingConfig{Level: "chatty"}, zapcore.InfoLevel, "console"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zapCfg := logging.Config(tt.cfg)
			assert.Equal(t, tt.level, zapCfg.Level.Level())
			assert.Equal(t, tt.encoding, zapCfg.Encoding)
		})
	}
}

func TestNew(t *testing.T) {
	log, err := logging.New(config.Default().Logging)
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}
