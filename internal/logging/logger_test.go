package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/tangzhangming/typeinfer/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			level, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestDebugEnabled(t *testing.T) {
	for _, v := range []string{"1", "true", "ON"} {
		t.Setenv(DebugEnv, v)
		assert.True(t, DebugEnabled(), v)
	}
	for _, v := range []string{"", "0", "off"} {
		t.Setenv(DebugEnv, v)
		assert.False(t, DebugEnabled(), v)
	}
}

func TestFileOutput(t *testing.T) {
	t.Setenv(DebugEnv, "")
	path := filepath.Join(t.TempDir(), "infer.log")

	logger, err := New(config.LogConfig{Level: "info", File: path})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("pass start")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pass start")
	assert.NotContains(t, string(data), "hidden")
}

func TestDebugEnvOverridesLevel(t *testing.T) {
	t.Setenv(DebugEnv, "1")
	path := filepath.Join(t.TempDir(), "infer.log")

	logger, err := New(config.LogConfig{Level: "error", File: path})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger.Debug("inferred")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "inferred")
}

func TestNewErrors(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"})
	assert.Error(t, err)

	_, err = New(config.LogConfig{Level: "info", File: filepath.Join(t.TempDir(), "missing", "infer.log")})
	assert.Error(t, err)
}

func TestStderrLogger(t *testing.T) {
	t.Setenv(DebugEnv, "")
	logger, err := New(config.LogConfig{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	logger.Close()
}
