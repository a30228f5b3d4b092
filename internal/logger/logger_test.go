package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestJSONLogging(t *testing.T) {
	captureDefault(t)
	var buf bytes.Buffer

	InitLogger(Config{
		Level:       LogLevelInfo,
		Format:      LogFormatJSON,
		ServiceName: "test-service",
		Version:     "1.0.0",
		Environment: EnvironmentTest,
	}, &buf)

	slog.Info("test message", "key", "value", "number", 42)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "test-service", entry[AttrKeyService])
	assert.Equal(t, "1.0.0", entry[AttrKeyVersion])
	assert.Equal(t, EnvironmentTest, entry[AttrKeyEnvironment])
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "value", entry["key"])
	assert.InDelta(t, 42, entry["number"], 0)
}

func TestFromContext_AddsRequestIDAndAttrs(t *testing.T) {
	captureDefault(t)
	var buf bytes.Buffer
	InitLogger(Config{Level: LogLevelDebug, Format: LogFormatJSON}, &buf)

	ctx := WithRequestID(context.Background(), "req-123")
	ctx = WithAttrs(ctx, AttrKeyCaller, "game2_op")

	FromContext(ctx).Debug("scored")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-123", entry[AttrKeyRequestID])
	assert.Equal(t, "game2_op", entry[AttrKeyCaller])
}

func TestRequestIDFromContext(t *testing.T) {
	_, ok := RequestIDFromContext(context.Background())
	assert.False(t, ok)

	id := GenerateRequestID()
	got, ok := RequestIDFromContext(WithRequestID(context.Background(), id))
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestConfigLevels(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Config{Level: "DEBUG"}.LogLevel())
	assert.Equal(t, slog.LevelWarn, Config{Level: LogLevelWarning}.LogLevel())
	assert.Equal(t, slog.LevelError, Config{Level: LogLevelError}.LogLevel())
	assert.Equal(t, slog.LevelInfo, Config{Level: "nonsense"}.LogLevel())
}

func TestNewConfig_AddSourceInDev(t *testing.T) {
	assert.True(t, NewConfig(LogLevelInfo, LogFormatText, "svc", "v1", EnvironmentDev).AddSource)
	assert.False(t, NewConfig(LogLevelInfo, LogFormatJSON, "svc", "v1", EnvironmentProduction).AddSource)
	assert.False(t, DefaultConfig().IsJSON())
}
