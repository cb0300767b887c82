package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestJSONOutputRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := newWithSink(Config{Level: "warn", Format: "json"}, zapcore.AddSync(&buf))

	log.Info("hidden")
	log.Warn("shown", zap.String("entry_id", "e1"))
	require.NoError(t, log.Sync())

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "e1", line["entry_id"])
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.NotNil(t, FromContext(ctx))
	assert.Empty(t, GetRequestID(ctx))

	var buf bytes.Buffer
	base := newWithSink(Config{Format: "json"}, zapcore.AddSync(&buf))

	ctx, _ = WithRequestID(ctx, base, "req-1")
	assert.Equal(t, "req-1", GetRequestID(ctx))

	FromContext(ctx).Info("hello")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
}
