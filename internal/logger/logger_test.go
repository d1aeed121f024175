package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/deppfellow/shopbuilder/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestLoggerServiceDisabled(t *testing.T) {
	svc := NewLoggerService(config.DefaultObservabilityConfig())
	assert.Nil(t, svc.GetApplication())
	assert.NotPanics(t, svc.Shutdown)

	var nilSvc *LoggerService
	assert.Nil(t, nilSvc.GetApplication())
}

func TestNewLoggerLevel(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = "warn"

	l := NewLogger(cfg)
	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())
}

func TestWithTraceContextNilTxn(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)

	traced := WithTraceContext(l, nil)
	traced.Info().Msg("hi")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.NotContains(t, line, "trace.id")
}

func TestMongoLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewMongoLogSink(zerolog.New(&buf).Level(zerolog.DebugLevel))

	sink.Info(1, "command started", "commandName", "find", "requestId", 7, "dangling")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "mongo", line["component"])
	assert.Equal(t, "find", line["commandName"])
	assert.EqualValues(t, 7, line["requestId"])
	assert.NotContains(t, line, "dangling")

	buf.Reset()
	sink.Error(errors.New("boom"), "command failed")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "boom", line["error"])
}

func TestGetMongoLogLevel(t *testing.T) {
	assert.Equal(t, options.LogLevelDebug, GetMongoLogLevel(zerolog.DebugLevel))
	assert.Equal(t, options.LogLevelDebug, GetMongoLogLevel(zerolog.TraceLevel))
	assert.Equal(t, options.LogLevelInfo, GetMongoLogLevel(zerolog.InfoLevel))
}
