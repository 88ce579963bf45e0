package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"city-announcements/internal/handler/http/requestid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_LevelFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		debugOn  bool
		warnOn   bool
	}{
		{name: "default is info", logLevel: "", debugOn: false, warnOn: true},
		{name: "debug", logLevel: "debug", debugOn: true, warnOn: true},
		{name: "warn", logLevel: "warn", debugOn: false, warnOn: true},
		{name: "error", logLevel: "error", debugOn: false, warnOn: false},
		{name: "unknown falls back to info", logLevel: "verbose", debugOn: false, warnOn: true},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.logLevel)

			logger := NewLogger()
			require.NotNil(t, logger)
			assert.Equal(t, tt.debugOn, logger.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.warnOn, logger.Enabled(ctx, slog.LevelWarn))
		})
	}
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := requestid.WithRequestID(context.Background(), "req-abc-123")
	WithRequestID(ctx, base).Info("announcement created", "announcement_id", 42)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-abc-123", entry["request_id"])
	assert.Equal(t, "announcement created", entry["msg"])
}

func TestWithRequestID_NoIDInContext(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	// IDなしのコンテキストではロガーはそのまま
	logger := WithRequestID(context.Background(), base)
	assert.Same(t, base, logger)

	logger.Info("gauge refresh")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	_, hasID := entry["request_id"]
	assert.False(t, hasID)
}
