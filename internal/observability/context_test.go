package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDContext(t *testing.T) {
	t.Run("stores and retrieves request ID", func(t *testing.T) {
		ctx := context.Background()
		ctx = WithRequestID(ctx, "req-123")

		result := RequestIDFromContext(ctx)
		assert.Equal(t, "req-123", result)
	})

	t.Run("returns empty string when not set", func(t *testing.T) {
		ctx := context.Background()
		result := RequestIDFromContext(ctx)
		assert.Equal(t, "", result)
	})
}

func TestCorrelationIDContext(t *testing.T) {
	t.Run("stores and retrieves correlation ID", func(t *testing.T) {
		ctx := WithCorrelationID(context.Background(), "corr-1")
		assert.Equal(t, "corr-1", CorrelationIDFromContext(ctx))
	})

	t.Run("returns empty string when not set", func(t *testing.T) {
		assert.Equal(t, "", CorrelationIDFromContext(context.Background()))
	})

	t.Run("later value overwrites earlier", func(t *testing.T) {
		ctx := WithCorrelationID(context.Background(), "first")
		ctx = WithCorrelationID(ctx, "second")
		assert.Equal(t, "second", CorrelationIDFromContext(ctx))
	})
}

func TestLoggerFromContext(t *testing.T) {
	t.Run("adds both IDs", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := WithCorrelationID(WithRequestID(context.Background(), "req-9"), "corr-9")

		logger := LoggerFromContext(ctx, zerolog.New(&buf))
		logger.Info().Msg("handled")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "req-9", entry["request_id"])
		assert.Equal(t, "corr-9", entry["correlation_id"])
	})

	t.Run("leaves out missing IDs", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := WithRequestID(context.Background(), "req-only")

		logger := LoggerFromContext(ctx, zerolog.New(&buf))
		logger.Info().Msg("handled")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "req-only", entry["request_id"])
		assert.NotContains(t, entry, "correlation_id")
	})

	t.Run("empty context returns base logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := LoggerFromContext(context.Background(), zerolog.New(&buf))
		logger.Info().Msg("plain")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.NotContains(t, entry, "request_id")
		assert.Equal(t, "plain", entry["message"])
	})
}
