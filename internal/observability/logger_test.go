package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLoggingConfig(t *testing.T) {
	cfg := DefaultLoggingConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
	assert.False(t, cfg.AddSource)
}

func TestNewLogger(t *testing.T) {
	t.Run("creates logger with default config", func(t *testing.T) {
		cfg := DefaultLoggingConfig()
		logger := NewLogger(cfg)

		// Logger should be valid (non-zero)
		assert.NotEqual(t, zerolog.Logger{}, logger)
	})

	t.Run("creates logger with debug level", func(t *testing.T) {
		cfg := LoggingConfig{
			Level:  "debug",
			Format: "json",
			Output: "stdout",
		}
		logger := NewLogger(cfg)

		// Debug level should be enabled
		assert.NotEqual(t, zerolog.Logger{}, logger)
	})

	t.Run("creates logger with console format", func(t *testing.T) {
		cfg := LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stdout",
		}
		logger := NewLogger(cfg)

		assert.NotEqual(t, zerolog.Logger{}, logger)
	})

	t.Run("creates logger with pretty format", func(t *testing.T) {
		cfg := LoggingConfig{
			Level:  "info",
			Format: "pretty",
			Output: "stderr",
		}
		logger := NewLogger(cfg)

		assert.NotEqual(t, zerolog.Logger{}, logger)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"TRACE", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"WARNING", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"ERROR", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"FATAL", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"PANIC", zerolog.PanicLevel},
		{"unknown", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseLevel(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNewLoggerWithWriter(t *testing.T) {
	t.Run("writes json at the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerWithWriter(LoggingConfig{Level: "warn", Format: "json"}, &buf)

		logger.Info().Msg("dropped")
		assert.Zero(t, buf.Len())

		logger.Warn().Str("endpoint", "search").Msg("degraded response")

		var logEntry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
		assert.Equal(t, "warn", logEntry["level"])
		assert.Equal(t, "search", logEntry["endpoint"])
		assert.Contains(t, logEntry, "time")
	})

	t.Run("console format is human readable", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerWithWriter(LoggingConfig{Level: "info", Format: "console"}, &buf)

		logger.Info().Msg("hello")
		assert.Contains(t, buf.String(), "hello")
		assert.False(t, json.Valid(buf.Bytes()))
	})

	t.Run("adds caller when requested", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerWithWriter(LoggingConfig{Level: "info", Format: "json", AddSource: true}, &buf)

		logger.Info().Msg("with caller")

		var logEntry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
		assert.Contains(t, logEntry["caller"], "logger_test.go")
	})
}

func TestWithRequestContext(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	enriched := WithRequestContext(logger, "req-123", "corr-456")
	enriched.Info().Msg("test message")

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)

	assert.Equal(t, "req-123", logEntry["request_id"])
	assert.Equal(t, "corr-456", logEntry["correlation_id"])
	assert.Equal(t, "test message", logEntry["message"])
}

func TestWithRequestContext_OmitsEmptyIDs(t *testing.T) {
	var buf bytes.Buffer
	enriched := WithRequestContext(zerolog.New(&buf), "", "corr-only")
	enriched.Info().Msg("test message")

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.NotContains(t, logEntry, "request_id")
	assert.Equal(t, "corr-only", logEntry["correlation_id"])
}

func TestWithQueryContext(t *testing.T) {
	t.Run("includes supplied fields", func(t *testing.T) {
		var buf bytes.Buffer
		enriched := WithQueryContext(zerolog.New(&buf), "Detective Comics", "1000", 2018)
		enriched.Info().Msg("search started")

		var logEntry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
		assert.Equal(t, "Detective Comics", logEntry["series"])
		assert.Equal(t, "1000", logEntry["issue_number"])
		assert.Equal(t, float64(2018), logEntry["year"])
	})

	t.Run("omits absent fields", func(t *testing.T) {
		var buf bytes.Buffer
		enriched := WithQueryContext(zerolog.New(&buf), "Saga", "", 0)
		enriched.Info().Msg("search started")

		var logEntry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
		assert.Equal(t, "Saga", logEntry["series"])
		assert.NotContains(t, logEntry, "issue_number")
		assert.NotContains(t, logEntry, "year")
	})
}

func TestLoggerContextChaining(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	// Chain multiple context enrichments
	enriched := WithRequestContext(logger, "req-1", "corr-1")
	enriched = WithIssueContext(enriched, 683540)
	enriched = WithVolumeContext(enriched, 110410)
	enriched.Info().Msg("chained context")

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)

	// All fields should be present
	assert.Equal(t, "req-1", logEntry["request_id"])
	assert.Equal(t, "corr-1", logEntry["correlation_id"])
	assert.Equal(t, float64(683540), logEntry["issue_id"])
	assert.Equal(t, float64(110410), logEntry["volume_id"])
}
