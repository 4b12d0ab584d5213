package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LoggingConfig contains logger configuration options.
type LoggingConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error, fatal, panic).
	Level string

	// Format is the output format (json, console, pretty).
	Format string

	// Output is the output destination (stdout, stderr).
	Output string

	// AddSource adds source file and line number to log entries.
	AddSource bool

	// TimeFormat is the time format for timestamps.
	TimeFormat string
}

// DefaultLoggingConfig returns a LoggingConfig with sensible defaults.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:      "info",
		Format:     "json",
		Output:     "stdout",
		AddSource:  false,
		TimeFormat: time.RFC3339,
	}
}

// NewLogger creates a new zerolog logger based on configuration.
func NewLogger(cfg LoggingConfig) zerolog.Logger {
	var output io.Writer

	switch strings.ToLower(cfg.Output) {
	case "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		output = os.Stdout
	}

	return NewLoggerWithWriter(cfg, output)
}

// NewLoggerWithWriter creates a logger that writes to output, ignoring
// cfg.Output.
func NewLoggerWithWriter(cfg LoggingConfig, output io.Writer) zerolog.Logger {
	// Configure time format
	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	} else {
		zerolog.TimeFieldFormat = time.RFC3339
	}

	// Use console writer for pretty output in development
	if strings.ToLower(cfg.Format) == "console" || strings.ToLower(cfg.Format) == "pretty" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: zerolog.TimeFieldFormat,
		}
	}

	// Create logger with context
	logger := zerolog.New(output).With().Timestamp()

	// Add caller information if configured
	if cfg.AddSource {
		logger = logger.Caller()
	}

	// Build the final logger
	log := logger.Logger()

	// Set log level
	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)
	log = log.Level(level)

	return log
}

// parseLevel converts a string log level to zerolog.Level.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithRequestContext adds request correlation fields to a logger. Empty IDs
// are left out, and with both empty the logger is returned unchanged.
func WithRequestContext(logger zerolog.Logger, requestID, correlationID string) zerolog.Logger {
	if requestID == "" && correlationID == "" {
		return logger
	}
	c := logger.With()
	if requestID != "" {
		c = c.Str("request_id", requestID)
	}
	if correlationID != "" {
		c = c.Str("correlation_id", correlationID)
	}
	return c.Logger()
}

// WithQueryContext adds search query fields to a logger. Absent fields
// (empty issue number, zero year) are omitted.
func WithQueryContext(logger zerolog.Logger, series, issueNumber string, year int) zerolog.Logger {
	c := logger.With().Str("series", series)
	if issueNumber != "" {
		c = c.Str("issue_number", issueNumber)
	}
	if year != 0 {
		c = c.Int("year", year)
	}
	return c.Logger()
}

// WithIssueContext adds catalog issue fields to a logger.
func WithIssueContext(logger zerolog.Logger, issueID int) zerolog.Logger {
	return logger.With().
		Int("issue_id", issueID).
		Logger()
}

// WithVolumeContext adds catalog volume fields to a logger.
func WithVolumeContext(logger zerolog.Logger, volumeID int) zerolog.Logger {
	return logger.With().
		Int("volume_id", volumeID).
		Logger()
}
