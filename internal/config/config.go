// Package config provides configuration management for the comic metadata service.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/helixir/comic-metadata-service/internal/domain"
)

// EnvPrefix is the prefix of every environment variable read by the service.
const EnvPrefix = "COMICMATCH"

// Config holds all configuration for the comic metadata service.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `mapstructure:"server"`
	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
	// Metrics contains Prometheus metrics exposure settings.
	Metrics MetricsConfig `mapstructure:"metrics"`
	// Catalog contains catalog API client settings.
	Catalog CatalogConfig `mapstructure:"catalog"`
	// RateLimit contains the shared catalog rate limiter settings.
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	// Search contains search orchestration settings.
	Search SearchConfig `mapstructure:"search"`
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	// Host is the address to bind the server to (default: 0.0.0.0).
	Host string `mapstructure:"host"`
	// HTTPPort is the HTTP server port (default: 8080).
	HTTPPort int `mapstructure:"http_port"`
	// ReadTimeout is the maximum duration for reading the request.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the maximum duration for writing the response. Searches
	// may wait on pacing, so this should exceed a few pacing intervals.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error, fatal, panic).
	Level string `mapstructure:"level"`
	// Format is the log format (json, console).
	Format string `mapstructure:"format"`
	// Output is the log output destination (stdout, stderr).
	Output string `mapstructure:"output"`
	// AddSource adds source file and line to log output.
	AddSource bool `mapstructure:"add_source"`
	// TimeFormat is the timestamp format.
	TimeFormat string `mapstructure:"time_format"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	// Enabled enables metrics collection and exposure.
	Enabled bool `mapstructure:"enabled"`
	// Path is the HTTP path for metrics endpoint.
	Path string `mapstructure:"path"`
}

// CatalogConfig holds catalog API client configuration. The API key is not
// part of it; it is looked up per request through Settings.
type CatalogConfig struct {
	// BaseURL is the catalog API base URL.
	BaseURL string `mapstructure:"base_url"`
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `mapstructure:"timeout"`
	// UserAgent is sent with every catalog request.
	UserAgent string `mapstructure:"user_agent"`
	// MaxBodyBytes caps the size of a catalog response body.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
	// SearchLimit is the number of issues requested per issue search.
	SearchLimit int `mapstructure:"search_limit"`
	// VolumeSearchLimit is the number of volumes requested per volume search.
	VolumeSearchLimit int `mapstructure:"volume_search_limit"`
}

// RateLimitConfig holds the catalog quota and pacing configuration.
type RateLimitConfig struct {
	// Capacity is the number of requests allowed per endpoint per window.
	Capacity int `mapstructure:"capacity"`
	// Window is the rolling quota window.
	Window time.Duration `mapstructure:"window"`
	// PacingInterval is the minimum spacing between any two catalog
	// requests. Zero disables pacing.
	PacingInterval time.Duration `mapstructure:"pacing_interval"`
}

// SearchConfig holds search orchestration configuration.
type SearchConfig struct {
	// MaxVolumeProbes is the number of top-ranked volumes probed by the
	// enhanced search.
	MaxVolumeProbes int `mapstructure:"max_volume_probes"`
}

// HTTPAddress returns the HTTP server address.
func (c *ServerConfig) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read from environment variables
	bindEnv(v)

	// Read config file if present
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/comic-metadata-service")

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use env vars and defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// into the process environment. Variables already set are kept, and
// missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Settings is the host settings lookup backed by the environment. Values are
// read on every lookup, so a rotated API key takes effect without a restart.
// Config files are never consulted for secrets.
type Settings struct {
	v *viper.Viper
}

var _ domain.Settings = (*Settings)(nil)

// NewSettings creates an environment-backed settings lookup. The catalog
// API key is read from COMICMATCH_CATALOG_API_KEY.
func NewSettings() *Settings {
	v := viper.New()
	bindEnv(v)
	return &Settings{v: v}
}

// Lookup implements domain.Settings. Blank values count as unset.
func (s *Settings) Lookup(key string) (string, bool) {
	value := strings.TrimSpace(s.v.GetString(key))
	return value, value != ""
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Catalog defaults
	v.SetDefault("catalog.base_url", "https://comicvine.gamespot.com/api")
	v.SetDefault("catalog.timeout", "30s")
	v.SetDefault("catalog.user_agent", "Helixir-ComicMetadataService/1.0")
	v.SetDefault("catalog.max_body_bytes", 10<<20)
	v.SetDefault("catalog.search_limit", 10)
	v.SetDefault("catalog.volume_search_limit", 20)

	// Rate limit defaults: the catalog allows 200 requests per resource per
	// hour and asks for roughly one request per second.
	v.SetDefault("rate_limit.capacity", 200)
	v.SetDefault("rate_limit.window", "1h")
	v.SetDefault("rate_limit.pacing_interval", "1s")

	// Search defaults
	v.SetDefault("search.max_volume_probes", 5)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Server.HTTPPort)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown timeout must not be negative")
	}

	// Validate logging config
	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	// Validate metrics config
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics path must start with /: %q", c.Metrics.Path)
	}

	// Validate catalog config
	u, err := url.Parse(c.Catalog.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid catalog base URL: %q", c.Catalog.BaseURL)
	}
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("catalog timeout must be positive")
	}
	if c.Catalog.SearchLimit < 1 || c.Catalog.SearchLimit > 100 {
		return fmt.Errorf("catalog search_limit must be between 1 and 100, got %d", c.Catalog.SearchLimit)
	}
	if c.Catalog.VolumeSearchLimit < 1 || c.Catalog.VolumeSearchLimit > 100 {
		return fmt.Errorf("catalog volume_search_limit must be between 1 and 100, got %d", c.Catalog.VolumeSearchLimit)
	}

	// Validate rate limit config
	if c.RateLimit.Capacity <= 0 {
		return fmt.Errorf("rate_limit capacity must be positive")
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit window must be positive")
	}
	if c.RateLimit.PacingInterval < 0 {
		return fmt.Errorf("rate_limit pacing_interval must not be negative")
	}

	// Validate search config
	if c.Search.MaxVolumeProbes < 1 || c.Search.MaxVolumeProbes > 20 {
		return fmt.Errorf("search max_volume_probes must be between 1 and 20, got %d", c.Search.MaxVolumeProbes)
	}

	return nil
}
