// Package main provides the entry point for the comic metadata HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/helixir/comic-metadata-service/internal/app"
	"github.com/helixir/comic-metadata-service/internal/config"
	"github.com/helixir/comic-metadata-service/internal/domain"
	"github.com/helixir/comic-metadata-service/internal/observability"
	httpserver "github.com/helixir/comic-metadata-service/internal/server/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Pick up a local .env before reading any settings.
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Set up structured logging.
	baseLogger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger := baseLogger.With().Str("component", "server").Logger()
	logger.Info().Msg("comic-metadata-service starting")

	if _, ok := config.NewSettings().Lookup(domain.SettingAPIKey); !ok {
		logger.Warn().Msg("catalog API key is not set; catalog requests will fail until it is configured")
	}

	// Set up context with graceful shutdown via OS signals.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var opts app.Options
	metricsPath := ""
	if cfg.Metrics.Enabled {
		opts.Metrics = observability.NewMetrics("comicmatch")
		metricsPath = cfg.Metrics.Path
	}
	components := app.New(cfg, baseLogger, opts)

	httpCfg := httpserver.Config{
		Address:         cfg.Server.HTTPAddress(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     2 * time.Minute,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		MetricsPath:     metricsPath,
	}
	httpSrv := httpserver.NewServer(httpCfg, components.Search, baseLogger)

	// Channel to collect server errors.
	errCh := make(chan error, 1)

	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	readyLog := logger.Info().
		Str("http_address", httpCfg.Address).
		Str("catalog_base_url", cfg.Catalog.BaseURL).
		Int("rate_limit_capacity", cfg.RateLimit.Capacity).
		Dur("rate_limit_window", cfg.RateLimit.Window)
	if metricsPath != "" {
		readyLog = readyLog.Str("metrics_path", metricsPath)
	}
	readyLog.Msg("comic-metadata-service is ready")

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		logger.Info().Msg("received shutdown signal")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	// Graceful shutdown.
	logger.Info().Msg("shutting down comic-metadata-service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}

	logger.Info().Msg("comic-metadata-service shutdown complete")
	return nil
}
