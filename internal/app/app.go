// Package app assembles the catalog client, rate limiter and search service
// from loaded configuration. Both the HTTP server and the CLI build on it.
package app

import (
	"github.com/rs/zerolog"

	"github.com/helixir/comic-metadata-service/internal/catalog"
	"github.com/helixir/comic-metadata-service/internal/catalog/comicvine"
	"github.com/helixir/comic-metadata-service/internal/config"
	"github.com/helixir/comic-metadata-service/internal/domain"
	"github.com/helixir/comic-metadata-service/internal/observability"
	"github.com/helixir/comic-metadata-service/internal/search"
)

// Components are the wired service parts.
type Components struct {
	Limiter *catalog.RateLimiter
	Client  *comicvine.Client
	Search  *search.Service
}

// Options carries optional collaborators. Zero values select defaults.
type Options struct {
	// Metrics receives observations from every layer when set.
	Metrics *observability.Metrics
	// Fetcher replaces the HTTP fetcher.
	Fetcher catalog.Fetcher
	// Settings replaces the environment-backed settings lookup.
	Settings domain.Settings
	// LimiterOptions are appended after the configured limiter options.
	LimiterOptions []catalog.Option
}

// New wires the catalog and search layers from cfg.
func New(cfg *config.Config, logger zerolog.Logger, opts Options) *Components {
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = catalog.NewHTTPFetcher(catalog.HTTPFetcherConfig{
			Timeout:      cfg.Catalog.Timeout,
			UserAgent:    cfg.Catalog.UserAgent,
			MaxBodyBytes: cfg.Catalog.MaxBodyBytes,
			Source:       "comicvine",
		})
	}

	settings := opts.Settings
	if settings == nil {
		settings = config.NewSettings()
	}

	limiterOpts := []catalog.Option{
		catalog.WithCapacity(cfg.RateLimit.Capacity),
		catalog.WithWindow(cfg.RateLimit.Window),
		catalog.WithPacingInterval(cfg.RateLimit.PacingInterval),
	}
	var clientOpts []comicvine.Option
	searchOpts := []search.Option{
		search.WithMaxVolumeProbes(cfg.Search.MaxVolumeProbes),
	}
	if opts.Metrics != nil {
		limiterOpts = append(limiterOpts, catalog.WithMetrics(opts.Metrics))
		clientOpts = append(clientOpts, comicvine.WithMetrics(opts.Metrics))
		searchOpts = append(searchOpts, search.WithMetrics(opts.Metrics))
	}
	limiterOpts = append(limiterOpts, opts.LimiterOptions...)

	limiter := catalog.NewRateLimiter(limiterOpts...)
	client := comicvine.New(comicvine.Config{
		BaseURL:           cfg.Catalog.BaseURL,
		SearchLimit:       cfg.Catalog.SearchLimit,
		VolumeSearchLimit: cfg.Catalog.VolumeSearchLimit,
	}, fetcher, limiter, settings, logger, clientOpts...)

	return &Components{
		Limiter: limiter,
		Client:  client,
		Search:  search.NewService(client, limiter, logger, searchOpts...),
	}
}
