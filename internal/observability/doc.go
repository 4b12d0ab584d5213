// Package observability provides logging and metrics support for the comic
// metadata service.
//
// # Logging
//
// Create a logger from configuration:
//
//	logger := observability.NewLogger(observability.LoggingConfig{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stdout",
//	})
//	logger.Info().Str("series", "Saga").Msg("search started")
//
// Add query or request fields:
//
//	logger = observability.WithQueryContext(logger, q.Series, q.IssueNumber, q.Year)
//	logger = observability.LoggerFromContext(ctx, logger)
//
// # Metrics
//
// Metrics are registered with the default Prometheus registry on creation:
//
//	metrics := observability.NewMetrics("comicmatch")
//
// The Metrics type satisfies the small recorder interfaces declared by the
// rate limiter, the catalog client and the search service, so it is passed
// to each of them through their WithMetrics options.
//
// # Standard Fields
//
//   - request_id: HTTP request identifier
//   - correlation_id: caller-supplied correlation identifier
//   - component: emitting component (comicvine, search, http)
//   - endpoint: catalog endpoint tag (search, issue, issues, volume, volumes)
//   - series, issue_number, year: search query fields
//   - issue_id, volume_id: catalog identifiers
package observability
