// Package search exposes the matching operations to hosts: ranked issue and
// volume searches, the volume-enhanced search, issue metadata lookup, volume
// issue listings and the rate limit snapshot.
package search

import (
	"cmp"
	"context"
	"slices"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/helixir/comic-metadata-service/internal/domain"
	"github.com/helixir/comic-metadata-service/internal/matching"
	"github.com/helixir/comic-metadata-service/internal/observability"
	"github.com/helixir/comic-metadata-service/internal/syncutil"
)

// Search strategies reported to metrics.
const (
	StrategyDirect   = "direct"
	StrategyFallback = "fallback"
	StrategyVolume   = "volume"
	StrategyVolumes  = "volumes"
)

// Catalog is the set of catalog operations the service builds on.
type Catalog interface {
	SearchIssues(ctx context.Context, series, issueNumber string) ([]domain.IssueCandidate, error)
	SearchVolumes(ctx context.Context, series string) ([]domain.VolumeCandidate, error)
	GetIssueByVolumeAndNumber(ctx context.Context, volumeID int, issueNumber string) (*domain.IssueCandidate, error)
	GetIssueDetails(ctx context.Context, issueID int) (*domain.IssueMetadata, error)
	GetVolumeIssues(ctx context.Context, volumeID int) ([]domain.IssueCandidate, error)
}

// StatusReporter reports per-endpoint quota usage.
type StatusReporter interface {
	Status() []domain.EndpointStatus
}

// Metrics receives search observations.
type Metrics interface {
	RecordSearch(strategy string, candidates int)
}

type noopMetrics struct{}

func (noopMetrics) RecordSearch(string, int) {}

// Option configures a Service.
type Option func(*Service)

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithMaxVolumeProbes sets how many top-ranked volumes the enhanced search
// probes for the requested issue. Defaults to 5.
func WithMaxVolumeProbes(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxVolumeProbes = n
		}
	}
}

// Service implements the exposed search operations. It is safe for
// concurrent use; the only state shared between calls is the catalog's rate
// limiter and the in-flight metadata lookups.
type Service struct {
	catalog         Catalog
	status          StatusReporter
	logger          zerolog.Logger
	metrics         Metrics
	maxVolumeProbes int

	metadata singleflight.Group
	flightMu syncutil.Mutex
	flights  map[string]*metadataFlight
}

// metadataFlight is the context a shared metadata lookup runs under. It is
// detached from every caller and cancelled once no caller is waiting.
type metadataFlight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// NewService creates a search service.
func NewService(catalog Catalog, status StatusReporter, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		catalog:         catalog,
		status:          status,
		logger:          logger.With().Str("component", "search").Logger(),
		metrics:         noopMetrics{},
		maxVolumeProbes: DefaultMaxVolumeProbes,
		flights:         make(map[string]*metadataFlight),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SearchIssues runs a plain issue search and ranks the results by issue
// score, highest first.
func (s *Service) SearchIssues(ctx context.Context, q domain.SearchQuery) ([]domain.IssueCandidate, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return s.searchIssues(ctx, q.Normalized(), StrategyDirect)
}

func (s *Service) searchIssues(ctx context.Context, q domain.SearchQuery, strategy string) ([]domain.IssueCandidate, error) {
	candidates, err := s.catalog.SearchIssues(ctx, q.Series, q.IssueNumber)
	if err != nil {
		return nil, err
	}

	log := s.queryLogger(ctx, q)
	for i := range candidates {
		candidates[i].Score = matching.IssueScore(q.Series, q.IssueNumber, q.Year, candidates[i])
		candidateLog := observability.WithIssueContext(log, candidates[i].ID)
		candidateLog.Debug().
			Str("candidate_series", candidates[i].SeriesName).
			Str("candidate_issue_number", candidates[i].IssueNumber).
			Float64("score", candidates[i].Score).
			Msg("scored issue candidate")
	}
	slices.SortStableFunc(candidates, func(a, b domain.IssueCandidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	s.metrics.RecordSearch(strategy, len(candidates))
	return candidates, nil
}

// SearchVolumes finds volumes for the series and ranks them by volume score.
// year is zero when not provided.
func (s *Service) SearchVolumes(ctx context.Context, series string, year int) ([]domain.VolumeCandidate, error) {
	q := domain.SearchQuery{Series: series, Year: year}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	q = q.Normalized()

	volumes, err := s.catalog.SearchVolumes(ctx, q.Series)
	if err != nil {
		return nil, err
	}
	ranked := rankVolumes(q, volumes)
	s.metrics.RecordSearch(StrategyVolumes, len(ranked))
	return ranked, nil
}

// GetIssueMetadata fetches full metadata for an issue. Concurrent lookups of
// the same issue share one catalog round trip. Each caller stops waiting when
// its own context ends; the shared lookup is cancelled only after every
// waiting caller has gone.
func (s *Service) GetIssueMetadata(ctx context.Context, issueID int) (*domain.IssueMetadata, error) {
	if issueID <= 0 {
		return nil, domain.NewValidationError("issue_id", "must be positive")
	}

	log := observability.WithIssueContext(observability.LoggerFromContext(ctx, s.logger), issueID)
	key := strconv.Itoa(issueID)
	flight, ch := s.joinMetadataFlight(ctx, key, issueID)
	defer s.leaveMetadataFlight(key, flight)

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Debug().Msg("shared in-flight metadata lookup")
		}
		return res.Val.(*domain.IssueMetadata).Clone(), nil
	case <-ctx.Done():
		log.Debug().Err(ctx.Err()).Msg("stopped waiting for metadata lookup")
		return nil, ctx.Err()
	}
}

// joinMetadataFlight registers the caller with the lookup for key, starting
// one when none is running. A new lookup keeps the starting caller's context
// values but not its cancellation.
func (s *Service) joinMetadataFlight(ctx context.Context, key string, issueID int) (*metadataFlight, <-chan singleflight.Result) {
	s.flightMu.Lock()
	defer s.flightMu.Unlock()

	f, ok := s.flights[key]
	if !ok {
		flightCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &metadataFlight{ctx: flightCtx, cancel: cancel}
		s.flights[key] = f
	}
	f.waiters++

	ch := s.metadata.DoChan(key, func() (any, error) {
		defer s.endMetadataFlight(key, f)
		return s.catalog.GetIssueDetails(f.ctx, issueID)
	})
	return f, ch
}

// leaveMetadataFlight drops the caller from f. The last caller out cancels
// the lookup and forgets it so later callers start afresh.
func (s *Service) leaveMetadataFlight(key string, f *metadataFlight) {
	s.flightMu.Lock()
	defer s.flightMu.Unlock()

	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if s.flights[key] == f {
		delete(s.flights, key)
		s.metadata.Forget(key)
	}
}

func (s *Service) endMetadataFlight(key string, f *metadataFlight) {
	s.flightMu.Lock()
	defer s.flightMu.Unlock()

	if s.flights[key] == f {
		delete(s.flights, key)
	}
}

// queryLogger returns the service logger with the caller's request IDs and
// the query fields attached.
func (s *Service) queryLogger(ctx context.Context, q domain.SearchQuery) zerolog.Logger {
	return observability.WithQueryContext(observability.LoggerFromContext(ctx, s.logger), q.Series, q.IssueNumber, q.Year)
}

// GetVolumeIssues lists a volume's issues ordered by issue number.
func (s *Service) GetVolumeIssues(ctx context.Context, volumeID int) ([]domain.IssueCandidate, error) {
	if volumeID <= 0 {
		return nil, domain.NewValidationError("volume_id", "must be positive")
	}
	return s.catalog.GetVolumeIssues(ctx, volumeID)
}

// RateLimitStatus returns the per-endpoint quota snapshot.
func (s *Service) RateLimitStatus() []domain.EndpointStatus {
	if s.status == nil {
		return []domain.EndpointStatus{}
	}
	return s.status.Status()
}
