package search

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/helixir/comic-metadata-service/internal/domain"
	"github.com/helixir/comic-metadata-service/internal/matching"
	"github.com/helixir/comic-metadata-service/internal/observability"
)

const (
	// DefaultMaxVolumeProbes is the number of top-ranked volumes probed for
	// the requested issue.
	DefaultMaxVolumeProbes = 5

	// confidentVolumeScore ends probing once a hit comes from a volume
	// scoring at least this much.
	confidentVolumeScore = 0.9

	combinedBase        = 0.30
	combinedVolumeScale = 0.50
	combinedHitBonus    = 0.10
	exactYearBonus      = 0.10
	nearYearBonus       = 0.05
)

// SearchEnhanced locates an issue through its volume. Volumes matching the
// series are ranked, the best few are probed in order for the issue number,
// and the hits are returned by combined score. Without an issue number, or
// when no volume yields the issue, it falls back to a plain issue search.
func (s *Service) SearchEnhanced(ctx context.Context, q domain.SearchQuery) ([]domain.IssueCandidate, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	q = q.Normalized()

	if !q.HasIssueNumber() {
		return s.searchIssues(ctx, q, StrategyDirect)
	}

	log := s.queryLogger(ctx, q)
	volumes, err := s.catalog.SearchVolumes(ctx, q.Series)
	if err != nil {
		return nil, err
	}
	if len(volumes) == 0 {
		log.Debug().Msg("no volumes found, falling back to issue search")
		return s.searchIssues(ctx, q, StrategyFallback)
	}

	ranked := rankVolumes(q, volumes)
	top := ranked[:min(len(ranked), s.maxVolumeProbes)]

	hits, err := s.probeVolumes(ctx, q, top)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		log.Debug().
			Int("volumes_probed", len(top)).
			Msg("no volume produced the issue, falling back to issue search")
		return s.searchIssues(ctx, q, StrategyFallback)
	}

	slices.SortStableFunc(hits, func(a, b domain.IssueCandidate) int {
		return cmp.Compare(b.Score, a.Score)
	})
	s.metrics.RecordSearch(StrategyVolume, len(hits))
	return hits, nil
}

// probeVolumes asks each volume in turn for the requested issue. Probing is
// sequential so that quota use stays bounded and predictable.
func (s *Service) probeVolumes(ctx context.Context, q domain.SearchQuery, volumes []domain.VolumeCandidate) ([]domain.IssueCandidate, error) {
	var hits []domain.IssueCandidate
	queryLog := s.queryLogger(ctx, q)
	for _, v := range volumes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log := observability.WithVolumeContext(queryLog, v.ID)
		issue, err := s.catalog.GetIssueByVolumeAndNumber(ctx, v.ID, q.IssueNumber)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrNotFound):
			continue
		case abortsProbing(err):
			return nil, err
		default:
			log.Warn().Err(err).Msg("volume probe failed, trying next volume")
			continue
		}

		hit := *issue
		hit.SeriesName = v.Name
		hit.Publisher = v.Publisher
		hit.VolumeID = v.ID
		hit.VolumeStartYear = v.StartYear
		hit.VolumeIssueCount = v.IssueCount
		hit.Score = combinedScore(v.Score, q, hit.CoverYear)
		hits = append(hits, hit)

		hitLog := observability.WithIssueContext(log, hit.ID)
		hitLog.Debug().
			Float64("volume_score", v.Score).
			Float64("score", hit.Score).
			Msg("volume probe hit")

		if v.Score >= confidentVolumeScore {
			break
		}
	}
	return hits, nil
}

// abortsProbing reports whether a probe error ends the whole search instead
// of moving on to the next volume.
func abortsProbing(err error) bool {
	return errors.Is(err, domain.ErrRateLimited) ||
		errors.Is(err, domain.ErrConfiguration) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// rankVolumes scores every volume and sorts them best first, breaking ties
// by volume ID.
func rankVolumes(q domain.SearchQuery, volumes []domain.VolumeCandidate) []domain.VolumeCandidate {
	ranked := slices.Clone(volumes)
	for i := range ranked {
		ranked[i].Score = matching.VolumeScore(q.Series, q.Year, ranked[i])
	}
	slices.SortStableFunc(ranked, func(a, b domain.VolumeCandidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return ranked
}

// combinedScore scores a hit from its volume's score and how well its cover
// year matches the query year.
func combinedScore(volumeScore float64, q domain.SearchQuery, coverYear *int) float64 {
	var yearBonus float64
	if q.HasYear() && coverYear != nil {
		switch diff := q.Year - *coverYear; diff {
		case 0:
			yearBonus = exactYearBonus
		case 1, -1:
			yearBonus = nearYearBonus
		}
	}
	return min(1.0, combinedBase+volumeScore*combinedVolumeScale+yearBonus+combinedHitBonus)
}
