// Package comicvine is the catalog client for the ComicVine API. Every call
// is validated, checked for an API key, admitted by the shared rate limiter
// and then fetched through the injected catalog.Fetcher.
package comicvine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/helixir/comic-metadata-service/internal/catalog"
	"github.com/helixir/comic-metadata-service/internal/domain"
	"github.com/helixir/comic-metadata-service/internal/matching"
	"github.com/helixir/comic-metadata-service/internal/observability"
)

const (
	// DefaultBaseURL is the default catalog API base URL.
	DefaultBaseURL = "https://comicvine.gamespot.com/api"

	// DefaultSearchLimit is the default number of issues requested per search.
	DefaultSearchLimit = 10

	// DefaultVolumeSearchLimit is the default number of volumes requested per search.
	DefaultVolumeSearchLimit = 20

	// maxLimit is the catalog's page size ceiling.
	maxLimit = 100

	sourceName = "ComicVine"
)

// Endpoint tags used for rate limiting and metrics.
const (
	TagSearch  = "search"
	TagIssue   = "issue"
	TagIssues  = "issues"
	TagVolume  = "volume"
	TagVolumes = "volumes"
)

// Resource type prefixes used in detail paths.
const (
	issueTypePrefix  = "4000"
	volumeTypePrefix = "4050"
)

const (
	issueListFields   = "id,name,issue_number,cover_date,image,description,deck,volume,site_detail_url"
	issueDetailFields = issueListFields + ",store_date,person_credits,character_credits,team_credits,location_credits,story_arc_credits"
	volumeFields      = "id,name,start_year,publisher,count_of_issues,image,description,deck,site_detail_url"
	volumeIssueFields = volumeFields + ",issues"
)

// Limiter admits requests per endpoint tag.
type Limiter interface {
	Acquire(ctx context.Context, tag string) error
}

// RequestMetrics receives per-request observations.
type RequestMetrics interface {
	RecordCatalogRequest(endpoint string, durationSeconds float64)
	RecordCatalogRequestFailed(endpoint, errorType string)
}

type noopRequestMetrics struct{}

func (noopRequestMetrics) RecordCatalogRequest(string, float64)      {}
func (noopRequestMetrics) RecordCatalogRequestFailed(string, string) {}

// Config holds configuration for the catalog client.
type Config struct {
	// BaseURL is the catalog API base URL.
	// Defaults to https://comicvine.gamespot.com/api
	BaseURL string

	// SearchLimit is the number of issues requested per issue search.
	// Defaults to 10, capped at 100.
	SearchLimit int

	// VolumeSearchLimit is the number of volumes requested per volume search.
	// Defaults to 20, capped at 100.
	VolumeSearchLimit int
}

// applyDefaults sets default values for unset configuration fields.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.SearchLimit <= 0 {
		c.SearchLimit = DefaultSearchLimit
	}
	c.SearchLimit = min(c.SearchLimit, maxLimit)
	if c.VolumeSearchLimit <= 0 {
		c.VolumeSearchLimit = DefaultVolumeSearchLimit
	}
	c.VolumeSearchLimit = min(c.VolumeSearchLimit, maxLimit)
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics sets the request metrics sink.
func WithMetrics(m RequestMetrics) Option {
	return func(c *Client) {
		if m != nil {
			c.metrics = m
		}
	}
}

// Client performs the catalog operations. It is safe for concurrent use.
type Client struct {
	config   Config
	fetcher  catalog.Fetcher
	limiter  Limiter
	settings domain.Settings
	logger   zerolog.Logger
	metrics  RequestMetrics
}

// New creates a catalog client.
func New(cfg Config, fetcher catalog.Fetcher, limiter Limiter, settings domain.Settings, logger zerolog.Logger, opts ...Option) *Client {
	cfg.applyDefaults()
	c := &Client{
		config:   cfg,
		fetcher:  fetcher,
		limiter:  limiter,
		settings: settings,
		logger:   logger.With().Str("component", "comicvine").Logger(),
		metrics:  noopRequestMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchIssues runs a free-text issue search for the series, with the issue
// number appended when given. A failed or malformed response yields an
// empty list.
func (c *Client) SearchIssues(ctx context.Context, series, issueNumber string) ([]domain.IssueCandidate, error) {
	series = strings.TrimSpace(series)
	if series == "" {
		return nil, domain.NewValidationError("series", "is required")
	}

	query := series
	if n := matching.CleanIssueNumber(issueNumber); n != "" {
		query += " " + n
	}

	params := url.Values{}
	params.Set("resources", "issue")
	params.Set("query", query)
	params.Set("field_list", issueListFields)
	params.Set("limit", strconv.Itoa(c.config.SearchLimit))

	body, err := c.get(ctx, TagSearch, "search/", params)
	if err != nil {
		return nil, err
	}

	issues := decodeList[Issue](c.requestLogger(ctx), TagSearch, body)
	candidates := make([]domain.IssueCandidate, 0, len(issues))
	for i := range issues {
		candidates = append(candidates, issueToCandidate(&issues[i]))
	}
	return candidates, nil
}

// SearchVolumes finds volumes whose name matches the series. A failed or
// malformed response yields an empty list.
func (c *Client) SearchVolumes(ctx context.Context, series string) ([]domain.VolumeCandidate, error) {
	series = strings.TrimSpace(series)
	if series == "" {
		return nil, domain.NewValidationError("series", "is required")
	}

	params := url.Values{}
	// Commas separate filter clauses.
	params.Set("filter", "name:"+strings.ReplaceAll(series, ",", " "))
	params.Set("field_list", volumeFields)
	params.Set("limit", strconv.Itoa(c.config.VolumeSearchLimit))
	params.Set("sort", "count_of_issues:desc")

	body, err := c.get(ctx, TagVolumes, "volumes/", params)
	if err != nil {
		return nil, err
	}

	volumes := decodeList[Volume](c.requestLogger(ctx), TagVolumes, body)
	candidates := make([]domain.VolumeCandidate, 0, len(volumes))
	for i := range volumes {
		candidates = append(candidates, volumeToCandidate(&volumes[i]))
	}
	return candidates, nil
}

// GetIssueByVolumeAndNumber looks up one issue inside a volume. Matching
// results whose cover URL is not an absolute http(s) URL are skipped; the
// issue is not found when no matching result remains.
func (c *Client) GetIssueByVolumeAndNumber(ctx context.Context, volumeID int, issueNumber string) (*domain.IssueCandidate, error) {
	if volumeID <= 0 {
		return nil, domain.NewValidationError("volume_id", "must be positive")
	}
	number := matching.CleanIssueNumber(issueNumber)
	if number == "" {
		return nil, domain.NewValidationError("issue_number", "is required")
	}
	id := fmt.Sprintf("volume %d issue %s", volumeID, number)

	params := url.Values{}
	params.Set("filter", fmt.Sprintf("volume:%d,issue_number:%s", volumeID, strings.ReplaceAll(number, ",", "")))
	params.Set("field_list", issueListFields)
	params.Set("limit", "10")

	body, err := c.get(ctx, TagIssues, "issues/", params)
	if err != nil {
		return nil, err
	}

	found, err := decodeDetail[[]Issue](body, "issue", id)
	if err != nil {
		return nil, err
	}

	log := observability.WithVolumeContext(c.requestLogger(ctx), volumeID)
	issues := *found
	for i := range issues {
		if !matching.IssueNumbersMatch(number, issues[i].IssueNumber) {
			continue
		}
		candidate := issueToCandidate(&issues[i])
		if candidate.CoverURL != "" && !validCoverURL(candidate.CoverURL) {
			issueLog := observability.WithIssueContext(log, candidate.ID)
			issueLog.Debug().
				Str("issue_number", number).
				Str("cover_url", candidate.CoverURL).
				Msg("skipping match with invalid cover URL")
			continue
		}
		return &candidate, nil
	}
	return nil, domain.NewNotFoundError("issue", id)
}

// GetIssueDetails fetches full metadata for one issue.
func (c *Client) GetIssueDetails(ctx context.Context, issueID int) (*domain.IssueMetadata, error) {
	if issueID <= 0 {
		return nil, domain.NewValidationError("issue_id", "must be positive")
	}

	params := url.Values{}
	params.Set("field_list", issueDetailFields)

	body, err := c.get(ctx, TagIssue, detailPath("issue", issueTypePrefix, issueID), params)
	if err != nil {
		return nil, err
	}

	issue, err := decodeDetail[Issue](body, "issue", strconv.Itoa(issueID))
	if err != nil {
		return nil, err
	}

	var volume *Volume
	if issue.Volume != nil && issue.Volume.ID > 0 {
		volume, err = c.getVolume(ctx, issue.Volume.ID, volumeFields)
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return nil, err
		default:
			log := observability.WithIssueContext(c.requestLogger(ctx), issueID)
			volumeLog := observability.WithVolumeContext(log, issue.Volume.ID)
			volumeLog.Warn().Err(err).
				Msg("volume lookup failed, metadata will lack publisher")
		}
	}

	return buildMetadata(issue, volume), nil
}

// GetVolumeIssues lists a volume's issues ordered by issue number. A failed
// or malformed response yields an empty list.
func (c *Client) GetVolumeIssues(ctx context.Context, volumeID int) ([]domain.IssueCandidate, error) {
	if volumeID <= 0 {
		return nil, domain.NewValidationError("volume_id", "must be positive")
	}

	params := url.Values{}
	params.Set("field_list", volumeIssueFields)

	body, err := c.get(ctx, TagVolume, detailPath("volume", volumeTypePrefix, volumeID), params)
	if err != nil {
		return nil, err
	}

	volume, err := decodeDetail[Volume](body, "volume", strconv.Itoa(volumeID))
	if err != nil {
		volumeLog := observability.WithVolumeContext(c.requestLogger(ctx), volumeID)
		volumeLog.Warn().Err(err).
			Msg("volume issue listing unavailable")
		return []domain.IssueCandidate{}, nil
	}

	return volumeIssues(volume), nil
}

func (c *Client) getVolume(ctx context.Context, volumeID int, fields string) (*Volume, error) {
	params := url.Values{}
	params.Set("field_list", fields)

	body, err := c.get(ctx, TagVolume, detailPath("volume", volumeTypePrefix, volumeID), params)
	if err != nil {
		return nil, err
	}
	return decodeDetail[Volume](body, "volume", strconv.Itoa(volumeID))
}

// requestLogger returns the client logger with the request IDs carried by ctx.
func (c *Client) requestLogger(ctx context.Context) zerolog.Logger {
	return observability.LoggerFromContext(ctx, c.logger)
}

// get resolves the API key, waits for the limiter and fetches path. Nothing
// touches the network when the key is missing.
func (c *Client) get(ctx context.Context, tag, path string, params url.Values) (string, error) {
	apiKey, ok := c.settings.Lookup(domain.SettingAPIKey)
	if !ok {
		return "", domain.NewConfigurationError(domain.SettingAPIKey, "catalog API key is not configured")
	}

	requestURL, err := c.buildURL(path, apiKey, params)
	if err != nil {
		return "", fmt.Errorf("building %s URL: %w", tag, err)
	}

	if err := c.limiter.Acquire(ctx, tag); err != nil {
		var rle *domain.RateLimitError
		if errors.As(err, &rle) {
			c.metrics.RecordCatalogRequestFailed(tag, "rate_limited")
		}
		return "", err
	}

	start := time.Now()
	body, err := c.fetcher.Fetch(ctx, requestURL)
	c.metrics.RecordCatalogRequest(tag, time.Since(start).Seconds())
	if err != nil {
		c.metrics.RecordCatalogRequestFailed(tag, "transport")
		return "", fmt.Errorf("fetching %s: %w", tag, err)
	}
	return body, nil
}

func (c *Client) buildURL(path, apiKey string, params url.Values) (string, error) {
	u, err := url.Parse(c.config.BaseURL + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}

	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("api_key", apiKey)
	query.Set("format", "json")

	u.RawQuery = query.Encode()
	return u.String(), nil
}

func detailPath(resource, prefix string, id int) string {
	return fmt.Sprintf("%s/%s-%d/", resource, prefix, id)
}

func decodeEnvelope(body string) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return nil, fmt.Errorf("decoding envelope: %w", err)
	}
	return &env, nil
}

// decodeList decodes a search-style response. Every failure degrades to an
// empty list and a warning.
func decodeList[T any](logger zerolog.Logger, tag, body string) []T {
	env, err := decodeEnvelope(body)
	if err != nil {
		logger.Warn().Err(err).Str("endpoint", tag).Msg("malformed catalog response")
		return nil
	}
	if env.StatusCode != StatusOK {
		logger.Warn().
			Str("endpoint", tag).
			Int("status_code", env.StatusCode).
			Str("status", statusName(env.StatusCode)).
			Str("error", env.Error).
			Msg("catalog returned non-success status")
		return nil
	}
	if !env.hasResults() {
		return nil
	}

	var items []T
	if err := json.Unmarshal(env.Results, &items); err != nil {
		logger.Warn().Err(err).Str("endpoint", tag).Msg("malformed catalog results")
		return nil
	}
	return items
}

// decodeDetail decodes a single-object response. A non-success status or an
// empty result is not found; an undecodable body is malformed.
func decodeDetail[T any](body, entity, id string) (*T, error) {
	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, domain.NewMalformedResponseError(sourceName, err)
	}
	if env.StatusCode != StatusOK || !env.hasResults() {
		return nil, domain.NewNotFoundError(entity, id)
	}

	var item T
	if err := json.Unmarshal(env.Results, &item); err != nil {
		return nil, domain.NewMalformedResponseError(sourceName, fmt.Errorf("decoding %s: %w", entity, err))
	}
	return &item, nil
}

// validCoverURL accepts absolute http and https URLs.
func validCoverURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
