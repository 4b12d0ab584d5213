package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/helixir/comic-metadata-service/internal/domain"
)

const (
	// DefaultFetchTimeout is the default request timeout.
	DefaultFetchTimeout = 30 * time.Second

	// DefaultUserAgent is sent when no User-Agent is configured. The catalog
	// rejects requests without one.
	DefaultUserAgent = "Helixir-ComicMetadataService/1.0"

	// DefaultMaxBodyBytes caps how much of a response body is read.
	DefaultMaxBodyBytes = 10 << 20
)

// Fetcher retrieves the body of a URL as text.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) (string, error)

// Fetch calls f(ctx, url).
func (f FetcherFunc) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// HTTPFetcherConfig configures the HTTP fetcher.
type HTTPFetcherConfig struct {
	// Timeout is the request timeout for HTTP operations.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string

	// MaxBodyBytes limits the response body size. Larger bodies are truncated
	// and will usually fail to decode.
	MaxBodyBytes int64

	// Source names the upstream in errors.
	Source string
}

func (c *HTTPFetcherConfig) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = DefaultFetchTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Source == "" {
		c.Source = "catalog"
	}
}

// HTTPFetcher is a Fetcher backed by net/http. It performs exactly one
// request per call; pacing and retries belong to the caller.
// It is safe for concurrent use.
type HTTPFetcher struct {
	client *http.Client
	config HTTPFetcherConfig
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher creates a new HTTP fetcher.
func NewHTTPFetcher(cfg HTTPFetcherConfig) *HTTPFetcher {
	cfg.applyDefaults()
	return &HTTPFetcher{
		client: &http.Client{Timeout: cfg.Timeout},
		config: cfg,
	}
}

// NewHTTPFetcherWithClient creates an HTTP fetcher around a custom client.
// This is useful for testing with mock servers.
func NewHTTPFetcherWithClient(cfg HTTPFetcherConfig, client *http.Client) *HTTPFetcher {
	cfg.applyDefaults()
	return &HTTPFetcher{client: client, config: cfg}
}

// Fetch performs a GET request and returns the response body. Context
// errors are returned as is; other transport failures and non-2xx
// responses are reported as *domain.ExternalAPIError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", domain.NewExternalAPIError(f.config.Source, 0, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodyBytes))
	if err != nil {
		return "", domain.NewExternalAPIError(f.config.Source, resp.StatusCode, "reading response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", domain.NewExternalAPIError(f.config.Source, resp.StatusCode, summarize(body), nil)
	}
	return string(body), nil
}

// summarize returns a short single-line excerpt of an error body.
func summarize(body []byte) string {
	const limit = 200
	s := strings.Join(strings.Fields(string(body)), " ")
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	if s == "" {
		return "empty response"
	}
	return s
}
