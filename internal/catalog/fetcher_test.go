package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/comic-metadata-service/internal/domain"
)

func TestNewHTTPFetcher(t *testing.T) {
	t.Run("creates fetcher with custom config", func(t *testing.T) {
		f := NewHTTPFetcher(HTTPFetcherConfig{
			Timeout:      15 * time.Second,
			UserAgent:    "TestAgent/1.0",
			MaxBodyBytes: 1024,
			Source:       "comicvine",
		})

		require.NotNil(t, f)
		assert.Equal(t, 15*time.Second, f.client.Timeout)
		assert.Equal(t, "TestAgent/1.0", f.config.UserAgent)
		assert.Equal(t, int64(1024), f.config.MaxBodyBytes)
		assert.Equal(t, "comicvine", f.config.Source)
	})

	t.Run("applies default values", func(t *testing.T) {
		f := NewHTTPFetcher(HTTPFetcherConfig{})

		assert.Equal(t, DefaultFetchTimeout, f.client.Timeout)
		assert.Equal(t, DefaultUserAgent, f.config.UserAgent)
		assert.Equal(t, int64(DefaultMaxBodyBytes), f.config.MaxBodyBytes)
		assert.Equal(t, "catalog", f.config.Source)
	})
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	t.Run("returns body and sends User-Agent", func(t *testing.T) {
		var userAgent string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userAgent = r.Header.Get("User-Agent")
			w.Write([]byte(`{"status_code":1}`))
		}))
		defer server.Close()

		f := NewHTTPFetcherWithClient(HTTPFetcherConfig{UserAgent: "TestAgent/2.0"}, server.Client())
		body, err := f.Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, `{"status_code":1}`, body)
		assert.Equal(t, "TestAgent/2.0", userAgent)
	})

	t.Run("non-2xx becomes external API error without retry", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream\n  down"))
		}))
		defer server.Close()

		f := NewHTTPFetcherWithClient(HTTPFetcherConfig{Source: "comicvine"}, server.Client())
		_, err := f.Fetch(context.Background(), server.URL)

		var apiErr *domain.ExternalAPIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "comicvine", apiErr.Source)
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		assert.Equal(t, "upstream down", apiErr.Message)
		assert.True(t, errors.Is(err, domain.ErrServiceUnavailable))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("client errors are not service unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		f := NewHTTPFetcherWithClient(HTTPFetcherConfig{}, server.Client())
		_, err := f.Fetch(context.Background(), server.URL)

		var apiErr *domain.ExternalAPIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "empty response", apiErr.Message)
		assert.False(t, errors.Is(err, domain.ErrServiceUnavailable))
	})

	t.Run("body is truncated at the limit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(strings.Repeat("x", 100)))
		}))
		defer server.Close()

		f := NewHTTPFetcherWithClient(HTTPFetcherConfig{MaxBodyBytes: 10}, server.Client())
		body, err := f.Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Len(t, body, 10)
	})

	t.Run("context cancellation is returned unwrapped", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		f := NewHTTPFetcherWithClient(HTTPFetcherConfig{}, server.Client())
		_, err := f.Fetch(ctx, server.URL)

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		var apiErr *domain.ExternalAPIError
		assert.False(t, errors.As(err, &apiErr))
	})

	t.Run("transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		f := NewHTTPFetcher(HTTPFetcherConfig{Timeout: time.Second})
		_, err := f.Fetch(context.Background(), url)

		var apiErr *domain.ExternalAPIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 0, apiErr.StatusCode)
		assert.True(t, errors.Is(err, domain.ErrServiceUnavailable))
	})
}

func TestFetcherFunc(t *testing.T) {
	var got string
	f := FetcherFunc(func(_ context.Context, url string) (string, error) {
		got = url
		return "ok", nil
	})

	body, err := f.Fetch(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "ok", body)
	assert.Equal(t, "https://example.com", got)
}
