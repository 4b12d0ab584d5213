package httpserver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/helixir/comic-metadata-service/internal/domain"
)

// statusClientClosedRequest is the de facto status for a request the caller
// abandoned before the response was ready.
const statusClientClosedRequest = 499

// searchIssues handles GET /api/v1/issues/search.
func (s *Server) searchIssues(w http.ResponseWriter, r *http.Request) {
	q, ok := parseSearchQuery(w, r)
	if !ok {
		return
	}

	issues, err := s.service.SearchIssues(r.Context(), q)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newIssueListResponse(issues))
}

// searchEnhanced handles GET /api/v1/issues/search/enhanced.
// It runs the volume-first search with fallback to direct issue search.
func (s *Server) searchEnhanced(w http.ResponseWriter, r *http.Request) {
	q, ok := parseSearchQuery(w, r)
	if !ok {
		return
	}

	issues, err := s.service.SearchEnhanced(r.Context(), q)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newIssueListResponse(issues))
}

// searchVolumes handles GET /api/v1/volumes/search.
func (s *Server) searchVolumes(w http.ResponseWriter, r *http.Request) {
	q, ok := parseSearchQuery(w, r)
	if !ok {
		return
	}

	volumes, err := s.service.SearchVolumes(r.Context(), q.Series, q.Year)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newVolumeListResponse(volumes))
}

// getIssueMetadata handles GET /api/v1/issues/{issueID}.
func (s *Server) getIssueMetadata(w http.ResponseWriter, r *http.Request) {
	issueID, ok := parseID(w, chi.URLParam(r, "issueID"), "issue_id")
	if !ok {
		return
	}

	meta, err := s.service.GetIssueMetadata(r.Context(), issueID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, meta)
}

// getVolumeIssues handles GET /api/v1/volumes/{volumeID}/issues.
func (s *Server) getVolumeIssues(w http.ResponseWriter, r *http.Request) {
	volumeID, ok := parseID(w, chi.URLParam(r, "volumeID"), "volume_id")
	if !ok {
		return
	}

	issues, err := s.service.GetVolumeIssues(r.Context(), volumeID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newIssueListResponse(issues))
}

// rateLimitStatus handles GET /api/v1/rate-limit.
func (s *Server) rateLimitStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newRateLimitResponse(s.service.RateLimitStatus()))
}

// parseSearchQuery reads series, issue_number and year from the query string.
// Field validation beyond the year format is left to the service.
func parseSearchQuery(w http.ResponseWriter, r *http.Request) (domain.SearchQuery, bool) {
	values := r.URL.Query()
	q := domain.SearchQuery{
		Series:      values.Get("series"),
		IssueNumber: values.Get("issue_number"),
	}

	if yearStr := strings.TrimSpace(values.Get("year")); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			writeDomainError(w, domain.NewValidationError("year", "must be an integer"))
			return domain.SearchQuery{}, false
		}
		q.Year = year
	}

	return q, true
}

// parseID parses a positive catalog identifier, writing a 400 error response
// if invalid. The raw value is not echoed back.
func parseID(w http.ResponseWriter, s, fieldName string) (int, bool) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s must be a positive integer", fieldName))
		return 0, false
	}
	return id, true
}

// writeDomainError maps domain and context errors to HTTP status codes and
// writes a JSON error response. Upstream error details are not leaked.
func writeDomainError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	var (
		ve  *domain.ValidationError
		rle *domain.RateLimitError
		ext *domain.ExternalAPIError
	)

	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid input")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "resource not found")
	case errors.As(err, &rle):
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(rle)))
		writeError(w, http.StatusTooManyRequests, "rate limited")
	case errors.Is(err, domain.ErrRateLimited):
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusTooManyRequests, "rate limited")
	case errors.Is(err, domain.ErrConfiguration):
		writeError(w, http.StatusServiceUnavailable, "catalog is not configured")
	case errors.Is(err, domain.ErrMalformedResponse), errors.As(err, &ext):
		writeError(w, http.StatusBadGateway, "upstream catalog error")
	case errors.Is(err, domain.ErrServiceUnavailable):
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "request timed out")
	case errors.Is(err, context.Canceled):
		writeError(w, statusClientClosedRequest, "request cancelled")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// retryAfterSeconds rounds the wait up to whole seconds, never below one.
func retryAfterSeconds(e *domain.RateLimitError) int {
	secs := int(math.Ceil(e.RetryAfter.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
