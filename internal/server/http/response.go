package httpserver

import (
	"github.com/helixir/comic-metadata-service/internal/domain"
)

// Response types for JSON serialization.

type errorResponse struct {
	Error string `json:"error"`
}

type issueListResponse struct {
	Results []domain.IssueCandidate `json:"results"`
	Count   int                     `json:"count"`
}

type volumeListResponse struct {
	Results []domain.VolumeCandidate `json:"results"`
	Count   int                      `json:"count"`
}

type rateLimitResponse struct {
	Endpoints []domain.EndpointStatus `json:"endpoints"`
}

func newIssueListResponse(issues []domain.IssueCandidate) issueListResponse {
	if issues == nil {
		issues = []domain.IssueCandidate{}
	}
	return issueListResponse{Results: issues, Count: len(issues)}
}

func newVolumeListResponse(volumes []domain.VolumeCandidate) volumeListResponse {
	if volumes == nil {
		volumes = []domain.VolumeCandidate{}
	}
	return volumeListResponse{Results: volumes, Count: len(volumes)}
}

func newRateLimitResponse(status []domain.EndpointStatus) rateLimitResponse {
	if status == nil {
		status = []domain.EndpointStatus{}
	}
	return rateLimitResponse{Endpoints: status}
}
