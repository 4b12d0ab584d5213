// Package domain provides the data model and error taxonomy shared by the
// comic metadata service: search queries, scored issue and volume candidates,
// full issue metadata and rate limit snapshots.
package domain

import (
	"slices"
	"time"
)

// IssueCandidate is one issue returned by the catalog, scored against a query.
// Candidates are created per parsed response item and are not modified after
// scoring.
type IssueCandidate struct {
	ID               int     `json:"id"`
	SeriesName       string  `json:"series_name"`
	IssueNumber      string  `json:"issue_number"`
	Title            string  `json:"title,omitempty"`
	CoverYear        *int    `json:"cover_year,omitempty"`
	CoverMonth       *int    `json:"cover_month,omitempty"`
	Publisher        string  `json:"publisher,omitempty"`
	CoverURL         string  `json:"cover_url,omitempty"`
	Description      string  `json:"description,omitempty"`
	VolumeID         int     `json:"volume_id,omitempty"`
	VolumeStartYear  *int    `json:"volume_start_year,omitempty"`
	VolumeIssueCount int     `json:"volume_issue_count,omitempty"`
	SiteURL          string  `json:"site_url,omitempty"`
	Score            float64 `json:"score"`
}

// HasCover reports whether the candidate carries a cover image URL.
func (c IssueCandidate) HasCover() bool {
	return c.CoverURL != ""
}

// VolumeCandidate is one volume (series run) returned by the catalog.
// IssueCount is informational only; the catalog is known to under-report it.
type VolumeCandidate struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	StartYear   *int    `json:"start_year,omitempty"`
	Publisher   string  `json:"publisher,omitempty"`
	IssueCount  int     `json:"issue_count,omitempty"`
	CoverURL    string  `json:"cover_url,omitempty"`
	Description string  `json:"description,omitempty"`
	SiteURL     string  `json:"site_url,omitempty"`
	Score       float64 `json:"score"`
}

// Credit is a raw person credit as reported by the catalog. Role is a
// comma-separated free-text list such as "writer, cover".
type Credit struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Credits holds person credits bucketed by canonical role.
// No bucket contains the same name twice.
type Credits struct {
	Writers      []string `json:"writers,omitempty"`
	Pencillers   []string `json:"pencillers,omitempty"`
	Inkers       []string `json:"inkers,omitempty"`
	Colorists    []string `json:"colorists,omitempty"`
	Letterers    []string `json:"letterers,omitempty"`
	CoverArtists []string `json:"cover_artists,omitempty"`
	Editors      []string `json:"editors,omitempty"`
}

// IssueMetadata is the full detail record for a single issue.
type IssueMetadata struct {
	IssueID         int    `json:"issue_id"`
	VolumeID        int    `json:"volume_id"`
	SeriesName      string `json:"series_name"`
	VolumeStartYear *int   `json:"volume_start_year,omitempty"`
	Title           string `json:"title,omitempty"`
	IssueNumber     string `json:"issue_number"`
	Publisher       string `json:"publisher,omitempty"`

	// Imprint is set only when the catalog publisher is a known imprint; in
	// that case Publisher holds the parent publisher.
	Imprint string `json:"imprint,omitempty"`

	CoverYear   *int     `json:"cover_year,omitempty"`
	CoverMonth  *int     `json:"cover_month,omitempty"`
	CoverDay    *int     `json:"cover_day,omitempty"`
	CoverURLs   []string `json:"cover_urls,omitempty"`
	Description string   `json:"description,omitempty"`
	SiteURL     string   `json:"site_url,omitempty"`

	Credits

	Characters []string `json:"characters,omitempty"`
	Teams      []string `json:"teams,omitempty"`
	Locations  []string `json:"locations,omitempty"`
	StoryArcs  []string `json:"story_arcs,omitempty"`
}

// Clone returns a deep copy of m. Nothing in the copy aliases m.
func (m *IssueMetadata) Clone() *IssueMetadata {
	if m == nil {
		return nil
	}
	c := *m
	c.VolumeStartYear = cloneInt(m.VolumeStartYear)
	c.CoverYear = cloneInt(m.CoverYear)
	c.CoverMonth = cloneInt(m.CoverMonth)
	c.CoverDay = cloneInt(m.CoverDay)
	c.CoverURLs = slices.Clone(m.CoverURLs)
	c.Credits = m.Credits.Clone()
	c.Characters = slices.Clone(m.Characters)
	c.Teams = slices.Clone(m.Teams)
	c.Locations = slices.Clone(m.Locations)
	c.StoryArcs = slices.Clone(m.StoryArcs)
	return &c
}

// Clone returns a copy of c with its own role slices.
func (c Credits) Clone() Credits {
	return Credits{
		Writers:      slices.Clone(c.Writers),
		Pencillers:   slices.Clone(c.Pencillers),
		Inkers:       slices.Clone(c.Inkers),
		Colorists:    slices.Clone(c.Colorists),
		Letterers:    slices.Clone(c.Letterers),
		CoverArtists: slices.Clone(c.CoverArtists),
		Editors:      slices.Clone(c.Editors),
	}
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// EndpointStatus is a point-in-time view of one endpoint's rolling quota.
type EndpointStatus struct {
	Endpoint  string     `json:"endpoint"`
	Used      int        `json:"used"`
	Remaining int        `json:"remaining"`
	Limit     int        `json:"limit"`
	ResetAt   *time.Time `json:"reset_at,omitempty"`
}
