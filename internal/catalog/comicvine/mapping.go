package comicvine

import (
	"cmp"
	"slices"
	"strings"

	"github.com/helixir/comic-metadata-service/internal/catalog"
	"github.com/helixir/comic-metadata-service/internal/credits"
	"github.com/helixir/comic-metadata-service/internal/domain"
	"github.com/helixir/comic-metadata-service/internal/imprints"
	"github.com/helixir/comic-metadata-service/internal/matching"
)

func issueToCandidate(issue *Issue) domain.IssueCandidate {
	date := catalog.ParseCoverDate(issue.CoverDate)
	c := domain.IssueCandidate{
		ID:          issue.ID,
		IssueNumber: strings.TrimSpace(issue.IssueNumber),
		Title:       strings.TrimSpace(issue.Name),
		CoverYear:   date.Year,
		CoverMonth:  date.Month,
		CoverURL:    issue.Image.Best(),
		Description: describe(issue.Description, issue.Deck),
		SiteURL:     issue.SiteDetailURL,
	}
	if issue.Volume != nil {
		c.SeriesName = strings.TrimSpace(issue.Volume.Name)
		c.VolumeID = issue.Volume.ID
	}
	return c
}

func volumeToCandidate(v *Volume) domain.VolumeCandidate {
	c := domain.VolumeCandidate{
		ID:          v.ID,
		Name:        strings.TrimSpace(v.Name),
		StartYear:   v.StartYear.Ptr(),
		IssueCount:  v.CountOfIssues.Value,
		CoverURL:    v.Image.Best(),
		Description: describe(v.Description, v.Deck),
		SiteURL:     v.SiteDetailURL,
	}
	if v.Publisher != nil {
		c.Publisher = strings.TrimSpace(v.Publisher.Name)
	}
	return c
}

// describe prefers the full description and falls back to the short deck.
func describe(description, deck string) string {
	if d := catalog.StripHTML(description); d != "" {
		return d
	}
	return catalog.StripHTML(deck)
}

// buildMetadata assembles issue metadata. volume may be nil when the volume
// lookup failed, in which case publisher and start year stay empty.
func buildMetadata(issue *Issue, volume *Volume) *domain.IssueMetadata {
	date := catalog.ParseCoverDate(issue.CoverDate)
	md := &domain.IssueMetadata{
		IssueID:     issue.ID,
		Title:       strings.TrimSpace(issue.Name),
		IssueNumber: strings.TrimSpace(issue.IssueNumber),
		CoverYear:   date.Year,
		CoverMonth:  date.Month,
		CoverDay:    date.Day,
		CoverURLs:   issue.Image.All(),
		Description: describe(issue.Description, issue.Deck),
		SiteURL:     issue.SiteDetailURL,
		Characters:  refNames(issue.CharacterCredits),
		Teams:       refNames(issue.TeamCredits),
		Locations:   refNames(issue.LocationCredits),
		StoryArcs:   refNames(issue.StoryArcCredits),
	}

	if issue.Volume != nil {
		md.VolumeID = issue.Volume.ID
		md.SeriesName = strings.TrimSpace(issue.Volume.Name)
	}
	if volume != nil {
		if md.SeriesName == "" {
			md.SeriesName = strings.TrimSpace(volume.Name)
		}
		md.VolumeStartYear = volume.StartYear.Ptr()
		if volume.Publisher != nil {
			md.Publisher, md.Imprint = imprints.Resolve(strings.TrimSpace(volume.Publisher.Name))
		}
	}

	raw := make([]domain.Credit, 0, len(issue.PersonCredits))
	for _, p := range issue.PersonCredits {
		raw = append(raw, domain.Credit{Name: p.Name, Role: p.Role})
	}
	md.Credits = credits.Extract(raw)

	return md
}

// refNames returns the distinct non-blank names in order.
func refNames(refs []Ref) []string {
	var names []string
	seen := make(map[string]struct{}, len(refs))
	for _, r := range refs {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// volumeIssues converts a volume's issue listing into candidates sorted by
// issue number.
func volumeIssues(v *Volume) []domain.IssueCandidate {
	var publisher string
	if v.Publisher != nil {
		publisher = strings.TrimSpace(v.Publisher.Name)
	}

	out := make([]domain.IssueCandidate, 0, len(v.Issues))
	for _, is := range v.Issues {
		out = append(out, domain.IssueCandidate{
			ID:               is.ID,
			SeriesName:       strings.TrimSpace(v.Name),
			IssueNumber:      strings.TrimSpace(is.IssueNumber),
			Title:            strings.TrimSpace(is.Name),
			Publisher:        publisher,
			VolumeID:         v.ID,
			VolumeStartYear:  v.StartYear.Ptr(),
			VolumeIssueCount: v.CountOfIssues.Value,
			SiteURL:          is.SiteDetailURL,
		})
	}
	slices.SortStableFunc(out, compareIssueOrder)
	return out
}

// compareIssueOrder orders numeric issue numbers ascending, then the
// non-numeric ones ("1.MU", "½") case-insensitively, then by ID.
func compareIssueOrder(a, b domain.IssueCandidate) int {
	na, okA := matching.ParseIssueNumber(a.IssueNumber)
	nb, okB := matching.ParseIssueNumber(b.IssueNumber)
	switch {
	case okA && okB:
		if c := cmp.Compare(na, nb); c != 0 {
			return c
		}
	case okA:
		return -1
	case okB:
		return 1
	default:
		if c := strings.Compare(strings.ToLower(a.IssueNumber), strings.ToLower(b.IssueNumber)); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.ID, b.ID)
}
