package comicvine

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Catalog status codes carried in the response envelope.
const (
	StatusOK              = 1
	StatusInvalidAPIKey   = 100
	StatusObjectNotFound  = 101
	StatusURLFormatError  = 102
	StatusCallbackMissing = 103
	StatusFilterError     = 104
	StatusSubscriberOnly  = 105
	StatusRateLimited     = 107
)

// statusName describes a catalog status code for logs.
func statusName(code int) string {
	switch code {
	case StatusOK:
		return "ok"
	case StatusInvalidAPIKey:
		return "invalid api key"
	case StatusObjectNotFound:
		return "object not found"
	case StatusURLFormatError:
		return "url format error"
	case StatusCallbackMissing:
		return "jsonp callback missing"
	case StatusFilterError:
		return "filter error"
	case StatusSubscriberOnly:
		return "subscriber only video"
	case StatusRateLimited:
		return "rate limited"
	default:
		return "status " + strconv.Itoa(code)
	}
}

// envelope is the wrapper around every catalog response. Results stay raw
// until the status code has been checked, because failed detail lookups
// return an empty array where an object is expected.
type envelope struct {
	StatusCode           int             `json:"status_code"`
	Error                string          `json:"error"`
	Limit                int             `json:"limit"`
	Offset               int             `json:"offset"`
	NumberOfPageResults  int             `json:"number_of_page_results"`
	NumberOfTotalResults int             `json:"number_of_total_results"`
	Results              json.RawMessage `json:"results"`
}

// hasResults reports whether the results field holds anything other than
// null, an empty object or an empty array.
func (e *envelope) hasResults() bool {
	r := bytes.TrimSpace(e.Results)
	switch string(r) {
	case "", "null", "{}", "[]":
		return false
	default:
		return true
	}
}

// Image holds the catalog's cover image URLs by size.
type Image struct {
	IconURL        string `json:"icon_url"`
	MediumURL      string `json:"medium_url"`
	ScreenURL      string `json:"screen_url"`
	ScreenLargeURL string `json:"screen_large_url"`
	SmallURL       string `json:"small_url"`
	SuperURL       string `json:"super_url"`
	ThumbURL       string `json:"thumb_url"`
	TinyURL        string `json:"tiny_url"`
	OriginalURL    string `json:"original_url"`
}

// Best returns the largest available cover URL.
func (i *Image) Best() string {
	if i == nil {
		return ""
	}
	for _, u := range []string{i.OriginalURL, i.SuperURL, i.MediumURL, i.ThumbURL} {
		if u = strings.TrimSpace(u); u != "" {
			return u
		}
	}
	return ""
}

// All returns the original, super, medium and thumb URLs in that order,
// skipping blanks and duplicates.
func (i *Image) All() []string {
	if i == nil {
		return nil
	}
	var urls []string
	seen := make(map[string]struct{}, 4)
	for _, u := range []string{i.OriginalURL, i.SuperURL, i.MediumURL, i.ThumbURL} {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	return urls
}

// Ref is a reference to another catalog resource.
type Ref struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	APIDetailURL  string `json:"api_detail_url"`
	SiteDetailURL string `json:"site_detail_url"`
}

// PersonCredit is a creator credited on an issue.
type PersonCredit struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Issue is the catalog issue resource. Search results carry a subset of
// the fields; credits are only present on the detail resource.
type Issue struct {
	ID               int            `json:"id"`
	Name             string         `json:"name"`
	IssueNumber      string         `json:"issue_number"`
	CoverDate        string         `json:"cover_date"`
	StoreDate        string         `json:"store_date"`
	Description      string         `json:"description"`
	Deck             string         `json:"deck"`
	Image            *Image         `json:"image"`
	Volume           *Ref           `json:"volume"`
	SiteDetailURL    string         `json:"site_detail_url"`
	PersonCredits    []PersonCredit `json:"person_credits"`
	CharacterCredits []Ref          `json:"character_credits"`
	TeamCredits      []Ref          `json:"team_credits"`
	LocationCredits  []Ref          `json:"location_credits"`
	StoryArcCredits  []Ref          `json:"story_arc_credits"`
}

// VolumeIssue is an entry of a volume's issue listing.
type VolumeIssue struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	IssueNumber   string `json:"issue_number"`
	SiteDetailURL string `json:"site_detail_url"`
}

// Volume is the catalog volume resource.
type Volume struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	StartYear     flexInt       `json:"start_year"`
	Publisher     *Ref          `json:"publisher"`
	CountOfIssues flexInt       `json:"count_of_issues"`
	Image         *Image        `json:"image"`
	Description   string        `json:"description"`
	Deck          string        `json:"deck"`
	SiteDetailURL string        `json:"site_detail_url"`
	Issues        []VolumeIssue `json:"issues"`
}

// flexInt decodes an integer sent either as a JSON number or as a string.
// null, blank and non-numeric values decode as absent rather than failing.
type flexInt struct {
	Value int
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexInt) UnmarshalJSON(data []byte) error {
	*f = flexInt{}

	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		text = strings.TrimSpace(s)
	}
	if text == "" {
		return nil
	}

	if n, err := strconv.Atoi(text); err == nil {
		*f = flexInt{Value: n, Valid: true}
		return nil
	}
	if fl, err := strconv.ParseFloat(text, 64); err == nil && fl == float64(int(fl)) {
		*f = flexInt{Value: int(fl), Valid: true}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f flexInt) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(f.Value)), nil
}

// Ptr returns the value as a pointer, nil when absent.
func (f flexInt) Ptr() *int {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}
