// Package matching computes confidence scores for catalog issue and volume
// candidates against a user-supplied comic identity.
//
// Scores are additive heuristics clamped to [0,1]. The catalog's reported
// issue counts are never used because they are frequently incomplete.
package matching

import (
	"math"
	"strconv"
	"strings"

	"github.com/helixir/comic-metadata-service/internal/domain"
	"github.com/helixir/comic-metadata-service/internal/textsim"
)

// Issue score weights.
const (
	issueSeriesWeight       = 0.35
	issueNumberMatchBonus   = 0.30
	issueNumberMismatch     = -0.05
	issueNumberUnknownBonus = 0.15
	issueYearUnknownBonus   = 0.10
	issueCoverBonus         = 0.075
	issueDescriptionBonus   = 0.075
	issueStrongMatchBonus   = 0.05
	strongSeriesSimilarity  = 0.70
	formatMatchBonus        = 0.15
	formatMismatchPenalty   = -0.05
)

// issueFormatKeywords are edition markers that must agree between the query
// and an issue candidate.
var issueFormatKeywords = []string{"Director's Cut", "TPB", "Trade Paperback", "Hardcover", "Annual"}

// volumeFormatKeywords omits "Annual", which marks issues rather than volumes.
var volumeFormatKeywords = []string{"Director's Cut", "TPB", "Trade Paperback", "Hardcover"}

// IssueScore scores an issue candidate against the query. issueNumber is
// empty and year is zero when not supplied.
func IssueScore(series, issueNumber string, year int, c domain.IssueCandidate) float64 {
	seriesSim := textsim.Similarity(series, c.SeriesName)
	score := seriesSim * issueSeriesWeight

	matched := false
	if issueNumber != "" {
		if IssueNumbersMatch(issueNumber, c.IssueNumber) {
			matched = true
			score += issueNumberMatchBonus
		} else {
			score += issueNumberMismatch
		}
	} else {
		score += issueNumberUnknownBonus
	}

	if year != 0 {
		if c.CoverYear != nil {
			score += yearProximityBonus(abs(year - *c.CoverYear))
		}
	} else {
		score += issueYearUnknownBonus
	}

	if c.HasCover() {
		score += issueCoverBonus
	}
	if strings.TrimSpace(c.Description) != "" {
		score += issueDescriptionBonus
	}
	if matched && seriesSim >= strongSeriesSimilarity {
		score += issueStrongMatchBonus
	}

	score += formatAdjustment(series, issueFormatKeywords, c.Title, c.SeriesName)

	return Clamp(score)
}

// VolumeScore scores a volume candidate against the series text and the
// optional search year.
func VolumeScore(series string, year int, v domain.VolumeCandidate) float64 {
	score := textsim.Similarity(series, v.Name)
	score += formatAdjustment(series, volumeFormatKeywords, v.Name)

	if year != 0 && v.StartYear != nil {
		score = adjustForStartYear(score, year, *v.StartYear)
	}

	return Clamp(score)
}

// adjustForStartYear rewards volumes that started in or shortly before the
// search year and decays volumes that started long before or after it.
func adjustForStartYear(score float64, searchYear, startYear int) float64 {
	diff := abs(searchYear - startYear)
	startedBefore := startYear <= searchYear

	switch {
	case diff == 0:
		return min(1.0, score+0.10)
	case diff <= 2 && startedBefore:
		return min(1.0, score+0.08)
	case diff <= 5 && startedBefore:
		return min(1.0, score+0.05)
	case diff <= 10 && startedBefore:
		return min(1.0, score+0.03)
	case diff <= 10:
		return score * 0.95
	case diff <= 20:
		return score * 0.85
	case diff <= 40:
		return score * 0.70
	default:
		return score * 0.50
	}
}

func yearProximityBonus(diff int) float64 {
	switch diff {
	case 0:
		return 0.20
	case 1:
		return 0.15
	case 2:
		return 0.10
	default:
		return 0
	}
}

// formatAdjustment applies the format keyword consistency rule: each keyword
// present in the query must also appear in one of the candidate fields.
func formatAdjustment(query string, keywords []string, fields ...string) float64 {
	q := strings.ToLower(query)
	lowered := make([]string, len(fields))
	for i, f := range fields {
		lowered[i] = strings.ToLower(f)
	}

	var adj float64
	for _, kw := range keywords {
		k := strings.ToLower(kw)
		if !strings.Contains(q, k) {
			continue
		}
		found := false
		for _, f := range lowered {
			if strings.Contains(f, k) {
				found = true
				break
			}
		}
		if found {
			adj += formatMatchBonus
		} else {
			adj += formatMismatchPenalty
		}
	}
	return adj
}

// IssueNumbersMatch compares two issue numbers numerically when both parse
// as numbers ("1" == "001" == "1.0") and as trimmed, case-insensitive text
// otherwise ("1.MU", "½"). A leading "#" is ignored.
func IssueNumbersMatch(a, b string) bool {
	a, b = CleanIssueNumber(a), CleanIssueNumber(b)
	if a == "" || b == "" {
		return false
	}
	if fa, okA := ParseIssueNumber(a); okA {
		if fb, okB := ParseIssueNumber(b); okB {
			return fa == fb
		}
	}
	return strings.EqualFold(a, b)
}

// CleanIssueNumber trims whitespace and a leading "#".
func CleanIssueNumber(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "#"))
}

// ParseIssueNumber parses an issue number as a float.
func ParseIssueNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(CleanIssueNumber(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Clamp limits a score to [0,1].
func Clamp(score float64) float64 {
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
