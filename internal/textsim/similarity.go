// Package textsim scores how similar two pieces of free text are. It is used
// to compare a user-typed series name against catalog series and volume names.
package textsim

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	containmentBase   = 0.70
	containmentWeight = 0.15
	jaccardWeight     = 0.6
	orderWeight       = 0.4
)

// Normalize lowercases s, keeps letters and digits, turns whitespace and the
// separators - : ' / into spaces, drops everything else, collapses runs of
// spaces and trims the result. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '-', r == ':', r == '\'', r == '/':
			pendingSpace = true
		}
	}
	return b.String()
}

// Similarity returns a score in [0,1] for how closely a and b match after
// normalization. Identical text scores 1, text contained in the other scores
// between 0.70 and 0.85, and anything else is scored on shared words and
// their order. Empty input scores 0.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}

	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		la, lb := utf8.RuneCountInString(na), utf8.RuneCountInString(nb)
		shorter, longer := la, lb
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		return containmentBase + containmentWeight*(float64(shorter)/float64(longer))
	}

	ta, tb := strings.Fields(na), strings.Fields(nb)
	score := Jaccard(ta, tb)*jaccardWeight + OrderSignal(ta, tb)*orderWeight
	if score > 1.0 {
		return 1.0
	}
	return score
}

// Jaccard returns |A∩B| / |A∪B| over the distinct tokens of a and b.
// An empty union yields 0.
func Jaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}

	intersection := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// OrderSignal is the longest common subsequence of the two token sequences
// divided by the larger token count.
func OrderSignal(a, b []string) float64 {
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}
	return float64(LCSLength(a, b)) / float64(longest)
}

// LCSLength computes the longest common subsequence length of two token
// sequences with the classic O(n·m) table, kept to two rows.
func LCSLength(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
