package catalog

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// inlineTags join their text to the surrounding text without a space.
var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "code": true, "em": true, "i": true,
	"small": true, "span": true, "strong": true, "sub": true, "sup": true, "u": true,
}

// skippedTags have content that is never shown as text.
var skippedTags = map[string]bool{
	"script": true, "style": true, "head": true,
}

// StripHTML reduces a catalog description to plain text: tags are removed,
// block-level tags act as word breaks, entities are decoded and whitespace
// is collapsed.
func StripHTML(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	skipDepth := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return collapseSpace(b.String())
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skippedTags[tag] {
				switch tt {
				case html.StartTagToken:
					skipDepth++
				case html.EndTagToken:
					if skipDepth > 0 {
						skipDepth--
					}
				}
				continue
			}
			if !inlineTags[tag] {
				b.WriteByte(' ')
			}
		}
	}
}

// collapseSpace collapses whitespace runs, including non-breaking spaces
// decoded from &nbsp;, into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CoverDate is a parsed catalog cover date. Components that are absent or
// unparsable are nil.
type CoverDate struct {
	Year  *int
	Month *int
	Day   *int
}

// ParseCoverDate parses "YYYY", "YYYY-MM" or "YYYY-MM-DD". Parsing stops at
// the first bad component, so "2018-13-01" yields only the year.
func ParseCoverDate(s string) CoverDate {
	var d CoverDate
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) == 0 || parts[0] == "" {
		return d
	}

	year, ok := parseComponent(parts[0], 1, 9999)
	if !ok {
		return d
	}
	d.Year = &year

	if len(parts) < 2 {
		return d
	}
	month, ok := parseComponent(parts[1], 1, 12)
	if !ok {
		return d
	}
	d.Month = &month

	if len(parts) < 3 {
		return d
	}
	if day, ok := parseComponent(parts[2], 1, 31); ok {
		d.Day = &day
	}
	return d
}

func parseComponent(s string, lo, hi int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < lo || n > hi {
		return 0, false
	}
	return n, true
}
