package catalog

import (
	"strings"
	"testing"
)

// FuzzStripHTML checks that arbitrary descriptions never panic and always
// come back with collapsed whitespace.
func FuzzStripHTML(f *testing.F) {
	seeds := []string{
		"",
		"<p>The <b>Man of Steel</b> turns 1000 &amp; counting.</p>",
		"<script>alert('xss')</script>visible",
		`<img src=x onerror=alert('xss')>`,
		"<p>unclosed <b>bold",
		"&lt;b&gt;escaped&lt;/b&gt;",
		"a&nbsp;&nbsp;b",
		"<style>p{}</style><h2>Heading</h2><ul><li>one</li><li>two</li></ul>",
		"text\x00with\x00nulls",
		string([]byte{0xfe, 0xff}),
		strings.Repeat("<div>", 1000),
		"<!-- comment --><![CDATA[data]]>",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		out := StripHTML(input)
		if out != strings.TrimSpace(out) {
			t.Errorf("output has surrounding whitespace: %q", out)
		}
		if strings.Contains(out, "  ") {
			t.Errorf("output has a whitespace run: %q", out)
		}
	})
}

// FuzzParseCoverDate checks that parsed components are always in range and
// never skip a level.
func FuzzParseCoverDate(f *testing.F) {
	for _, seed := range []string{"", "2018", "2018-06", "2018-06-01", "2018-13-01", "0000-00-00", "-1-1", "1989-01-15T00:00:00", "9999-12-31", " 2018 - 06 "} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		d := ParseCoverDate(input)
		if d.Year != nil && (*d.Year < 1 || *d.Year > 9999) {
			t.Errorf("year out of range: %d", *d.Year)
		}
		if d.Month != nil {
			if d.Year == nil {
				t.Errorf("month without year for %q", input)
			}
			if *d.Month < 1 || *d.Month > 12 {
				t.Errorf("month out of range: %d", *d.Month)
			}
		}
		if d.Day != nil {
			if d.Month == nil {
				t.Errorf("day without month for %q", input)
			}
			if *d.Day < 1 || *d.Day > 31 {
				t.Errorf("day out of range: %d", *d.Day)
			}
		}
	})
}
