package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "plain text untouched", input: "Batman returns.", expected: "Batman returns."},
		{name: "paragraphs become word breaks", input: "<p>First.</p><p>Second.</p>", expected: "First. Second."},
		{name: "inline tags join", input: "<p>The <b>Dark</b> Kni<i>ght</i></p>", expected: "The Dark Knight"},
		{name: "entities decoded", input: "Tom &amp; Jerry&#39;s &quot;caper&quot;", expected: `Tom & Jerry's "caper"`},
		{name: "nbsp collapses", input: "Vol.&nbsp;&nbsp;1", expected: "Vol. 1"},
		{name: "line breaks", input: "One<br/>Two<br>Three", expected: "One Two Three"},
		{name: "whitespace collapsed", input: "  a \n\t b  ", expected: "a b"},
		{name: "script dropped", input: "<p>Hi</p><script>alert(1)</script>", expected: "Hi"},
		{name: "links keep text", input: `<a href="/x/4005-1/">Bruce Wayne</a> fights`, expected: "Bruce Wayne fights"},
		{name: "table cells split", input: "<table><tr><td>A</td><td>B</td></tr></table>", expected: "A B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripHTML(tt.input))
		})
	}
}

func TestParseCoverDate(t *testing.T) {
	t.Run("full date", func(t *testing.T) {
		d := ParseCoverDate("2018-05-01")
		require.NotNil(t, d.Year)
		require.NotNil(t, d.Month)
		require.NotNil(t, d.Day)
		assert.Equal(t, 2018, *d.Year)
		assert.Equal(t, 5, *d.Month)
		assert.Equal(t, 1, *d.Day)
	})

	t.Run("year and month", func(t *testing.T) {
		d := ParseCoverDate("1939-05")
		require.NotNil(t, d.Year)
		require.NotNil(t, d.Month)
		assert.Equal(t, 1939, *d.Year)
		assert.Equal(t, 5, *d.Month)
		assert.Nil(t, d.Day)
	})

	t.Run("year only", func(t *testing.T) {
		d := ParseCoverDate("1987")
		require.NotNil(t, d.Year)
		assert.Equal(t, 1987, *d.Year)
		assert.Nil(t, d.Month)
	})

	t.Run("bad month keeps year", func(t *testing.T) {
		d := ParseCoverDate("2018-13-01")
		require.NotNil(t, d.Year)
		assert.Nil(t, d.Month)
		assert.Nil(t, d.Day)
	})

	t.Run("unparsable", func(t *testing.T) {
		for _, s := range []string{"", "   ", "unknown", "-05-01", "0000-01-01"} {
			assert.Equal(t, CoverDate{}, ParseCoverDate(s), s)
		}
	})
}
