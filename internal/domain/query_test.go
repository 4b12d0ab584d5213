package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchQuery_Normalized(t *testing.T) {
	tests := []struct {
		name     string
		input    SearchQuery
		expected SearchQuery
	}{
		{
			name:     "trims series",
			input:    SearchQuery{Series: "  Saga  "},
			expected: SearchQuery{Series: "Saga"},
		},
		{
			name:     "strips hash from issue number",
			input:    SearchQuery{Series: "Saga", IssueNumber: "#1"},
			expected: SearchQuery{Series: "Saga", IssueNumber: "1"},
		},
		{
			name:     "strips hash surrounded by spaces",
			input:    SearchQuery{Series: "Saga", IssueNumber: "  # 12 "},
			expected: SearchQuery{Series: "Saga", IssueNumber: "12"},
		},
		{
			name:     "keeps year",
			input:    SearchQuery{Series: "Saga", Year: 2012},
			expected: SearchQuery{Series: "Saga", Year: 2012},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.input.Normalized())
		})
	}
}

func TestSearchQuery_Presence(t *testing.T) {
	q := SearchQuery{Series: "Saga"}
	assert.False(t, q.HasIssueNumber())
	assert.False(t, q.HasYear())

	q = SearchQuery{Series: "Saga", IssueNumber: "0", Year: 2012}
	assert.True(t, q.HasIssueNumber())
	assert.True(t, q.HasYear())
}

func TestSearchQuery_Validate(t *testing.T) {
	tests := []struct {
		name  string
		query SearchQuery
		field string
	}{
		{name: "valid minimal", query: SearchQuery{Series: "Saga"}},
		{name: "valid full", query: SearchQuery{Series: "Saga", IssueNumber: "#1", Year: 2012}},
		{name: "missing series", query: SearchQuery{}, field: "series"},
		{name: "blank series", query: SearchQuery{Series: "   "}, field: "series"},
		{name: "series too long", query: SearchQuery{Series: strings.Repeat("x", 201)}, field: "series"},
		{name: "issue number too long", query: SearchQuery{Series: "Saga", IssueNumber: strings.Repeat("9", 17)}, field: "issue_number"},
		{name: "year too early", query: SearchQuery{Series: "Saga", Year: 1799}, field: "year"},
		{name: "year too late", query: SearchQuery{Series: "Saga", Year: 2201}, field: "year"},
		{name: "negative year", query: SearchQuery{Series: "Saga", Year: -1}, field: "year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestSearchQuery_ValidateMessages(t *testing.T) {
	err := SearchQuery{}.Validate()
	assert.EqualError(t, err, "validation error: series: is required")

	err = SearchQuery{Series: "Saga", Year: 1700}.Validate()
	assert.EqualError(t, err, "validation error: year: must be at least 1800")
}

func TestStaticSettings_Lookup(t *testing.T) {
	s := StaticSettings{SettingAPIKey: "abc", "blank": "  "}

	v, ok := s.Lookup(SettingAPIKey)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	_, ok = s.Lookup("blank")
	assert.False(t, ok)

	_, ok = s.Lookup("missing")
	assert.False(t, ok)
}
