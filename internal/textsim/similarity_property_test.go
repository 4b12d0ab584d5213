package textsim

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// titleGen generates series-like titles with mixed case and separators.
func titleGen() *rapid.Generator[string] {
	words := []string{
		"Batman", "Detective", "Comics", "Spider-Man", "X-Men", "Saga", "Annual",
		"The", "of", "Amazing", "Director's", "Cut", "TPB", "Wolverine", "Hellboy",
		"Sandman", "Vol.", "1", "2018", "Swamp", "Thing", "Pokémon",
	}
	seps := []string{" ", "  ", ": ", " - ", "/", "\t"}
	return rapid.Custom(func(t *rapid.T) string {
		count := rapid.IntRange(1, 6).Draw(t, "wordCount")
		var b strings.Builder
		for i := range count {
			if i > 0 {
				b.WriteString(rapid.SampledFrom(seps).Draw(t, "sep"))
			}
			b.WriteString(rapid.SampledFrom(words).Draw(t, "word"))
		}
		return b.String()
	})
}

func TestPropertyNormalizeIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.OneOf(titleGen(), rapid.String()).Draw(t, "input")
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent: %q -> %q -> %q", s, once, twice)
		}
	})
}

func TestPropertySimilaritySelfIsOne(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := titleGen().Draw(t, "title")
		if got := Similarity(s, s); got != 1.0 {
			t.Fatalf("Similarity(%q, %q) = %v, want 1", s, s, got)
		}
	})
}

func TestPropertySimilaritySymmetric(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.OneOf(titleGen(), rapid.String()).Draw(t, "a")
		b := rapid.OneOf(titleGen(), rapid.String()).Draw(t, "b")
		if ab, ba := Similarity(a, b), Similarity(b, a); ab != ba {
			t.Fatalf("Similarity not symmetric: (%q,%q)=%v (%q,%q)=%v", a, b, ab, b, a, ba)
		}
	})
}

func TestPropertySimilarityBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.OneOf(titleGen(), rapid.String()).Draw(t, "a")
		b := rapid.OneOf(titleGen(), rapid.String()).Draw(t, "b")
		got := Similarity(a, b)
		if got < 0 || got > 1 {
			t.Fatalf("Similarity(%q, %q) = %v out of [0,1]", a, b, got)
		}
	})
}
