package imprints

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTryResolve(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantParent string
		wantOK     bool
	}{
		{name: "vertigo folds into DC", input: "Vertigo", wantParent: DCComics, wantOK: true},
		{name: "case and whitespace insensitive", input: "  MARVEL KNIGHTS ", wantParent: Marvel, wantOK: true},
		{name: "image imprint", input: "Skybound", wantParent: ImageComics, wantOK: true},
		{name: "boom imprint", input: "BOOM! Box", wantParent: Boom, wantOK: true},
		{name: "parent is not an imprint", input: "DC Comics", wantOK: false},
		{name: "unknown publisher", input: "Some Small Press", wantOK: false},
		{name: "empty", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent, ok := TryResolve(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantParent, parent)
		})
	}
}

func TestResolve(t *testing.T) {
	t.Run("imprint splits into parent and label", func(t *testing.T) {
		publisher, imprint := Resolve("Vertigo")
		assert.Equal(t, "DC Comics", publisher)
		assert.Equal(t, "Vertigo", imprint)
	})

	t.Run("non imprint passes through", func(t *testing.T) {
		publisher, imprint := Resolve("Image")
		assert.Equal(t, "Image", publisher)
		assert.Empty(t, imprint)
	})
}

func TestParentsAreNeverImprints(t *testing.T) {
	for key, parent := range imprintParents {
		_, ok := TryResolve(parent)
		assert.False(t, ok, "parent %q of %q is itself listed as an imprint", parent, key)
	}
	assert.GreaterOrEqual(t, Count(), 70)
}
