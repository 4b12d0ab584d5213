package credits

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helixir/comic-metadata-service/internal/domain"
)

func TestExtract(t *testing.T) {
	t.Run("writer and artist populate three buckets once each", func(t *testing.T) {
		got := Extract([]domain.Credit{{Name: "Jane Doe", Role: "Writer, Artist"}})

		assert.Equal(t, []string{"Jane Doe"}, got.Writers)
		assert.Equal(t, []string{"Jane Doe"}, got.Pencillers)
		assert.Equal(t, []string{"Jane Doe"}, got.Inkers)
		assert.Empty(t, got.Colorists)
		assert.Empty(t, got.Letterers)
		assert.Empty(t, got.CoverArtists)
		assert.Empty(t, got.Editors)
	})

	t.Run("substring classification tolerates catalog variants", func(t *testing.T) {
		got := Extract([]domain.Credit{
			{Name: "Pen Smith", Role: "Penciler"},
			{Name: "Ink Jones", Role: "inker"},
			{Name: "Hue Brown", Role: "Colorist"},
			{Name: "Type Green", Role: "letterer"},
			{Name: "Front White", Role: "Cover"},
			{Name: "Boss Black", Role: "Editor, Editor In Chief"},
		})

		assert.Equal(t, []string{"Pen Smith"}, got.Pencillers)
		assert.Equal(t, []string{"Ink Jones"}, got.Inkers)
		assert.Equal(t, []string{"Hue Brown"}, got.Colorists)
		assert.Equal(t, []string{"Type Green"}, got.Letterers)
		assert.Equal(t, []string{"Front White"}, got.CoverArtists)
		assert.Equal(t, []string{"Boss Black"}, got.Editors)
	})

	t.Run("artist only matches the exact token", func(t *testing.T) {
		got := Extract([]domain.Credit{{Name: "Vic Varied", Role: "Artist Assistant"}})

		assert.Empty(t, got.Pencillers)
		assert.Empty(t, got.Inkers)
	})

	t.Run("one token can fill several buckets", func(t *testing.T) {
		got := Extract([]domain.Credit{{Name: "Multi Hand", Role: "Penciler/Inker"}})

		assert.Equal(t, []string{"Multi Hand"}, got.Pencillers)
		assert.Equal(t, []string{"Multi Hand"}, got.Inkers)
	})

	t.Run("duplicates across entries are dropped in first-seen order", func(t *testing.T) {
		got := Extract([]domain.Credit{
			{Name: "A", Role: "writer"},
			{Name: "B", Role: "Writer"},
			{Name: "A", Role: "plot, writer"},
		})

		assert.Equal(t, []string{"A", "B"}, got.Writers)
	})

	t.Run("blank names and roles are ignored", func(t *testing.T) {
		got := Extract([]domain.Credit{
			{Name: "  ", Role: "writer"},
			{Name: "Nobody", Role: " , "},
		})

		assert.Empty(t, got.Writers)
		assert.Equal(t, domain.Credits{}, got)
	})

	t.Run("nil input", func(t *testing.T) {
		assert.Equal(t, domain.Credits{}, Extract(nil))
	})
}
