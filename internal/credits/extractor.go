// Package credits sorts raw catalog person credits into canonical role
// buckets (writers, pencillers, inkers, colorists, letterers, cover artists,
// editors).
package credits

import (
	"strings"

	"github.com/helixir/comic-metadata-service/internal/domain"
)

// Extract classifies each credit's comma-separated role list. Role tokens are
// matched by substring so catalog variants ("penciler", "inks", "colourist"
// aside) land in the same bucket; the bare token "artist" counts as both
// penciller and inker. Each bucket keeps the first occurrence of a name.
func Extract(raw []domain.Credit) domain.Credits {
	var b buckets
	for _, credit := range raw {
		name := strings.TrimSpace(credit.Name)
		if name == "" {
			continue
		}
		for _, token := range strings.Split(credit.Role, ",") {
			b.classify(name, strings.ToLower(strings.TrimSpace(token)))
		}
	}
	return b.credits()
}

type bucket struct {
	names []string
	seen  map[string]struct{}
}

func (b *bucket) add(name string) {
	if b.seen == nil {
		b.seen = make(map[string]struct{})
	}
	if _, ok := b.seen[name]; ok {
		return
	}
	b.seen[name] = struct{}{}
	b.names = append(b.names, name)
}

type buckets struct {
	writers, pencillers, inkers, colorists, letterers, coverArtists, editors bucket
}

func (b *buckets) classify(name, role string) {
	if role == "" {
		return
	}
	if strings.Contains(role, "writer") {
		b.writers.add(name)
	}
	if strings.Contains(role, "pencil") {
		b.pencillers.add(name)
	}
	if role == "artist" {
		b.pencillers.add(name)
		b.inkers.add(name)
	}
	if strings.Contains(role, "ink") {
		b.inkers.add(name)
	}
	if strings.Contains(role, "color") {
		b.colorists.add(name)
	}
	if strings.Contains(role, "letter") {
		b.letterers.add(name)
	}
	if strings.Contains(role, "cover") {
		b.coverArtists.add(name)
	}
	if strings.Contains(role, "edit") {
		b.editors.add(name)
	}
}

func (b *buckets) credits() domain.Credits {
	return domain.Credits{
		Writers:      b.writers.names,
		Pencillers:   b.pencillers.names,
		Inkers:       b.inkers.names,
		Colorists:    b.colorists.names,
		Letterers:    b.letterers.names,
		CoverArtists: b.coverArtists.names,
		Editors:      b.editors.names,
	}
}
