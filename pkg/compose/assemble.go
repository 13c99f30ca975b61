package compose

import "github.com/askiada/go-deckbuilder/pkg/deck"

// Assemble rewrites image element sources from the asset map, in place.
// Elements whose source matches no asset id are left untouched, and pages
// are never reordered or dropped. The pages slice is returned for chaining.
func Assemble(pages []deck.Page, assets map[string]string) []deck.Page {
	if len(assets) == 0 {
		return pages
	}

	for pi := range pages {
		for ei := range pages[pi].Elements {
			el := &pages[pi].Elements[ei]
			if !el.IsImage() {
				continue
			}
			if location, ok := assets[el.Source]; ok {
				el.Source = location
			}
		}
	}

	return pages
}
