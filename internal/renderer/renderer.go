// Package renderer serialises a finished deck. The binary presentation
// backend sits behind the Renderer interface; the JSON and Markdown
// renderers here are the bundled implementations.
package renderer

import (
	"context"

	"github.com/askiada/go-deckbuilder/pkg/deck"
)

// Document is the handle returned for a rendered deck.
type Document struct {
	Path  string
	Pages int
	Bytes int64
}

// Renderer receives the final ordered page list plus the deck configuration
// and produces a document.
type Renderer interface {
	Render(ctx context.Context, cfg deck.Config, pages []deck.Page, outPath string) (Document, error)
}
