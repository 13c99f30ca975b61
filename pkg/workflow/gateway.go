package workflow

import (
	"context"

	"github.com/askiada/go-deckbuilder/pkg/deck"
)

// DeckSpec is the content generation request for the create variant.
type DeckSpec struct {
	Outline        string
	Theme          string
	Format         deck.Format
	GenerateImages bool
}

// PageImage is one raster unit submitted for analysis by the convert
// variant.
type PageImage struct {
	Data  []byte
	MIME  string
	Space deck.Space
}

// ModelGateway is the external generative service as the pipelines consume
// it. Implementations must surface authentication failures as Permanent
// errors, while rate limiting and timeouts stay retryable.
type ModelGateway interface {
	// GenerateDeck returns the structured JSON composition for an outline.
	GenerateDeck(ctx context.Context, spec DeckSpec) ([]byte, error)
	// AnalyzePage returns the structured JSON description of one page image.
	AnalyzePage(ctx context.Context, img PageImage) ([]byte, error)
	// GenerateImage returns raster bytes for a prompt.
	GenerateImage(ctx context.Context, prompt string, space deck.Space) ([]byte, error)
}
