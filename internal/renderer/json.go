package renderer

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/askiada/go-deckbuilder/pkg/deck"
)

// JSONRenderer writes the deck as a single indented JSON document.
type JSONRenderer struct{}

type jsonDocument struct {
	Config deck.Config `json:"config"`
	Pages  []deck.Page `json:"pages"`
}

func (JSONRenderer) Render(ctx context.Context, cfg deck.Config, pages []deck.Page, outPath string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	data, err := json.MarshalIndent(jsonDocument{Config: cfg, Pages: pages}, "", "  ")
	if err != nil {
		return Document{}, errors.Wrap(err, "unable to encode deck")
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return Document{}, errors.Wrapf(err, "unable to write deck %s", outPath)
	}

	return Document{Path: outPath, Pages: len(pages), Bytes: int64(len(data))}, nil
}

var _ Renderer = JSONRenderer{}
