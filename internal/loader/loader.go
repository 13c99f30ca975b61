// Package loader reads raw input into normalised units. The create variant
// consumes a single outline unit; the convert variant consumes a lazy,
// finite sequence of raster units, each carrying its own dimensions.
package loader

import (
	"context"

	"github.com/askiada/go-deckbuilder/pkg/deck"
)

// Unit is one normalised input unit: a page image with its own coordinate
// space.
type Unit struct {
	ID    string
	Index int
	Space deck.Space
	Data  []byte
	MIME  string
}

// Source yields units lazily and in order. Next returns false once the
// sequence is exhausted.
type Source interface {
	Next(ctx context.Context) (Unit, bool, error)
}

// Drain collects the remaining units of a source, preserving order.
func Drain(ctx context.Context, src Source) ([]Unit, error) {
	var units []Unit
	for {
		unit, ok, err := src.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return units, nil
		}
		units = append(units, unit)
	}
}
