package compose

import (
	"fmt"
	"math"

	"github.com/askiada/go-deckbuilder/pkg/deck"
)

// InvalidDimensionError reports a normalisation request with a non-positive
// source dimension.
type InvalidDimensionError struct {
	Source deck.Space
}

func (e *InvalidDimensionError) Error() string {
	return fmt.Sprintf("invalid source space %s: dimensions must be strictly positive", e.Source)
}

// NormalizePoint maps (x, y) from the source space into the target space.
// The result is scaled, rounded, then clamped into [0, dimension-1] of the
// target space. The mapping is one way: applying it again with the spaces
// swapped does not recover the input.
func NormalizePoint(x, y int, source, target deck.Space) (int, int, error) {
	if !source.Valid() {
		return 0, 0, &InvalidDimensionError{Source: source}
	}

	nx := scale(x, source.Width, target.Width)
	ny := scale(y, source.Height, target.Height)

	return clamp(nx, 0, target.Width-1), clamp(ny, 0, target.Height-1), nil
}

// NormalizeSize maps (width, height) from the source space into the target
// space. Results are clamped into [1, dimension] so a degenerate extent can
// never reach the renderer.
func NormalizeSize(width, height int, source, target deck.Space) (int, int, error) {
	if !source.Valid() {
		return 0, 0, &InvalidDimensionError{Source: source}
	}

	nw := scale(width, source.Width, target.Width)
	nh := scale(height, source.Height, target.Height)

	return clamp(nw, 1, target.Width), clamp(nh, 1, target.Height), nil
}

// NormalizePage rewrites every element position and size of the page from
// source into target, in place. It is applied exactly once per page, right
// after parsing.
func NormalizePage(page *deck.Page, source, target deck.Space) error {
	for i := range page.Elements {
		el := &page.Elements[i]

		x, y, err := NormalizePoint(el.Position.X, el.Position.Y, source, target)
		if err != nil {
			return err
		}

		w, h, err := NormalizeSize(el.Size.Width, el.Size.Height, source, target)
		if err != nil {
			return err
		}

		el.Position = deck.Position{X: x, Y: y}
		el.Size = deck.Size{Width: w, Height: h}
	}
	page.Space = target

	return nil
}

func scale(v, source, target int) int {
	return int(math.Round(float64(v) * float64(target) / float64(source)))
}

func clamp(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}

	return v
}
