package renderer

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-deckbuilder/pkg/deck"
)

// MarkdownRenderer writes a readable summary of the deck, one section per
// page. Useful for reviewing a composition without a presentation viewer.
type MarkdownRenderer struct{}

func (MarkdownRenderer) Render(ctx context.Context, cfg deck.Config, pages []deck.Page, outPath string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Deck (%s, %s)\n", cfg.Format, cfg.Space)
	if cfg.Theme != "" {
		fmt.Fprintf(&b, "\nTheme: %s\n", cfg.Theme)
	}

	for _, page := range pages {
		title := page.Title
		if title == "" {
			title = fmt.Sprintf("Page %d", page.Number)
		}
		fmt.Fprintf(&b, "\n## %d. %s\n\n", page.Number, title)

		for _, el := range page.Elements {
			switch el.Type {
			case deck.ElementText:
				fmt.Fprintf(&b, "- text (%d,%d %dx%d): %s\n",
					el.Position.X, el.Position.Y, el.Size.Width, el.Size.Height,
					firstLine(el.Content))
			case deck.ElementImage:
				fmt.Fprintf(&b, "- image (%d,%d %dx%d): %s\n",
					el.Position.X, el.Position.Y, el.Size.Width, el.Size.Height, el.Source)
			}
		}
		if page.Notes != "" {
			fmt.Fprintf(&b, "\n> %s\n", firstLine(page.Notes))
		}
	}

	data := []byte(b.String())
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return Document{}, errors.Wrapf(err, "unable to write deck %s", outPath)
	}

	return Document{Path: outPath, Pages: len(pages), Bytes: int64(len(data))}, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}

	return s
}

var _ Renderer = MarkdownRenderer{}
