package compose_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-deckbuilder/pkg/compose"
	"github.com/askiada/go-deckbuilder/pkg/deck"
)

func TestParseDeckStructuralFailures(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		raw   string
		field string
	}{
		"truncated json":  {raw: `{"pages": [`, field: "(root)"},
		"root not object": {raw: `[1, 2]`, field: "(root)"},
		"missing pages":   {raw: `{"deck_config": {}}`, field: "pages"},
		"pages not array": {raw: `{"pages": 5}`, field: "pages"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, _, err := compose.NewParser(nil).ParseDeck([]byte(tc.raw))

			var verr *compose.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestParseDeck(t *testing.T) {
	t.Parallel()

	raw := `{
		"deck_config": {"size": "4:3", "theme": "minimal", "background_color": "#FF0000"},
		"pages": [
			{
				"title": "Intro",
				"notes": "open slowly",
				"elements": [
					{
						"type": "text",
						"content": "Hello",
						"position": {"x": 10, "y": 20},
						"size": {"width": 200, "height": 50},
						"font": {"family": "Georgia", "size": 500, "bold": true},
						"alignment": "center",
						"z_index": 2
					},
					{
						"type": "image",
						"id": "img1",
						"generate": true,
						"prompt": "a blue square",
						"position": {"x": 0, "y": 0},
						"size": {"width": 100, "height": 100}
					},
					{"type": "video", "source": "clip.mp4"},
					{
						"type": "text",
						"content": "broken",
						"position": {"x": "left", "y": 0}
					}
				]
			},
			{"elements": []}
		]
	}`

	cfg, pages, err := compose.NewParser(nil).ParseDeck([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, deck.FormatStandard, cfg.Format)
	assert.Equal(t, deck.SpaceStandard, cfg.Space)
	assert.Equal(t, "minimal", cfg.Theme)
	assert.True(t, strings.EqualFold("#FF0000", cfg.Background.Color))

	require.Len(t, pages, 2)
	assert.Equal(t, 1, pages[0].Number)
	assert.Equal(t, 2, pages[1].Number)
	assert.Equal(t, "Intro", pages[0].Title)
	assert.Equal(t, "open slowly", pages[0].Notes)

	// The unknown type and the malformed position are dropped, nothing else.
	require.Len(t, pages[0].Elements, 2)

	text := pages[0].Elements[0]
	assert.True(t, text.IsText())
	assert.Equal(t, "Hello", text.Content)
	assert.Equal(t, deck.Position{X: 10, Y: 20}, text.Position)
	assert.Equal(t, deck.AlignCenter, text.Alignment)
	assert.Equal(t, 2, text.ZIndex)
	assert.Equal(t, "Georgia", text.Font.Family)
	assert.Equal(t, 200, text.Font.Size)
	assert.True(t, text.Font.Bold)

	img := pages[0].Elements[1]
	assert.True(t, img.IsImage())
	assert.Equal(t, "img1", img.Source)
	assert.True(t, img.Generate)
	assert.Equal(t, "a blue square", img.Prompt)
}

func TestParseDeckDefaults(t *testing.T) {
	t.Parallel()

	raw := `{
		"pages": [
			{
				"elements": [
					{"type": "text", "content": "bare"},
					{"type": "image", "source": "logo.png", "fit_mode": "stretchy", "alignment": "middle"}
				]
			}
		]
	}`

	cfg, pages, err := compose.NewParser(nil).ParseDeck([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, deck.FormatWidescreen, cfg.Format)
	assert.Equal(t, "Arial", cfg.DefaultFontFamily)

	require.Len(t, pages, 1)
	require.Len(t, pages[0].Elements, 2)

	text := pages[0].Elements[0]
	assert.Equal(t, deck.Position{X: 0, Y: 0}, text.Position)
	assert.Equal(t, deck.Size{Width: 100, Height: 50}, text.Size)
	assert.Equal(t, deck.AlignLeft, text.Alignment)
	assert.Equal(t, deck.DefaultFont(), text.Font)
	assert.InDelta(t, 1.0, text.Opacity, 0.0001)

	img := pages[0].Elements[1]
	assert.Equal(t, deck.FitContain, img.FitMode)
	assert.Equal(t, "logo.png", img.Source)
	assert.False(t, img.Generate)
}

func TestParseDeckDropsMalformedPage(t *testing.T) {
	t.Parallel()

	raw := `{"pages": ["oops", {"title": "Kept", "elements": []}]}`

	_, pages, err := compose.NewParser(nil).ParseDeck([]byte(raw))
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "Kept", pages[0].Title)
	assert.Equal(t, 1, pages[0].Number)
}

func TestParsePage(t *testing.T) {
	t.Parallel()

	space := deck.Space{Width: 800, Height: 600}
	raw := `{
		"title": "Scanned",
		"elements": [
			{
				"type": "text",
				"content": "Caption",
				"position": {"x": 40, "y": 60},
				"size": {"width": 300, "height": 80},
				"style": {"family": "Courier", "size": 14, "color": {"r": 300, "g": -5, "b": 100}},
				"opacity": 2.5
			}
		]
	}`

	page, err := compose.NewParser(nil).ParsePage([]byte(raw), space)
	require.NoError(t, err)

	assert.Equal(t, space, page.Space)
	assert.Equal(t, "Scanned", page.Title)
	require.Len(t, page.Elements, 1)

	el := page.Elements[0]
	assert.Equal(t, "Courier", el.Font.Family)
	assert.Equal(t, 14, el.Font.Size)
	assert.True(t, strings.EqualFold("#FF0064", el.Font.Color), "got %s", el.Font.Color)
	assert.InDelta(t, 1.0, el.Opacity, 0.0001)
}

func TestParsePageStructuralFailures(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		raw   string
		field string
	}{
		"not an object":      {raw: `42`, field: "(root)"},
		"missing elements":   {raw: `{"title": "x"}`, field: "elements"},
		"elements not array": {raw: `{"elements": {}}`, field: "elements"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := compose.NewParser(nil).ParsePage([]byte(tc.raw), deck.SpaceWidescreen)

			var verr *compose.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestParseColorFallback(t *testing.T) {
	t.Parallel()

	raw := `{
		"pages": [
			{
				"elements": [
					{"type": "text", "content": "x", "font": {"color": "not-a-colour"}}
				]
			}
		]
	}`

	_, pages, err := compose.NewParser(nil).ParseDeck([]byte(raw))
	require.NoError(t, err)
	require.Len(t, pages[0].Elements, 1)
	assert.Equal(t, deck.DefaultFont().Color, pages[0].Elements[0].Font.Color)
}
