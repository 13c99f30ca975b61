package deck_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/askiada/go-deckbuilder/pkg/deck"
)

func TestSpaceValid(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		space deck.Space
		want  bool
	}{
		"widescreen":      {space: deck.SpaceWidescreen, want: true},
		"standard":        {space: deck.SpaceStandard, want: true},
		"zero width":      {space: deck.Space{Width: 0, Height: 10}, want: false},
		"zero height":     {space: deck.Space{Width: 10, Height: 0}, want: false},
		"negative height": {space: deck.Space{Width: 10, Height: -1}, want: false},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.space.Valid())
		})
	}
}

func TestSortByZIndexStable(t *testing.T) {
	t.Parallel()

	page := deck.Page{}
	page.AddElement(deck.Element{Type: deck.ElementText, Content: "a", ZIndex: 2})
	page.AddElement(deck.Element{Type: deck.ElementText, Content: "b", ZIndex: 1})
	page.AddElement(deck.Element{Type: deck.ElementText, Content: "c", ZIndex: 1})
	page.AddElement(deck.Element{Type: deck.ElementText, Content: "d", ZIndex: 0})

	page.SortByZIndex()

	var got []string
	for _, el := range page.Elements {
		got = append(got, el.Content)
	}
	// Equal z-indexes keep their insertion order.
	assert.Equal(t, []string{"d", "b", "c", "a"}, got)
}

func TestElementFilters(t *testing.T) {
	t.Parallel()

	page := deck.Page{}
	page.AddElement(deck.Element{Type: deck.ElementText, Content: "a"})
	page.AddElement(deck.Element{Type: deck.ElementImage, Source: "x.png"})
	page.AddElement(deck.Element{Type: deck.ElementText, Content: "b"})

	assert.Len(t, page.TextElements(), 2)
	assert.Len(t, page.ImageElements(), 1)
	assert.Equal(t, "x.png", page.ImageElements()[0].Source)
}

func TestParseAlignment(t *testing.T) {
	t.Parallel()

	tcs := map[string]deck.Alignment{
		"left":    deck.AlignLeft,
		"center":  deck.AlignCenter,
		"right":   deck.AlignRight,
		"justify": deck.AlignJustify,
		"middle":  deck.AlignLeft,
		"":        deck.AlignLeft,
	}

	for input, want := range tcs {
		assert.Equal(t, want, deck.ParseAlignment(input), "input %q", input)
	}
}

func TestParseFitMode(t *testing.T) {
	t.Parallel()

	tcs := map[string]deck.FitMode{
		"contain": deck.FitContain,
		"cover":   deck.FitCover,
		"fill":    deck.FitFill,
		"stretch": deck.FitContain,
		"":        deck.FitContain,
	}

	for input, want := range tcs {
		assert.Equal(t, want, deck.ParseFitMode(input), "input %q", input)
	}
}

func TestConfigForFormat(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  deck.Config
	}{
		"widescreen":         {input: "16:9", want: deck.Widescreen()},
		"standard":           {input: "4:3", want: deck.Standard()},
		"unknown falls back": {input: "21:9", want: deck.Widescreen()},
		"empty falls back":   {input: "", want: deck.Widescreen()},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, deck.ConfigForFormat(tc.input))
		})
	}
}
