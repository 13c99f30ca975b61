package compose_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-deckbuilder/pkg/compose"
	"github.com/askiada/go-deckbuilder/pkg/deck"
)

func TestAssemble(t *testing.T) {
	t.Parallel()

	pages := []deck.Page{
		{
			Number: 1,
			Elements: []deck.Element{
				{Type: deck.ElementText, Content: "img1"},
				{Type: deck.ElementImage, Source: "img1"},
				{Type: deck.ElementImage, Source: "img2"},
			},
		},
		{
			Number: 2,
			Elements: []deck.Element{
				{Type: deck.ElementImage, Source: "https://example.com/kept.png"},
			},
		},
	}

	got := compose.Assemble(pages, map[string]string{
		"img1":   "/staging/img1.png",
		"unused": "/staging/unused.png",
	})

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Number)
	assert.Equal(t, 2, got[1].Number)

	// Text elements are never rewritten, even when their content collides
	// with an asset id.
	assert.Equal(t, "img1", got[0].Elements[0].Content)
	assert.Equal(t, "/staging/img1.png", got[0].Elements[1].Source)

	// Sources without a matching asset stay as they are.
	assert.Equal(t, "img2", got[0].Elements[2].Source)
	assert.Equal(t, "https://example.com/kept.png", got[1].Elements[0].Source)
}

func TestAssembleNoAssets(t *testing.T) {
	t.Parallel()

	pages := []deck.Page{
		{Number: 1, Elements: []deck.Element{{Type: deck.ElementImage, Source: "img1"}}},
	}

	got := compose.Assemble(pages, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "img1", got[0].Elements[0].Source)
}
