package renderer_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-deckbuilder/internal/renderer"
	"github.com/askiada/go-deckbuilder/pkg/deck"
)

func samplePages() []deck.Page {
	return []deck.Page{
		{
			Number: 1,
			Title:  "Intro",
			Space:  deck.SpaceWidescreen,
			Elements: []deck.Element{
				{
					Type:     deck.ElementText,
					Content:  "Hello\nsecond line",
					Position: deck.Position{X: 100, Y: 50},
					Size:     deck.Size{Width: 400, Height: 120},
				},
				{
					Type:     deck.ElementImage,
					Source:   "/staging/img1.png",
					Position: deck.Position{X: 600, Y: 200},
					Size:     deck.Size{Width: 300, Height: 300},
				},
			},
			Notes: "speak slowly",
		},
		{Number: 2, Space: deck.SpaceWidescreen},
	}
}

func TestJSONRenderer(t *testing.T) {
	t.Parallel()

	outPath := filepath.Join(t.TempDir(), "deck.json")
	doc, err := renderer.JSONRenderer{}.Render(context.Background(), deck.Widescreen(), samplePages(), outPath)
	require.NoError(t, err)

	assert.Equal(t, outPath, doc.Path)
	assert.Equal(t, 2, doc.Pages)
	assert.Positive(t, doc.Bytes)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.EqualValues(t, len(data), doc.Bytes)

	var decoded struct {
		Config deck.Config `json:"config"`
		Pages  []deck.Page `json:"pages"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, deck.FormatWidescreen, decoded.Config.Format)
	require.Len(t, decoded.Pages, 2)
	assert.Equal(t, "Intro", decoded.Pages[0].Title)
	assert.Len(t, decoded.Pages[0].Elements, 2)
}

func TestMarkdownRenderer(t *testing.T) {
	t.Parallel()

	cfg := deck.Widescreen()
	cfg.Theme = "minimal"

	outPath := filepath.Join(t.TempDir(), "deck.md")
	doc, err := renderer.MarkdownRenderer{}.Render(context.Background(), cfg, samplePages(), outPath)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Pages)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	got := string(data)

	assert.Contains(t, got, "# Deck (16:9, 1920x1080)")
	assert.Contains(t, got, "Theme: minimal")
	assert.Contains(t, got, "## 1. Intro")
	assert.Contains(t, got, "## 2. Page 2")
	assert.Contains(t, got, "- text (100,50 400x120): Hello")
	assert.NotContains(t, got, "second line")
	assert.Contains(t, got, "- image (600,200 300x300): /staging/img1.png")
	assert.Contains(t, got, "> speak slowly")
}

func TestRenderCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outPath := filepath.Join(t.TempDir(), "deck.json")
	_, err := renderer.JSONRenderer{}.Render(ctx, deck.Widescreen(), nil, outPath)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, outPath)
}

func TestRenderUnwritablePath(t *testing.T) {
	t.Parallel()

	outPath := filepath.Join(t.TempDir(), "missing", "deck.json")
	_, err := renderer.JSONRenderer{}.Render(context.Background(), deck.Widescreen(), nil, outPath)
	assert.Error(t, err)
}
