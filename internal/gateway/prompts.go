package gateway

import "fmt"

const compositionSystemPrompt = `You design slide decks. Given an outline you
return only a JSON object of the form:
{
  "deck_config": {"size": "16:9", "theme": "default", "background_color": "#FFFFFF"},
  "pages": [
    {
      "title": "Slide title",
      "background": {"color": "#FFFFFF"},
      "elements": [
        {"type": "text", "position": {"x": 100, "y": 200}, "size": {"width": 800, "height": 100},
         "content": "...", "font": {"family": "Arial", "size": 24, "color": "#000000", "bold": false},
         "alignment": "left", "z_index": 1},
        {"type": "image", "id": "img-1", "position": {"x": 960, "y": 200}, "size": {"width": 600, "height": 400},
         "generate": true, "prompt": "a description of the image", "fit_mode": "contain", "z_index": 0}
      ]
    }
  ]
}
Coordinates are pixels in the requested deck size. Do not wrap the JSON in
markdown fences.`

func compositionUserPrompt(outline, theme string, format string) string {
	return fmt.Sprintf("Theme: %s\nDeck size: %s\n\nOutline:\n%s", theme, format, outline)
}

const analysisSystemPrompt = `You extract the structure of a slide from its
rendered image. Return only a JSON object of the form:
{
  "title": "Slide title",
  "background": {"color": "#FFFFFF"},
  "elements": [
    {"type": "text", "position": {"x": 0, "y": 0}, "size": {"width": 0, "height": 0},
     "content": "...", "style": {"family": "Arial", "size": 24, "color": "#000000"}, "alignment": "left"},
    {"type": "image", "position": {"x": 0, "y": 0}, "size": {"width": 0, "height": 0},
     "description": "what the image shows"}
  ]
}
Positions and sizes are pixels in the source image. Do not wrap the JSON in
markdown fences.`

func analysisUserPrompt(width, height int) string {
	return fmt.Sprintf("The image is %dx%d pixels. Describe every visible element.", width, height)
}
