package compose

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	colors "gopkg.in/go-playground/colors.v1"

	"github.com/askiada/go-deckbuilder/pkg/deck"
)

// ValidationError reports a structurally required top-level field that is
// absent or of the wrong shape. Local defects never raise it; they are
// degraded element by element instead.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid generated output: field %q %s", e.Field, e.Reason)
}

// Parser validates and normalises untrusted generated descriptions. The
// generative service drifts, hallucinates fields and truncates JSON; the
// parser keeps everything salvageable and drops the rest.
type Parser struct {
	log *zap.Logger
}

// NewParser returns a parser logging degradations through log.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}

	return &Parser{log: log}
}

// ParseDeck decodes a full generated composition: deck configuration plus
// the ordered page list. The page list is the only structurally required
// field.
func (p *Parser) ParseDeck(raw []byte) (deck.Config, []deck.Page, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return deck.Config{}, nil, &ValidationError{Field: "(root)", Reason: "is not a JSON object"}
	}

	cfg := p.parseConfig(doc["deck_config"])

	rawPages, ok := doc["pages"]
	if !ok {
		return deck.Config{}, nil, &ValidationError{Field: "pages", Reason: "is missing"}
	}

	items, ok := rawPages.([]any)
	if !ok {
		return deck.Config{}, nil, &ValidationError{Field: "pages", Reason: "is not an array"}
	}

	pages := p.ParsePages(items, cfg.Space)

	return cfg, pages, nil
}

// ParsePage decodes a single generated page description, as returned by a
// per-unit analysis call. The element list is the only structurally required
// field.
func (p *Parser) ParsePage(raw []byte, space deck.Space) (deck.Page, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return deck.Page{}, &ValidationError{Field: "(root)", Reason: "is not a JSON object"}
	}

	if _, ok := doc["elements"]; !ok {
		return deck.Page{}, &ValidationError{Field: "elements", Reason: "is missing"}
	}
	if _, ok := doc["elements"].([]any); !ok {
		return deck.Page{}, &ValidationError{Field: "elements", Reason: "is not an array"}
	}

	return p.parsePage(doc, 1, space), nil
}

// ParsePages decodes the page list in order. Page numbers are assigned from
// input order, never from anything the service claims.
func (p *Parser) ParsePages(items []any, space deck.Space) []deck.Page {
	pages := make([]deck.Page, 0, len(items))

	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			p.log.Warn("dropping malformed page entry", zap.Int("index", i))

			continue
		}
		pages = append(pages, p.parsePage(m, len(pages)+1, space))
	}
	p.log.Debug("pages parsed", zap.Int("count", len(pages)))

	return pages
}

func (p *Parser) parseConfig(v any) deck.Config {
	cfg := deck.Widescreen()

	m, ok := v.(map[string]any)
	if !ok {
		return cfg
	}

	if format, ok := m["size"].(string); ok {
		cfg = deck.ConfigForFormat(format)
	}
	if theme, ok := m["theme"].(string); ok {
		cfg.Theme = theme
	}
	if family, ok := m["default_font_family"].(string); ok && family != "" {
		cfg.DefaultFontFamily = family
	}
	cfg.Background.Color = p.parseColor(m["background_color"], cfg.Background.Color)

	return cfg
}

func (p *Parser) parsePage(m map[string]any, number int, space deck.Space) deck.Page {
	page := deck.Page{
		Number: number,
		Space:  space,
	}

	if title, ok := m["title"].(string); ok {
		page.Title = title
	}
	if notes, ok := m["notes"].(string); ok {
		page.Notes = notes
	}
	page.Background = p.parseBackground(m["background"], m["background_color"])

	items, _ := m["elements"].([]any)
	for i, item := range items {
		em, ok := item.(map[string]any)
		if !ok {
			p.log.Warn("dropping malformed element entry",
				zap.Int("page", number), zap.Int("index", i))

			continue
		}

		el, ok := p.parseElement(em, number, i)
		if !ok {
			continue
		}
		page.AddElement(el)
	}

	return page
}

func (p *Parser) parseBackground(background, legacyColor any) deck.Background {
	bg := deck.Background{}

	if m, ok := background.(map[string]any); ok {
		bg.Color = p.parseColor(m["color"], "")
		if img, ok := m["image"].(string); ok {
			bg.Image = img
		}

		return bg
	}

	// Older prompt revisions emit a flat background_color field.
	bg.Color = p.parseColor(legacyColor, "")

	return bg
}

func (p *Parser) parseElement(m map[string]any, page, index int) (deck.Element, bool) {
	kind, _ := m["type"].(string)

	switch deck.ElementType(kind) {
	case deck.ElementText:
		return p.parseTextElement(m, page, index)
	case deck.ElementImage:
		return p.parseImageElement(m, page, index)
	default:
		p.log.Warn("dropping element with unknown type",
			zap.String("type", kind), zap.Int("page", page), zap.Int("index", index))

		return deck.Element{}, false
	}
}

func (p *Parser) parseTextElement(m map[string]any, page, index int) (deck.Element, bool) {
	el := deck.Element{
		Type:        deck.ElementText,
		Opacity:     clampFloat(numberOr(m, "opacity", 1), 0, 1),
		ZIndex:      int(numberOr(m, "z_index", 0)),
		Font:        p.parseFont(m["font"], m["style"]),
		LineSpacing: clampFloat(numberOr(m, "line_spacing", 1), 0.1, 3),
	}

	ok := p.parseBox(&el, m, page, index)
	if !ok {
		return deck.Element{}, false
	}

	if content, ok := m["content"].(string); ok {
		el.Content = content
	}
	el.Alignment = deck.ParseAlignment(stringField(m, "alignment"))

	return el, true
}

func (p *Parser) parseImageElement(m map[string]any, page, index int) (deck.Element, bool) {
	el := deck.Element{
		Type:    deck.ElementImage,
		Opacity: clampFloat(numberOr(m, "opacity", 1), 0, 1),
		ZIndex:  int(numberOr(m, "z_index", 0)),
		FitMode: deck.ParseFitMode(stringField(m, "fit_mode")),
	}

	ok := p.parseBox(&el, m, page, index)
	if !ok {
		return deck.Element{}, false
	}

	if src, ok := m["source"].(string); ok {
		el.Source = src
	} else if src, ok := m["image_path"].(string); ok {
		el.Source = src
	}
	if alt, ok := m["alt_text"].(string); ok {
		el.AltText = alt
	} else if alt, ok := m["description"].(string); ok {
		el.AltText = alt
	}
	if gen, ok := m["generate"].(bool); ok {
		el.Generate = gen
	}
	if prompt, ok := m["prompt"].(string); ok {
		el.Prompt = prompt
	}
	if id, ok := m["id"].(string); ok && el.Source == "" {
		// Generated images reference their asset id until the assembler
		// rewrites it with a real location.
		el.Source = id
	}

	return el, true
}

// parseBox fills position and size. A present-but-malformed numeric field
// drops the whole element; a missing field gets the default box.
func (p *Parser) parseBox(el *deck.Element, m map[string]any, page, index int) bool {
	x, ok := nestedNumber(m, "position", "x", 0)
	if !ok {
		p.log.Warn("dropping element with malformed position",
			zap.Int("page", page), zap.Int("index", index))

		return false
	}
	y, ok := nestedNumber(m, "position", "y", 0)
	if !ok {
		p.log.Warn("dropping element with malformed position",
			zap.Int("page", page), zap.Int("index", index))

		return false
	}
	w, ok := nestedNumber(m, "size", "width", 100)
	if !ok {
		p.log.Warn("dropping element with malformed size",
			zap.Int("page", page), zap.Int("index", index))

		return false
	}
	h, ok := nestedNumber(m, "size", "height", 50)
	if !ok {
		p.log.Warn("dropping element with malformed size",
			zap.Int("page", page), zap.Int("index", index))

		return false
	}

	el.Position = deck.Position{X: int(x), Y: int(y)}
	el.Size = deck.Size{Width: int(w), Height: int(h)}

	return true
}

func (p *Parser) parseFont(font, style any) deck.Font {
	out := deck.DefaultFont()

	m, ok := font.(map[string]any)
	if !ok {
		// Analysis responses nest font attributes under "style".
		m, ok = style.(map[string]any)
		if !ok {
			return out
		}
	}

	if family, ok := m["family"].(string); ok && family != "" {
		out.Family = family
	}
	out.Size = int(clampFloat(numberOr(m, "size", float64(out.Size)), 1, 200))
	out.Color = p.parseColor(m["color"], out.Color)
	if b, ok := m["bold"].(bool); ok {
		out.Bold = b
	}
	if i, ok := m["italic"].(bool); ok {
		out.Italic = i
	}
	if u, ok := m["underline"].(bool); ok {
		out.Underline = u
	}

	return out
}

// parseColor accepts either a hex string or an {r,g,b} object. Out-of-range
// channels are clamped into [0, 255]; anything unparseable falls back.
func (p *Parser) parseColor(v any, fallback string) string {
	switch c := v.(type) {
	case string:
		parsed, err := colors.Parse(c)
		if err != nil {
			p.log.Warn("falling back on unparseable colour", zap.String("value", c))

			return fallback
		}

		return parsed.ToHEX().String()
	case map[string]any:
		r := clampChannel(numberOr(c, "r", 0))
		g := clampChannel(numberOr(c, "g", 0))
		b := clampChannel(numberOr(c, "b", 0))
		rgb, err := colors.RGB(r, g, b)
		if err != nil {
			return fallback
		}

		return rgb.ToHEX().String()
	default:
		return fallback
	}
}

func clampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}

	return uint8(v)
}

func clampFloat(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}

	return v
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)

	return s
}

// numberOr returns the numeric value of key, or def when the key is absent
// or non-numeric. Use it for fields whose malformation is tolerable.
func numberOr(m map[string]any, key string, def float64) float64 {
	v, ok := m[key]
	if !ok {
		return def
	}
	f, ok := v.(float64)
	if !ok {
		return def
	}

	return f
}

// nestedNumber returns m[outer][inner]. A missing field yields the default;
// a present but non-numeric field is a malformation and yields ok=false.
func nestedNumber(m map[string]any, outer, inner string, def float64) (float64, bool) {
	ov, ok := m[outer]
	if !ok {
		return def, true
	}
	om, ok := ov.(map[string]any)
	if !ok {
		return 0, false
	}
	iv, ok := om[inner]
	if !ok {
		return def, true
	}
	f, ok := iv.(float64)
	if !ok {
		return 0, false
	}

	return f, true
}
