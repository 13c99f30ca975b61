package deck

import "sort"

// Background describes what sits behind the elements of a page. Exactly one
// of Color and Image is usually set; an empty Background inherits the deck
// default.
type Background struct {
	Color string
	Image string
}

// Page is the validated structural description of one output unit. Element
// order is stable from creation to final assembly.
type Page struct {
	Number     int
	Title      string
	Background Background
	Space      Space
	Elements   []Element
	Notes      string
}

// AddElement appends an element, preserving insertion order.
func (p *Page) AddElement(el Element) {
	p.Elements = append(p.Elements, el)
}

// SortByZIndex orders elements back-to-front. The sort is stable so elements
// sharing a z-index keep their original relative order.
func (p *Page) SortByZIndex() {
	sort.SliceStable(p.Elements, func(i, j int) bool {
		return p.Elements[i].ZIndex < p.Elements[j].ZIndex
	})
}

// TextElements returns the text elements in page order.
func (p *Page) TextElements() []Element {
	var out []Element
	for _, el := range p.Elements {
		if el.IsText() {
			out = append(out, el)
		}
	}

	return out
}

// ImageElements returns the image elements in page order.
func (p *Page) ImageElements() []Element {
	var out []Element
	for _, el := range p.Elements {
		if el.IsImage() {
			out = append(out, el)
		}
	}

	return out
}
