// Package deck defines the data model shared by the whole builder: coordinate
// spaces, elements, pages and the deck-level configuration.
//
// A deck is an ordered list of pages. Each page carries an ordered list of
// elements positioned inside a coordinate space. Element order is preserved
// from the moment a page is parsed until the deck is handed to a renderer.
package deck
