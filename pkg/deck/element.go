package deck

// ElementType discriminates the element union.
type ElementType string

const (
	ElementText  ElementType = "text"
	ElementImage ElementType = "image"
)

// Position is a top-left anchored coordinate pair.
type Position struct {
	X int
	Y int
}

// Size is an element extent, always strictly positive after normalisation.
type Size struct {
	Width  int
	Height int
}

// Alignment controls horizontal text layout.
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

// ParseAlignment maps an untrusted string to an Alignment, falling back to
// AlignLeft for anything unrecognised.
func ParseAlignment(s string) Alignment {
	switch Alignment(s) {
	case AlignLeft, AlignCenter, AlignRight, AlignJustify:
		return Alignment(s)
	}

	return AlignLeft
}

// FitMode controls how an image fills its box.
type FitMode string

const (
	FitContain FitMode = "contain"
	FitCover   FitMode = "cover"
	FitFill    FitMode = "fill"
)

// ParseFitMode maps an untrusted string to a FitMode, falling back to
// FitContain for anything unrecognised.
func ParseFitMode(s string) FitMode {
	switch FitMode(s) {
	case FitContain, FitCover, FitFill:
		return FitMode(s)
	}

	return FitContain
}

// Font holds the text style attributes of a text element.
type Font struct {
	Family    string
	Size      int
	Color     string
	Bold      bool
	Italic    bool
	Underline bool
}

// DefaultFont is applied when the generated description omits font details.
func DefaultFont() Font {
	return Font{Family: "Arial", Size: 18, Color: "#000000"}
}

// Element is the discriminated union over text and image content. Type
// selects which of the type-specific fields are meaningful.
type Element struct {
	Type     ElementType
	Position Position
	Size     Size
	ZIndex   int
	Opacity  float64

	// Text fields.
	Content     string
	Font        Font
	Alignment   Alignment
	LineSpacing float64

	// Image fields.
	Source   string
	FitMode  FitMode
	AltText  string
	Generate bool
	Prompt   string
}

// IsText reports whether the element carries text content.
func (e Element) IsText() bool { return e.Type == ElementText }

// IsImage reports whether the element carries image content.
func (e Element) IsImage() bool { return e.Type == ElementImage }
