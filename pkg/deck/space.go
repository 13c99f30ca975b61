package deck

import "fmt"

// Space is a (width, height) pair defining a positional reference frame.
// It is an immutable value type.
type Space struct {
	Width  int
	Height int
}

// Valid reports whether both dimensions are strictly positive.
func (s Space) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

func (s Space) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Canonical spaces for the supported deck formats.
var (
	SpaceWidescreen = Space{Width: 1920, Height: 1080}
	SpaceStandard   = Space{Width: 1024, Height: 768}
)
