package deck

// Format names a canonical deck size.
type Format string

const (
	FormatWidescreen Format = "16:9"
	FormatStandard   Format = "4:3"
)

// Config carries the deck-level settings handed to the renderer together
// with the final page list.
type Config struct {
	Format            Format
	Space             Space
	Background        Background
	Theme             string
	DefaultFontFamily string
	DefaultFontSize   int
}

// Widescreen returns the 16:9 configuration with default styling.
func Widescreen() Config {
	return Config{
		Format:            FormatWidescreen,
		Space:             SpaceWidescreen,
		Background:        Background{Color: "#FFFFFF"},
		DefaultFontFamily: "Arial",
		DefaultFontSize:   18,
	}
}

// Standard returns the 4:3 configuration with default styling.
func Standard() Config {
	return Config{
		Format:            FormatStandard,
		Space:             SpaceStandard,
		Background:        Background{Color: "#FFFFFF"},
		DefaultFontFamily: "Arial",
		DefaultFontSize:   18,
	}
}

// ConfigForFormat maps an untrusted format string to a Config, falling back
// to widescreen.
func ConfigForFormat(s string) Config {
	if Format(s) == FormatStandard {
		return Standard()
	}

	return Widescreen()
}
