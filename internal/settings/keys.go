// Package settings provides the key/value stores the widget configuration is
// persisted in, and the naming convention of its keys.
package settings

import "fmt"

// Settings keys. Per-line keys are a prefix followed by the zero-padded line
// index, e.g. "playback_status.format.02".
const (
	KeyRefreshInterval = "playback_status.refresh_interval"
	KeyNumLines        = "playback_status.num_lines"
	KeyFontPrefix      = "playback_status.font."
	KeyFormatPrefix    = "playback_status.format."
	KeyColorPrefix     = "playback_status.color."
)

// Default values
const (
	DefaultRefreshIntervalMs = 100
	DefaultNumLines          = 3
	DefaultColor             = "0 0 0"
)

var (
	defaultFormats = []string{"%e / %l", "%n. %t", "%B - (%y) %b"}
	defaultFonts   = []string{"Sans Bold 14", "Sans 12", "Sans 10"}
)

// LineKey returns the key of line i under prefix
func LineKey(prefix string, i int) string {
	return fmt.Sprintf("%s%02d", prefix, i)
}

// DefaultFormat returns the template a line gets when none is stored
func DefaultFormat(i int) string {
	if i >= 0 && i < len(defaultFormats) {
		return defaultFormats[i]
	}
	return ""
}

// DefaultFont returns the font descriptor a line gets when none is stored
func DefaultFont(i int) string {
	if i >= 0 && i < len(defaultFonts) {
		return defaultFonts[i]
	}
	return "Sans 10"
}
