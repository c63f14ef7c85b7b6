package domain

import (
	"fmt"
	"time"
)

// MaxLines is the number of display lines a widget can configure
const MaxLines = 10

// PlayerStatus represents the current state of the media player
type PlayerStatus string

const (
	// StatusPlaying indicates the media is currently playing
	StatusPlaying PlayerStatus = "Playing"
	// StatusPaused indicates the media is paused
	StatusPaused PlayerStatus = "Paused"
	// StatusStopped indicates the media is stopped
	StatusStopped PlayerStatus = "Stopped"
)

// TrackMetadata contains the render-relevant information about the current track
type TrackMetadata struct {
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	Genre       string
	Comment     string
	// TrackNumber is zero when the player does not report one
	TrackNumber int
	Year        string
	// URL is the location of the track (file:// or http://)
	URL     string
	Elapsed time.Duration
	Length  time.Duration
	Status  PlayerStatus
}

// RGB is a color with 16-bit channels, the range used by the persisted settings
type RGB struct {
	R uint16
	G uint16
	B uint16
}

// Hex returns the color as an 8-bit #rrggbb string
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R>>8, c.G>>8, c.B>>8)
}

// Black is the default text color
var Black = RGB{}

// FontWeight is a font weight on the usual 100..1000 scale
type FontWeight int

const (
	WeightThin       FontWeight = 100
	WeightUltraLight FontWeight = 200
	WeightLight      FontWeight = 300
	WeightBook       FontWeight = 380
	WeightNormal     FontWeight = 400
	WeightMedium     FontWeight = 500
	WeightSemiBold   FontWeight = 600
	WeightBold       FontWeight = 700
	WeightUltraBold  FontWeight = 800
	WeightHeavy      FontWeight = 900
)

// FontStyle is a parsed font descriptor. It is immutable once built and
// replaced wholesale on reconfiguration.
type FontStyle struct {
	Family string
	Size   float64
	Weight FontWeight
	Italic bool
}

// Style is everything the display needs besides the text itself
type Style struct {
	Font  FontStyle
	Color RGB
}

// LineConfig is the persisted configuration of one display line
type LineConfig struct {
	Index    int
	Template string
	// Font is the unparsed descriptor, e.g. "Sans Bold 14"
	Font  string
	Color RGB
}

// GlobalConfig holds the settings shared by all lines
type GlobalConfig struct {
	RefreshInterval time.Duration
	ActiveLines     int
}

// Line is one rendered row handed to the display surface
type Line struct {
	Index int
	Text  string
	Style Style
}

// TransportEvent is a playback or settings notification delivered by the host
type TransportEvent string

const (
	EventStarted         TransportEvent = "started"
	EventPaused          TransportEvent = "paused"
	EventResumed         TransportEvent = "resumed"
	EventStopped         TransportEvent = "stopped"
	EventSettingsChanged TransportEvent = "settings-changed"
)
