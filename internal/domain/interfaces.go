package domain

import "context"

//go:generate mockgen -destination=mocks/domain_mock.go -package=mocks github.com/genricoloni/playstatus/internal/domain StateSource,TemplateCompiler,Surface

// StateSource answers "is something playing, and if so what"
type StateSource interface {
	// PlaybackState returns a fresh snapshot. The caller owns the snapshot
	// until it calls Release, which it must do before returning.
	PlaybackState(ctx context.Context) (Snapshot, error)
}

// CompiledTemplate is an opaque handle produced by a TemplateCompiler.
// It must be handed back through Release before it is dropped.
type CompiledTemplate any

// TemplateCompiler defines the external template language service
type TemplateCompiler interface {
	// Compile turns a template string into an evaluable form
	Compile(src string) (CompiledTemplate, error)

	// Evaluate renders ct against the track, producing at most maxLen runes
	Evaluate(ct CompiledTemplate, track *TrackMetadata, maxLen int) (string, error)

	// Release disposes a compiled template
	Release(ct CompiledTemplate)
}

// SettingsStore is a flat string/int key-value store
type SettingsStore interface {
	GetInt(key string, def int) int
	GetString(key string, def string) string
	SetInt(key string, value int)
	SetString(key string, value string)
}

// Flusher is implemented by settings stores backed by persistent storage
type Flusher interface {
	Flush() error
}

// Reloader is implemented by settings stores that can re-read their backing
// storage. Reload reports whether the content changed.
type Reloader interface {
	Reload() (bool, error)
}

// Surface is the display boundary
type Surface interface {
	// RequestRepaint asks for a repaint. It never blocks and the surface
	// coalesces repeated requests.
	RequestRepaint()
}

// FrameSource produces the lines to paint. Surfaces call it from their paint path.
type FrameSource interface {
	Frame() []Line
}

// Display is a Surface that owns its paint loop
type Display interface {
	Surface

	// Run paints frames from src on every repaint request until ctx is cancelled
	Run(ctx context.Context, src FrameSource) error
}

// Monitor defines the interface for monitoring media playback.
// Implementations should handle D-Bus/MPRIS communication
type Monitor interface {
	StateSource

	// Start connects to the player bus and begins emitting events.
	// It returns once monitoring is running.
	Start(ctx context.Context) error

	// Stop gracefully stops the monitor
	Stop(ctx context.Context) error

	// Events returns a read-only channel of transport events
	Events() <-chan TransportEvent
}

// SettingsWatcher reports changes to persisted settings made outside the process
type SettingsWatcher interface {
	Start(ctx context.Context) error
	Stop() error
	Changes() <-chan struct{}
}
