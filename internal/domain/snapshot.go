package domain

import "sync"

// Snapshot is the read-only playback state visible to a single render pass.
// The track it carries is borrowed from the host: callers must call Release
// before the render call returns and must not keep the track afterwards.
type Snapshot struct {
	track   *TrackMetadata
	release *releaseOnce
}

type releaseOnce struct {
	once sync.Once
	fn   func()
}

// Empty returns the snapshot for "nothing is playing"
func Empty() Snapshot {
	return Snapshot{}
}

// Playing returns a snapshot for the given track. release may be nil when the
// host does not need an explicit release.
func Playing(track *TrackMetadata, release func()) Snapshot {
	if track == nil {
		return Empty()
	}
	s := Snapshot{track: track}
	if release != nil {
		s.release = &releaseOnce{fn: release}
	}
	return s
}

// IsEmpty reports whether nothing is playing
func (s Snapshot) IsEmpty() bool {
	return s.track == nil
}

// Track returns the borrowed metadata, nil for an empty snapshot
func (s Snapshot) Track() *TrackMetadata {
	return s.track
}

// Release hands the metadata back to the host. It is safe to call more than once.
func (s Snapshot) Release() {
	if s.release != nil {
		s.release.once.Do(s.release.fn)
	}
}
