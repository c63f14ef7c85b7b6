//go:build !linux

package monitor

import (
	"context"
	"fmt"

	"github.com/genricoloni/playstatus/internal/domain"
	"go.uber.org/zap"
)

var _ domain.Monitor = (*MprisMonitor)(nil)

// MprisMonitor stub for non-Linux platforms
type MprisMonitor struct {
	logger *zap.Logger
	events chan domain.TransportEvent
}

// NewMprisMonitor creates a stub monitor that never reports a player
func NewMprisMonitor(logger *zap.Logger, preferred string) *MprisMonitor {
	ch := make(chan domain.TransportEvent)
	close(ch)
	return &MprisMonitor{logger: logger, events: ch}
}

// Start returns an error indicating MPRIS monitoring is not supported on this platform
func (m *MprisMonitor) Start(ctx context.Context) error {
	return fmt.Errorf("MPRIS monitoring is only supported on Linux systems: %w", domain.ErrNoPlayer)
}

// Stop is a no-op on non-Linux platforms
func (m *MprisMonitor) Stop(ctx context.Context) error {
	return nil
}

// Events returns a closed channel since monitoring is not available
func (m *MprisMonitor) Events() <-chan domain.TransportEvent {
	return m.events
}

// PlaybackState always reports that no player is reachable
func (m *MprisMonitor) PlaybackState(ctx context.Context) (domain.Snapshot, error) {
	return domain.Empty(), domain.ErrNoPlayer
}
