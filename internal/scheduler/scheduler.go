// Package scheduler owns the recurring refresh timer of the status widget.
package scheduler

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/genricoloni/playstatus/internal/domain"
	"go.uber.org/zap"
)

// Scheduler fires onTick at a fixed interval while running. At most one
// timer is armed at any time, and no tick fires after Stop returns.
type Scheduler struct {
	logger *zap.Logger
	onTick func()

	mu       sync.Mutex
	running  bool
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}

	ticks atomic.Uint64
}

// New creates a stopped scheduler. onTick runs on the scheduler goroutine and
// must not call back into the scheduler.
func New(logger *zap.Logger, onTick func()) *Scheduler {
	return &Scheduler{
		logger: logger,
		onTick: onTick,
	}
}

// Start arms the timer with interval, cancelling any timer already armed
func (s *Scheduler) Start(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w: refresh interval %s", domain.ErrInvalidConfig, interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.startLocked(interval)
	return nil
}

// Stop disarms the timer. It waits for an in-flight tick to finish, so no
// tick fires once Stop has returned. Stopping a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopLocked() {
		s.logger.Debug("Refresh timer stopped")
	}
}

// Reconfigure is Stop followed by Start, atomic for other callers
func (s *Scheduler) Reconfigure(interval time.Duration) error {
	return s.Start(interval)
}

// Running reports whether the timer is armed
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Interval returns the interval of the armed timer, zero when stopped
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return 0
	}
	return s.interval
}

// Ticks returns the number of ticks fired since creation
func (s *Scheduler) Ticks() uint64 {
	return s.ticks.Load()
}

func (s *Scheduler) startLocked(interval time.Duration) {
	stop := make(chan struct{})
	done := make(chan struct{})
	s.stop, s.done = stop, done
	s.interval = interval
	s.running = true

	go s.loop(interval, stop, done)

	s.logger.Debug("Refresh timer armed", zap.Duration("interval", interval))
}

func (s *Scheduler) stopLocked() bool {
	if !s.running {
		return false
	}
	close(s.stop)
	<-s.done
	s.stop, s.done = nil, nil
	s.running = false
	return true
}

func (s *Scheduler) loop(interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	// time.Ticker drops ticks a slow receiver misses, so ticks never queue up
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// Stop may have been requested while the tick was pending
			select {
			case <-stop:
				return
			default:
			}
			s.ticks.Add(1)
			s.onTick()
		}
	}
}
