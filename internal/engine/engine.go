package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/genricoloni/playstatus/internal/domain"
	"go.uber.org/zap"
)

// settingsDebounce is the quiet period after a settings file change before
// it is reloaded. Editors often write a file in several steps.
const settingsDebounce = 500 * time.Millisecond

// Handler receives the events the engine routes
type Handler interface {
	Init() error
	OnTransportEvent(ev domain.TransportEvent)
	Shutdown() error
}

// Engine routes player transport events and settings file changes to the
// status widget.
type Engine struct {
	logger   *zap.Logger
	monitor  domain.Monitor
	watcher  domain.SettingsWatcher
	handler  Handler
	debounce time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	stopped bool
}

// NewEngine creates a new routing engine
func NewEngine(
	logger *zap.Logger,
	mon domain.Monitor,
	watcher domain.SettingsWatcher,
	handler Handler,
) *Engine {
	return &Engine{
		logger:   logger,
		monitor:  mon,
		watcher:  watcher,
		handler:  handler,
		debounce: settingsDebounce,
	}
}

// Start initializes the widget from its settings and launches the event loop.
// It returns immediately (non-blocking).
func (e *Engine) Start(ctx context.Context) error {
	e.logger.Info("Engine starting...")

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil || e.stopped {
		return nil
	}

	if err := e.handler.Init(); err != nil {
		return fmt.Errorf("failed to initialize status widget: %w", err)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.wg.Add(1)
	go e.runLoop(loopCtx)
	return nil
}

// runLoop dispatches transport events as they arrive and debounces settings changes
func (e *Engine) runLoop(ctx context.Context) {
	defer e.wg.Done()

	events := e.monitor.Events()
	changes := e.watcher.Changes()

	timer := time.NewTimer(e.debounce)
	timer.Stop() // Start with stopped timer

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			e.logger.Info("Engine loop stopped")
			return

		case ev, ok := <-events:
			if !ok {
				e.logger.Info("Monitor events channel closed")
				events = nil
				continue
			}
			e.logger.Debug("Transport event received", zap.String("event", string(ev)))
			e.handler.OnTransportEvent(ev)

		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			e.logger.Debug("Settings file changed, debouncing...")
			timer.Reset(e.debounce)

		case <-timer.C:
			e.logger.Info("Reloading settings")
			e.handler.OnTransportEvent(domain.EventSettingsChanged)
		}
	}
}

// Stop ends the event loop, then shuts the widget down
func (e *Engine) Stop(ctx context.Context) error {
	e.logger.Info("Engine stopping...")

	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return nil
	}
	e.stopped = true
	cancel := e.cancel
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		e.logger.Warn("Engine loop did not stop in time")
	}

	return e.handler.Shutdown()
}
