// Package controller serializes configuration changes and render passes of the
// status widget.
//
// A single mutex guards the template registry, the style registry and the
// global configuration. Render passes and reconfiguration both take it, so a
// frame is rendered either entirely before or entirely after a change.
package controller

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/genricoloni/playstatus/internal/domain"
	"github.com/genricoloni/playstatus/internal/render"
	"github.com/genricoloni/playstatus/internal/scheduler"
	"github.com/genricoloni/playstatus/internal/settings"
	"github.com/genricoloni/playstatus/internal/style"
	"github.com/genricoloni/playstatus/internal/template"
	"go.uber.org/zap"
)

var _ domain.FrameSource = (*Controller)(nil)

// Stats are counters of the controller's activity
type Stats struct {
	Ticks     uint64
	Coalesced uint64
	Frames    uint64
}

// Controller owns the widget configuration and the refresh scheduler
type Controller struct {
	logger  *zap.Logger
	source  domain.StateSource
	store   domain.SettingsStore
	surface domain.Surface

	mu        sync.Mutex
	templates *template.Registry
	styles    *style.Registry
	renderer  *render.Engine
	global    domain.GlobalConfig
	closed    bool

	sched *scheduler.Scheduler

	// pending is set while a repaint has been requested but not yet painted
	pending   atomic.Bool
	coalesced atomic.Uint64
	frames    atomic.Uint64
}

// New creates a controller. Nothing is loaded until Init.
func New(
	logger *zap.Logger,
	source domain.StateSource,
	compiler domain.TemplateCompiler,
	store domain.SettingsStore,
	surface domain.Surface,
	maxLen int,
) *Controller {
	templates := template.NewRegistry(logger, compiler, maxLen)
	styles := style.NewRegistry()

	c := &Controller{
		logger:    logger,
		source:    source,
		store:     store,
		surface:   surface,
		templates: templates,
		styles:    styles,
		renderer:  render.NewEngine(templates, styles),
	}
	c.global = domain.GlobalConfig{
		RefreshInterval: settings.DefaultRefreshIntervalMs * time.Millisecond,
		ActiveLines:     settings.DefaultNumLines,
	}
	c.sched = scheduler.New(logger, c.OnTick)
	return c
}

// Init loads the persisted configuration, applies it and arms the refresh timer
func (c *Controller) Init() error {
	global, lines := Load(c.store)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.ErrClosed
	}
	c.applyLocked(global, lines, false)

	if err := c.sched.Start(c.global.RefreshInterval); err != nil {
		return fmt.Errorf("start refresh timer: %w", err)
	}

	c.logger.Info("Status widget initialized",
		zap.Int("lines", c.global.ActiveLines),
		zap.Duration("interval", c.global.RefreshInterval),
		zap.Int("compiled", c.templates.Live()))
	c.requestRepaint()
	return nil
}

// ApplyConfig clamps, persists and applies a new configuration. A line whose
// template fails to compile renders empty; the rest of the change still applies.
func (c *Controller) ApplyConfig(global domain.GlobalConfig, lines []domain.LineConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.ErrClosed
	}
	c.applyLocked(global, lines, true)
	c.requestRepaint()
	return nil
}

// OnSettingsApply is the entry point of the settings editor
func (c *Controller) OnSettingsApply(global domain.GlobalConfig, lines []domain.LineConfig) error {
	return c.ApplyConfig(global, lines)
}

// Reload re-reads the settings store and applies what it holds without
// writing it back
func (c *Controller) Reload() error {
	if r, ok := c.store.(domain.Reloader); ok {
		changed, err := r.Reload()
		if err != nil {
			return fmt.Errorf("reload settings: %w", err)
		}
		c.logger.Debug("Settings reloaded", zap.Bool("changed", changed))
	}

	global, lines := Load(c.store)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.ErrClosed
	}
	c.applyLocked(global, lines, false)
	c.requestRepaint()
	return nil
}

// OnTick asks the surface for a repaint unless one is already pending
func (c *Controller) OnTick() {
	if !c.pending.CompareAndSwap(false, true) {
		c.coalesced.Add(1)
		return
	}
	c.surface.RequestRepaint()
}

// OnTransportEvent drives the refresh timer from playback transitions
func (c *Controller) OnTransportEvent(ev domain.TransportEvent) {
	if ev == domain.EventSettingsChanged {
		if err := c.Reload(); err != nil {
			c.logger.Warn("Failed to apply changed settings", zap.Error(err))
		}
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	switch ev {
	case domain.EventStarted, domain.EventResumed:
		c.startLocked()
	case domain.EventPaused:
		// Some players report a pause toggle while still playing
		if c.stillPlaying() {
			c.startLocked()
		} else {
			c.sched.Stop()
		}
	case domain.EventStopped:
		c.sched.Stop()
	default:
		c.logger.Warn("Unknown transport event", zap.String("event", string(ev)))
		return
	}

	c.logger.Debug("Transport event handled",
		zap.String("event", string(ev)),
		zap.Bool("timer", c.sched.Running()))
	c.forceRepaint()
}

// Frame renders the lines to paint now. A failing state query renders the
// idle frame, and so does every call after Shutdown.
func (c *Controller) Frame() []domain.Line {
	c.pending.Store(false)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return c.renderer.RenderFrame(domain.Empty(), c.global.ActiveLines)
	}

	snap, err := c.source.PlaybackState(context.Background())
	if err != nil {
		c.logger.Debug("Playback state unavailable", zap.Error(err))
		snap = domain.Empty()
	}
	defer snap.Release()

	c.frames.Add(1)
	return c.renderer.RenderFrame(snap, c.global.ActiveLines)
}

// Config returns the applied global configuration
func (c *Controller) Config() domain.GlobalConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.global
}

// Shutdown stops the refresh timer, then releases every compiled template.
// Calling it again is a no-op.
func (c *Controller) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.sched.Stop()
	c.templates.ReleaseAll()
	c.closed = true

	c.logger.Info("Status widget shut down",
		zap.Uint64("ticks", c.sched.Ticks()),
		zap.Uint64("coalesced", c.coalesced.Load()),
		zap.Uint64("frames", c.frames.Load()))
	return nil
}

// Stats returns activity counters
func (c *Controller) Stats() Stats {
	return Stats{
		Ticks:     c.sched.Ticks(),
		Coalesced: c.coalesced.Load(),
		Frames:    c.frames.Load(),
	}
}

// TimerRunning reports whether the refresh timer is armed
func (c *Controller) TimerRunning() bool {
	return c.sched.Running()
}

func (c *Controller) applyLocked(global domain.GlobalConfig, lines []domain.LineConfig, persist bool) {
	global = clamp(global)

	byIndex := make(map[int]domain.LineConfig, len(lines))
	for _, l := range lines {
		if l.Index < 0 || l.Index >= domain.MaxLines {
			c.logger.Warn("Ignoring out of range line", zap.Int("line", l.Index))
			continue
		}
		byIndex[l.Index] = l
	}
	c.fillActiveLocked(global.ActiveLines, byIndex)

	if persist {
		applied := make([]domain.LineConfig, 0, len(byIndex))
		for i := 0; i < domain.MaxLines; i++ {
			if l, ok := byIndex[i]; ok {
				applied = append(applied, l)
			}
		}
		save(c.store, global, applied)
		if f, ok := c.store.(domain.Flusher); ok {
			if err := f.Flush(); err != nil {
				c.logger.Warn("Failed to persist settings", zap.Error(err))
			}
		}
	}

	for i := global.ActiveLines; i < domain.MaxLines; i++ {
		c.templates.Clear(i)
	}

	for i := 0; i < domain.MaxLines; i++ {
		l, ok := byIndex[i]
		if !ok {
			continue
		}
		if i < global.ActiveLines {
			if src, assigned := c.templates.Source(i); !assigned || src != l.Template {
				// A failure is logged by the registry and leaves the line empty
				_ = c.templates.SetLine(i, l.Template)
			}
		}
		c.styles.SetLine(i, l.Font, l.Color)
	}

	c.global = global

	if c.sched.Running() {
		if err := c.sched.Reconfigure(global.RefreshInterval); err != nil {
			c.logger.Error("Failed to reprogram refresh timer", zap.Error(err))
		}
	}

	c.logger.Debug("Configuration applied",
		zap.Int("lines", global.ActiveLines),
		zap.Duration("interval", global.RefreshInterval),
		zap.Bool("persisted", persist))
}

// fillActiveLocked completes byIndex for every active line the caller left
// out: a line keeps what it currently holds, and a line that holds nothing
// takes its stored or default configuration.
func (c *Controller) fillActiveLocked(active int, byIndex map[int]domain.LineConfig) {
	var stored []domain.LineConfig
	for i := 0; i < active; i++ {
		if _, ok := byIndex[i]; ok {
			continue
		}
		if src, assigned := c.templates.Source(i); assigned {
			byIndex[i] = domain.LineConfig{
				Index:    i,
				Template: src,
				Font:     c.styles.Descriptor(i),
				Color:    c.styles.Get(i).Color,
			}
			continue
		}
		if stored == nil {
			_, stored = Load(c.store)
		}
		byIndex[i] = stored[i]
	}
}

func (c *Controller) startLocked() {
	if err := c.sched.Start(c.global.RefreshInterval); err != nil {
		c.logger.Error("Failed to start refresh timer", zap.Error(err))
	}
}

// stillPlaying asks the state source whether playback is running
func (c *Controller) stillPlaying() bool {
	snap, err := c.source.PlaybackState(context.Background())
	if err != nil {
		return false
	}
	defer snap.Release()
	return !snap.IsEmpty() && snap.Track().Status == domain.StatusPlaying
}

// requestRepaint asks for a repaint unless one is already pending
func (c *Controller) requestRepaint() {
	if c.pending.CompareAndSwap(false, true) {
		c.surface.RequestRepaint()
	}
}

// forceRepaint always asks the surface, so a transport change is painted
// even when a tick's repaint is still queued
func (c *Controller) forceRepaint() {
	c.pending.Store(true)
	c.surface.RequestRepaint()
}
