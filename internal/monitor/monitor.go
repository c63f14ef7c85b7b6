//go:build linux

package monitor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/genricoloni/playstatus/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

var _ domain.Monitor = (*MprisMonitor)(nil)

// player is what the monitor remembers about one MPRIS player
type player struct {
	name        string // well-known name, e.g. org.mpris.MediaPlayer2.spotify
	status      domain.PlayerStatus
	trackID     string
	lastPlaying time.Time
}

// MprisMonitor follows MPRIS players on the session bus, turns their
// playback transitions into transport events and answers state queries for
// the active player.
type MprisMonitor struct {
	logger    *zap.Logger
	preferred string
	dial      func() (DBusClient, error)
	events    chan domain.TransportEvent

	mu              sync.RWMutex
	running         bool
	stopped         bool
	cancel          context.CancelFunc
	conn            DBusClient
	lastDropWarning time.Time
	wg              sync.WaitGroup
	// players is keyed by unique bus name (:1.45)
	players map[string]*player
}

// NewMprisMonitor creates a monitor. When preferred is not empty, a player
// whose bus name contains it is always the active one.
func NewMprisMonitor(logger *zap.Logger, preferred string) *MprisMonitor {
	return &MprisMonitor{
		logger:    logger,
		preferred: preferred,
		dial: func() (DBusClient, error) {
			return NewStdDBusClient()
		},
		events:  make(chan domain.TransportEvent, 10),
		players: make(map[string]*player),
	}
}

// Start connects to the session bus, scans running players and begins
// following their signals. It returns once monitoring is running.
func (m *MprisMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return errors.New("monitor cannot be restarted after Stop")
	}
	if m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = true
	monitorCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.mu.Unlock()

	conn, err := m.dial()
	if err != nil {
		m.logger.Error("Failed to connect to session bus", zap.Error(err))
		m.mu.Lock()
		m.running = false
		m.cancel = nil
		m.mu.Unlock()
		cancel()
		return fmt.Errorf("session bus connection failed: %w", err)
	}

	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(mprisPath),
		dbus.WithMatchInterface("org.freedesktop.DBus.Properties"),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		m.logger.Error("Failed to add match signal", zap.Error(err))
		m.mu.Lock()
		m.running = false
		m.cancel = nil
		m.conn = nil
		m.mu.Unlock()
		cancel()
		if cerr := conn.Close(); cerr != nil {
			m.logger.Warn("Failed to close D-Bus connection", zap.Error(cerr))
		}
		return fmt.Errorf("failed to add match signal: %w", err)
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
	); err != nil {
		// Players started later will not be seen
		m.logger.Warn("Failed to add NameOwnerChanged match signal", zap.Error(err))
	}

	if err := m.detectExistingPlayers(); err != nil {
		m.logger.Warn("Failed to detect existing players", zap.Error(err))
	}

	m.wg.Add(1)
	go m.monitorSignals(monitorCtx, conn)

	m.logger.Info("MPRIS monitor started", zap.String("preferred", m.preferred))
	return nil
}

// Stop cancels monitoring, closes the event channel and the bus connection
func (m *MprisMonitor) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	if m.cancel != nil {
		m.cancel()
	}
	m.running = false
	m.stopped = true
	m.mu.Unlock()

	// Producers must be gone before the channel is closed
	m.wg.Wait()
	close(m.events)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil {
		if err := m.conn.Close(); err != nil {
			m.logger.Warn("Failed to close D-Bus connection", zap.Error(err))
		}
		m.conn = nil
	}

	m.logger.Info("MPRIS monitor shutdown complete")
	return nil
}

// Events returns the transport events of the active player
func (m *MprisMonitor) Events() <-chan domain.TransportEvent {
	return m.events
}

// PlaybackState queries the active player. It returns an empty snapshot when
// no player is active or the active one is stopped.
func (m *MprisMonitor) PlaybackState(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Empty(), err
	}

	m.mu.RLock()
	conn := m.conn
	unique, _ := m.activeLocked()
	m.mu.RUnlock()

	if conn == nil {
		return domain.Empty(), domain.ErrNoPlayer
	}
	if unique == "" {
		return domain.Empty(), nil
	}

	props, err := conn.GetAllProperties(unique, mprisPath, mprisPlayerIface)
	if err != nil {
		return domain.Empty(), fmt.Errorf("query player %s: %w", m.getPlayerName(unique), err)
	}

	status := parseStatus(props["PlaybackStatus"])
	if status == domain.StatusStopped {
		return domain.Empty(), nil
	}

	metadata, _ := props["Metadata"].Value().(map[string]dbus.Variant)
	track := m.parseTrack(metadata, status)
	if pos, ok := toInt64(props["Position"].Value()); ok && pos > 0 {
		track.Elapsed = time.Duration(pos) * time.Microsecond
	}
	return domain.Playing(&track, nil), nil
}

// detectExistingPlayers records the players already on the bus
func (m *MprisMonitor) detectExistingPlayers() error {
	names, err := m.conn.ListNames()
	if err != nil {
		return fmt.Errorf("failed to list bus names: %w", err)
	}

	count := 0
	for _, name := range names {
		if !strings.HasPrefix(name, mprisPrefix) {
			continue
		}
		unique, err := m.conn.GetNameOwner(name)
		if err != nil {
			m.logger.Warn("Failed to resolve player owner", zap.String("player", name), zap.Error(err))
			continue
		}
		count++

		p := &player{name: name, status: domain.StatusStopped}
		if v, err := m.conn.GetProperty(name, mprisPath, mprisPlayerIface+".PlaybackStatus"); err == nil {
			p.status = parseStatus(v)
		}
		if v, err := m.conn.GetProperty(name, mprisPath, mprisPlayerIface+".Metadata"); err == nil {
			if md, ok := v.Value().(map[string]dbus.Variant); ok {
				p.trackID = trackID(md)
			}
		}
		if p.status == domain.StatusPlaying {
			p.lastPlaying = time.Now()
		}

		m.mu.Lock()
		m.players[unique] = p
		m.mu.Unlock()

		m.logger.Info("Detected MPRIS player",
			zap.String("name", name),
			zap.String("unique", unique),
			zap.String("status", string(p.status)))
	}

	m.mu.RLock()
	_, active := m.activeLocked()
	m.mu.RUnlock()
	if active != nil && active.status == domain.StatusPlaying {
		m.emit(domain.EventStarted, active.name)
	}

	m.logger.Info("Player detection complete", zap.Int("count", count))
	return nil
}

// monitorSignals listens for D-Bus signals until ctx is cancelled
func (m *MprisMonitor) monitorSignals(ctx context.Context, conn DBusClient) {
	defer m.wg.Done()

	signals := make(chan *dbus.Signal, 10)
	conn.Signal(signals)

	for {
		select {
		case <-ctx.Done():
			m.logger.Debug("Signal monitoring goroutine stopped")
			return
		case sig := <-signals:
			if sig == nil {
				continue
			}
			if sig.Name == "org.freedesktop.DBus.NameOwnerChanged" {
				m.handleNameOwnerChanged(sig)
			} else {
				m.handleSignal(sig)
			}
		}
	}
}

// handleNameOwnerChanged tracks players appearing and vanishing
func (m *MprisMonitor) handleNameOwnerChanged(sig *dbus.Signal) {
	if len(sig.Body) < 3 {
		return
	}
	name, ok := sig.Body[0].(string)
	if !ok || !strings.HasPrefix(name, mprisPrefix) {
		return
	}
	oldOwner, _ := sig.Body[1].(string)
	newOwner, _ := sig.Body[2].(string)

	switch {
	case oldOwner == "" && newOwner != "":
		m.mu.Lock()
		m.players[newOwner] = &player{name: name, status: domain.StatusStopped}
		m.mu.Unlock()
		m.logger.Info("New MPRIS player detected", zap.String("player", name), zap.String("unique", newOwner))

	case oldOwner != "" && newOwner == "":
		m.mu.Lock()
		prevUnique, prev := m.activeLocked()
		delete(m.players, oldOwner)
		_, next := m.activeLocked()
		m.mu.Unlock()

		m.logger.Info("MPRIS player removed", zap.String("player", name), zap.String("unique", oldOwner))

		if prevUnique != oldOwner || prev.status == domain.StatusStopped {
			return
		}
		if next != nil && next.status == domain.StatusPlaying {
			m.emit(domain.EventStarted, next.name)
		} else {
			m.emit(domain.EventStopped, name)
		}

	case oldOwner != "" && newOwner != "":
		m.mu.Lock()
		if p, ok := m.players[oldOwner]; ok {
			delete(m.players, oldOwner)
			m.players[newOwner] = p
		}
		m.mu.Unlock()
		m.logger.Debug("MPRIS player ownership changed",
			zap.String("player", name),
			zap.String("oldUnique", oldOwner),
			zap.String("newUnique", newOwner))
	}
}

// handleSignal processes PropertiesChanged on the MPRIS player interface
func (m *MprisMonitor) handleSignal(sig *dbus.Signal) {
	if sig.Name != "org.freedesktop.DBus.Properties.PropertiesChanged" || len(sig.Body) < 2 {
		return
	}
	iface, ok := sig.Body[0].(string)
	if !ok || iface != mprisPlayerIface {
		return
	}
	changed, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return
	}

	statusVariant, hasStatus := changed["PlaybackStatus"]
	metadataVariant, hasMetadata := changed["Metadata"]
	if !hasStatus && !hasMetadata {
		return
	}

	var newStatus domain.PlayerStatus
	if hasStatus {
		s, ok := statusVariant.Value().(string)
		if !ok {
			m.logger.Warn("Invalid playback status format in signal, ignoring")
			return
		}
		newStatus = statusOf(s)
	}

	var newTrack string
	if hasMetadata {
		md, ok := metadataVariant.Value().(map[string]dbus.Variant)
		if !ok {
			m.logger.Warn("Invalid metadata format in signal, ignoring")
			return
		}
		newTrack = trackID(md)
	}

	m.mu.Lock()
	p, known := m.players[sig.Sender]
	if !known {
		p = &player{name: sig.Sender, status: domain.StatusStopped}
		m.players[sig.Sender] = p
	}
	prev := p.status
	if !hasStatus {
		newStatus = prev
	}
	trackChanged := hasMetadata && newTrack != p.trackID
	p.status = newStatus
	if hasMetadata {
		p.trackID = newTrack
	}
	if newStatus == domain.StatusPlaying && prev != domain.StatusPlaying {
		p.lastPlaying = time.Now()
	}
	activeUnique, _ := m.activeLocked()
	m.mu.Unlock()

	if activeUnique != sig.Sender {
		m.logger.Debug("Ignoring change of inactive player", zap.String("player", p.name))
		return
	}

	if ev, ok := transition(prev, newStatus, trackChanged); ok {
		m.emit(ev, p.name)
	}
}

// transition maps a status change of the active player to a transport event
func transition(prev, next domain.PlayerStatus, trackChanged bool) (domain.TransportEvent, bool) {
	switch next {
	case domain.StatusPlaying:
		switch prev {
		case domain.StatusPaused:
			return domain.EventResumed, true
		case domain.StatusPlaying:
			if trackChanged {
				return domain.EventStarted, true
			}
			return "", false
		default:
			return domain.EventStarted, true
		}
	case domain.StatusPaused:
		if prev != domain.StatusPaused {
			return domain.EventPaused, true
		}
	case domain.StatusStopped:
		if prev != domain.StatusStopped {
			return domain.EventStopped, true
		}
	}
	return "", false
}

// activeLocked picks the player the widget follows: the preferred one when
// present, else the one that most recently started playing. Callers hold mu.
func (m *MprisMonitor) activeLocked() (string, *player) {
	var (
		bestUnique string
		best       *player
	)
	for unique, p := range m.players {
		if m.preferred != "" && strings.Contains(p.name, m.preferred) {
			return unique, p
		}
		if best == nil || p.lastPlaying.After(best.lastPlaying) ||
			(p.lastPlaying.Equal(best.lastPlaying) && unique < bestUnique) {
			bestUnique, best = unique, p
		}
	}
	return bestUnique, best
}

// emit sends ev without blocking
func (m *MprisMonitor) emit(ev domain.TransportEvent, playerName string) {
	select {
	case m.events <- ev:
		m.logger.Info("Transport event", zap.String("event", string(ev)), zap.String("player", playerName))
	default:
		m.logChannelFullWarning()
	}
}

// parseTrack converts MPRIS metadata to the domain model
func (m *MprisMonitor) parseTrack(metadata map[string]dbus.Variant, status domain.PlayerStatus) domain.TrackMetadata {
	track := domain.TrackMetadata{Status: status}
	if metadata == nil {
		return track
	}

	track.Title = stringField(metadata, "xesam:title")
	track.Artist = listField(metadata, "xesam:artist")
	track.Album = stringField(metadata, "xesam:album")
	track.AlbumArtist = listField(metadata, "xesam:albumArtist")
	track.Genre = listField(metadata, "xesam:genre")
	track.Comment = listField(metadata, "xesam:comment")
	track.URL = stringField(metadata, "xesam:url")

	if v, ok := metadata["xesam:trackNumber"]; ok {
		if n, ok := toInt64(v.Value()); ok {
			track.TrackNumber = int(n)
		}
	}
	if created := stringField(metadata, "xesam:contentCreated"); len(created) >= 4 {
		track.Year = created[:4]
	}
	if v, ok := metadata["mpris:length"]; ok {
		if n, ok := toInt64(v.Value()); ok && n > 0 {
			track.Length = time.Duration(n) * time.Microsecond
		} else {
			m.logger.Debug("Unexpected length type in metadata",
				zap.String("type", fmt.Sprintf("%T", v.Value())))
		}
	}
	return track
}

// getPlayerName returns the well-known name for a unique bus name
func (m *MprisMonitor) getPlayerName(unique string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.players[unique]; ok {
		return p.name
	}
	return unique
}

// logChannelFullWarning logs at most one warning per 5 seconds
func (m *MprisMonitor) logChannelFullWarning() {
	m.mu.Lock()
	defer m.mu.Unlock()

	const warningInterval = 5 * time.Second
	now := time.Now()
	if now.Sub(m.lastDropWarning) >= warningInterval {
		m.logger.Warn("Events channel full, dropping transport event")
		m.lastDropWarning = now
	}
}

func parseStatus(v dbus.Variant) domain.PlayerStatus {
	s, _ := v.Value().(string)
	return statusOf(s)
}

func statusOf(s string) domain.PlayerStatus {
	switch s {
	case "Playing":
		return domain.StatusPlaying
	case "Paused":
		return domain.StatusPaused
	default:
		return domain.StatusStopped
	}
}

// trackID identifies a track for change detection
func trackID(md map[string]dbus.Variant) string {
	if v, ok := md["mpris:trackid"]; ok {
		switch id := v.Value().(type) {
		case dbus.ObjectPath:
			return string(id)
		case string:
			return id
		}
	}
	return stringField(md, "xesam:url") + "\x00" + stringField(md, "xesam:title")
}

func stringField(md map[string]dbus.Variant, key string) string {
	v, ok := md[key]
	if !ok {
		return ""
	}
	s, _ := v.Value().(string)
	return s
}

// listField reads a string list, tolerating players that send a plain string
func listField(md map[string]dbus.Variant, key string) string {
	v, ok := md[key]
	if !ok {
		return ""
	}
	switch val := v.Value().(type) {
	case []string:
		return strings.Join(val, ", ")
	case string:
		return val
	}
	return ""
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint32:
		return int64(n), true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}
