//go:build linux

package monitor

import (
	"fmt"
	"testing"
	"time"

	"github.com/genricoloni/playstatus/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

func propertiesChanged(sender string, props map[string]dbus.Variant) *dbus.Signal {
	return &dbus.Signal{
		Name:   "org.freedesktop.DBus.Properties.PropertiesChanged",
		Sender: sender,
		Body:   []interface{}{mprisPlayerIface, props, []string{}},
	}
}

func newTestMonitor(preferred string) *MprisMonitor {
	mon := NewMprisMonitor(zap.NewNop(), preferred)
	mon.conn = &noopDBusClient{}
	mon.running = true
	return mon
}

func expectEvent(t *testing.T, mon *MprisMonitor, want domain.TransportEvent) {
	t.Helper()
	select {
	case ev := <-mon.Events():
		if ev != want {
			t.Errorf("Event: want %q, got %q", want, ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("Timeout: expected %q event", want)
	}
}

func expectNoEvent(t *testing.T, mon *MprisMonitor) {
	t.Helper()
	select {
	case ev := <-mon.Events():
		t.Errorf("Unexpected event %q", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTransition(t *testing.T) {
	tests := []struct {
		prev, next   domain.PlayerStatus
		trackChanged bool
		want         domain.TransportEvent
		wantOK       bool
	}{
		{domain.StatusStopped, domain.StatusPlaying, false, domain.EventStarted, true},
		{"", domain.StatusPlaying, false, domain.EventStarted, true},
		{domain.StatusPlaying, domain.StatusPlaying, true, domain.EventStarted, true},
		{domain.StatusPlaying, domain.StatusPlaying, false, "", false},
		{domain.StatusPaused, domain.StatusPlaying, false, domain.EventResumed, true},
		{domain.StatusPlaying, domain.StatusPaused, false, domain.EventPaused, true},
		{domain.StatusPaused, domain.StatusPaused, true, "", false},
		{domain.StatusPlaying, domain.StatusStopped, false, domain.EventStopped, true},
		{domain.StatusPaused, domain.StatusStopped, false, domain.EventStopped, true},
		{domain.StatusStopped, domain.StatusStopped, false, "", false},
	}

	for _, tt := range tests {
		name := fmt.Sprintf("%s->%s changed=%v", tt.prev, tt.next, tt.trackChanged)
		t.Run(name, func(t *testing.T) {
			got, ok := transition(tt.prev, tt.next, tt.trackChanged)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("want (%q, %v), got (%q, %v)", tt.want, tt.wantOK, got, ok)
			}
		})
	}
}

// A full play/pause/resume/next/stop cycle of one player
func TestHandleSignal_PlaybackCycle(t *testing.T) {
	mon := newTestMonitor("")
	mon.players[":1.100"] = &player{name: "org.mpris.MediaPlayer2.spotify", status: domain.StatusStopped}

	track := func(id string) dbus.Variant {
		return dbus.MakeVariant(map[string]dbus.Variant{
			"mpris:trackid": dbus.MakeVariant(dbus.ObjectPath(id)),
			"xesam:title":   dbus.MakeVariant("Song " + id),
		})
	}

	steps := []struct {
		props map[string]dbus.Variant
		want  domain.TransportEvent
	}{
		{map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant("Playing"), "Metadata": track("/1")}, domain.EventStarted},
		{map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant("Paused")}, domain.EventPaused},
		{map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant("Playing")}, domain.EventResumed},
		{map[string]dbus.Variant{"Metadata": track("/2")}, domain.EventStarted},
		{map[string]dbus.Variant{"Metadata": track("/2")}, ""},
		{map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant("Stopped")}, domain.EventStopped},
	}

	for i, step := range steps {
		mon.handleSignal(propertiesChanged(":1.100", step.props))
		if step.want == "" {
			expectNoEvent(t, mon)
		} else {
			expectEvent(t, mon, step.want)
		}
		if t.Failed() {
			t.Fatalf("Failed at step %d", i)
		}
	}
}

// TestHandleSignal_EdgeCases consolidates invalid and ignored signals
func TestHandleSignal_EdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		signal *dbus.Signal
	}{
		{
			name: "Wrong Signal Name",
			signal: &dbus.Signal{
				Name: "org.freedesktop.DBus.SomeOtherSignal",
				Body: []interface{}{},
			},
		},
		{
			name: "Wrong Interface",
			signal: &dbus.Signal{
				Name: "org.freedesktop.DBus.Properties.PropertiesChanged",
				Body: []interface{}{"org.mpris.MediaPlayer2", map[string]dbus.Variant{}, []string{}},
			},
		},
		{
			name: "Short Body",
			signal: &dbus.Signal{
				Name: "org.freedesktop.DBus.Properties.PropertiesChanged",
				Body: []interface{}{mprisPlayerIface},
			},
		},
		{
			name:   "Irrelevant Property",
			signal: propertiesChanged(":1.1", map[string]dbus.Variant{"Volume": dbus.MakeVariant(0.5)}),
		},
		{
			name:   "Invalid Metadata Type (Int instead of Map)",
			signal: propertiesChanged(":1.1", map[string]dbus.Variant{"Metadata": dbus.MakeVariant(12345)}),
		},
		{
			name:   "Invalid PlaybackStatus Type (Array instead of String)",
			signal: propertiesChanged(":1.1", map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant([]string{"Playing"})}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mon := newTestMonitor("")
			mon.handleSignal(tt.signal)
			expectNoEvent(t, mon)
		})
	}
}

func TestHandleSignal_UnknownSenderIsTracked(t *testing.T) {
	mon := newTestMonitor("")

	mon.handleSignal(propertiesChanged(":1.42", map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant("Playing")}))
	expectEvent(t, mon, domain.EventStarted)

	if p, ok := mon.players[":1.42"]; !ok || p.status != domain.StatusPlaying {
		t.Errorf("Sender should be tracked as playing, got %+v", p)
	}
}

func TestHandleSignal_InactivePlayerIgnored(t *testing.T) {
	mon := newTestMonitor("spotify")
	mon.players[":1.100"] = &player{name: "org.mpris.MediaPlayer2.spotify", status: domain.StatusPlaying}
	mon.players[":1.200"] = &player{name: "org.mpris.MediaPlayer2.vlc", status: domain.StatusStopped}

	mon.handleSignal(propertiesChanged(":1.200", map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant("Playing")}))
	expectNoEvent(t, mon)

	mon.handleSignal(propertiesChanged(":1.100", map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant("Paused")}))
	expectEvent(t, mon, domain.EventPaused)
}

func TestActivePlayer(t *testing.T) {
	now := time.Now()
	players := map[string]*player{
		":1.1": {name: "org.mpris.MediaPlayer2.vlc", status: domain.StatusPaused, lastPlaying: now.Add(-time.Minute)},
		":1.2": {name: "org.mpris.MediaPlayer2.spotify", status: domain.StatusPlaying, lastPlaying: now},
		":1.3": {name: "org.mpris.MediaPlayer2.mpv", status: domain.StatusStopped},
	}

	tests := []struct {
		preferred string
		want      string
	}{
		{"", ":1.2"},
		{"vlc", ":1.1"},
		{"mpv", ":1.3"},
		{"absent", ":1.2"},
	}

	for _, tt := range tests {
		t.Run("preferred="+tt.preferred, func(t *testing.T) {
			mon := newTestMonitor(tt.preferred)
			mon.players = players
			if got, _ := mon.activeLocked(); got != tt.want {
				t.Errorf("Active player: want %s, got %s", tt.want, got)
			}
		})
	}
}

// TestHandleNameOwnerChanged verifies player lifecycle tracking
func TestHandleNameOwnerChanged(t *testing.T) {
	tests := []struct {
		name       string
		existing   map[string]*player
		signalBody []interface{}
		wantMapped map[string]string
		wantEvent  domain.TransportEvent
	}{
		{
			name:       "New Player Appears",
			signalBody: []interface{}{"org.mpris.MediaPlayer2.spotify", "", ":1.50"},
			wantMapped: map[string]string{":1.50": "org.mpris.MediaPlayer2.spotify"},
		},
		{
			name: "Playing Player Disappears",
			existing: map[string]*player{
				":1.50": {name: "org.mpris.MediaPlayer2.spotify", status: domain.StatusPlaying},
			},
			signalBody: []interface{}{"org.mpris.MediaPlayer2.spotify", ":1.50", ""},
			wantMapped: map[string]string{},
			wantEvent:  domain.EventStopped,
		},
		{
			name: "Stopped Player Disappears Silently",
			existing: map[string]*player{
				":1.50": {name: "org.mpris.MediaPlayer2.spotify", status: domain.StatusStopped},
			},
			signalBody: []interface{}{"org.mpris.MediaPlayer2.spotify", ":1.50", ""},
			wantMapped: map[string]string{},
		},
		{
			name: "Active Player Leaves, Another Keeps Playing",
			existing: map[string]*player{
				":1.50": {name: "org.mpris.MediaPlayer2.spotify", status: domain.StatusPlaying, lastPlaying: time.Now()},
				":1.60": {name: "org.mpris.MediaPlayer2.vlc", status: domain.StatusPlaying, lastPlaying: time.Now().Add(-time.Hour)},
			},
			signalBody: []interface{}{"org.mpris.MediaPlayer2.spotify", ":1.50", ""},
			wantMapped: map[string]string{":1.60": "org.mpris.MediaPlayer2.vlc"},
			wantEvent:  domain.EventStarted,
		},
		{
			name: "Ownership Transfer",
			existing: map[string]*player{
				":1.50": {name: "org.mpris.MediaPlayer2.spotify", status: domain.StatusPaused},
			},
			signalBody: []interface{}{"org.mpris.MediaPlayer2.spotify", ":1.50", ":1.51"},
			wantMapped: map[string]string{":1.51": "org.mpris.MediaPlayer2.spotify"},
		},
		{
			name:       "Non-MPRIS Service Ignored",
			signalBody: []interface{}{"com.example.service", "", ":1.99"},
			wantMapped: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mon := newTestMonitor("")
			for k, v := range tt.existing {
				mon.players[k] = v
			}

			mon.handleNameOwnerChanged(&dbus.Signal{
				Name: "org.freedesktop.DBus.NameOwnerChanged",
				Body: tt.signalBody,
			})

			if len(mon.players) != len(tt.wantMapped) {
				t.Errorf("Player count: want %d, got %d", len(tt.wantMapped), len(mon.players))
			}
			for unique, name := range tt.wantMapped {
				if got := mon.getPlayerName(unique); got != name {
					t.Errorf("Mapping for %s: want %s, got %s", unique, name, got)
				}
			}

			if tt.wantEvent == "" {
				expectNoEvent(t, mon)
			} else {
				expectEvent(t, mon, tt.wantEvent)
			}
		})
	}
}

func TestGetPlayerName(t *testing.T) {
	mon := newTestMonitor("")
	mon.players[":1.100"] = &player{name: "org.mpris.MediaPlayer2.spotify"}

	tests := []struct {
		input    string
		expected string
	}{
		{":1.100", "org.mpris.MediaPlayer2.spotify"},
		{":1.999", ":1.999"}, // Fallback
	}

	for _, tt := range tests {
		if got := mon.getPlayerName(tt.input); got != tt.expected {
			t.Errorf("getPlayerName(%s): expected %s, got %s", tt.input, tt.expected, got)
		}
	}
}

func TestEmit_DropsWhenFull(t *testing.T) {
	mon := newTestMonitor("")
	for i := 0; i < cap(mon.events)+5; i++ {
		mon.emit(domain.EventStarted, "test")
	}
	if len(mon.events) != cap(mon.events) {
		t.Errorf("Channel should be full: len=%d cap=%d", len(mon.events), cap(mon.events))
	}
	if mon.lastDropWarning.IsZero() {
		t.Error("Drop warning should have been logged")
	}
}

// noopDBusClient is a stub for tests that do not need full mocks
type noopDBusClient struct{}

func (n *noopDBusClient) Close() error                             { return nil }
func (n *noopDBusClient) AddMatchSignal(...dbus.MatchOption) error { return nil }
func (n *noopDBusClient) Signal(chan<- *dbus.Signal)               {}
func (n *noopDBusClient) ListNames() ([]string, error)             { return []string{}, nil }
func (n *noopDBusClient) GetNameOwner(string) (string, error)      { return "", fmt.Errorf("noop") }
func (n *noopDBusClient) GetProperty(string, string, string) (dbus.Variant, error) {
	return dbus.MakeVariant(""), fmt.Errorf("noop")
}
func (n *noopDBusClient) GetAllProperties(string, string, string) (map[string]dbus.Variant, error) {
	return nil, fmt.Errorf("noop")
}
