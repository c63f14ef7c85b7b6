package monitor

import (
	"github.com/godbus/dbus/v5"
)

const (
	mprisPrefix      = "org.mpris.MediaPlayer2."
	mprisPath        = "/org/mpris/MediaPlayer2"
	mprisPlayerIface = "org.mpris.MediaPlayer2.Player"
)

// DBusClient defines the D-Bus operations the monitor needs.
//
//go:generate mockgen -destination=mocks/dbus_client_mock.go -package=mocks github.com/genricoloni/playstatus/internal/monitor DBusClient
type DBusClient interface {
	// Close closes the D-Bus connection
	Close() error

	// AddMatchSignal adds a signal match rule
	AddMatchSignal(options ...dbus.MatchOption) error

	// Signal registers a channel to receive D-Bus signals
	Signal(ch chan<- *dbus.Signal)

	// ListNames returns all names on the bus
	ListNames() ([]string, error)

	// GetNameOwner returns the unique name that owns the given well-known name
	GetNameOwner(name string) (string, error)

	// GetProperty retrieves a single property, e.g.
	// "org.mpris.MediaPlayer2.Player.PlaybackStatus"
	GetProperty(player, path, prop string) (dbus.Variant, error)

	// GetAllProperties retrieves every property of iface in one round trip
	GetAllProperties(player, path, iface string) (map[string]dbus.Variant, error)
}

// StdDBusClient is the session bus implementation backed by godbus
type StdDBusClient struct {
	conn *dbus.Conn
}

// NewStdDBusClient connects to the session bus
func NewStdDBusClient() (*StdDBusClient, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, err
	}
	return &StdDBusClient{conn: conn}, nil
}

func (c *StdDBusClient) Close() error {
	return c.conn.Close()
}

func (c *StdDBusClient) AddMatchSignal(options ...dbus.MatchOption) error {
	return c.conn.AddMatchSignal(options...)
}

func (c *StdDBusClient) Signal(ch chan<- *dbus.Signal) {
	c.conn.Signal(ch)
}

func (c *StdDBusClient) ListNames() ([]string, error) {
	var names []string
	err := c.conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names)
	return names, err
}

func (c *StdDBusClient) GetNameOwner(name string) (string, error) {
	var owner string
	err := c.conn.BusObject().Call("org.freedesktop.DBus.GetNameOwner", 0, name).Store(&owner)
	return owner, err
}

func (c *StdDBusClient) GetProperty(player, path, prop string) (dbus.Variant, error) {
	return c.conn.Object(player, dbus.ObjectPath(path)).GetProperty(prop)
}

func (c *StdDBusClient) GetAllProperties(player, path, iface string) (map[string]dbus.Variant, error) {
	props := make(map[string]dbus.Variant)
	err := c.conn.Object(player, dbus.ObjectPath(path)).
		Call("org.freedesktop.DBus.Properties.GetAll", 0, iface).
		Store(&props)
	return props, err
}
