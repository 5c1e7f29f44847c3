package manager

import (
	"fmt"
	"log"
	"math"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

const (
	serviceName = "io.github.hoppxi.Lightroom"
	objectPath  = "/io/github/hoppxi/Lightroom"
)

const introspectXML = `
<node>
	<interface name="io.github.hoppxi.Lightroom">
		<method name="GetBrightness">
			<arg name="level" type="d" direction="out"/>
		</method>
		<method name="SetBrightness">
			<arg name="level" type="d" direction="in"/>
		</method>
		<method name="GetOutput">
			<arg name="output" type="s" direction="out"/>
		</method>
		<method name="Show">
		</method>
	</interface>
	<interface name="org.freedesktop.DBus.Introspectable">
		<method name="Introspect">
			<arg name="data" type="s" direction="out"/>
		</method>
	</interface>
</node>
`

// BusMethods is the object exported on the session bus.
type BusMethods struct {
	ctrl Controller
}

func NewBusMethods(ctrl Controller) *BusMethods {
	return &BusMethods{ctrl: ctrl}
}

func (b *BusMethods) GetBrightness() (float64, *dbus.Error) {
	return b.ctrl.Level(), nil
}

func (b *BusMethods) SetBrightness(level float64) *dbus.Error {
	if math.IsNaN(level) || math.IsInf(level, 0) {
		return dbus.MakeFailedError(fmt.Errorf("invalid level %v", level))
	}
	if err := b.ctrl.SetLevel(level); err != nil {
		return dbus.MakeFailedError(fmt.Errorf("failed to set brightness: %w", err))
	}
	return nil
}

func (b *BusMethods) GetOutput() (string, *dbus.Error) {
	return b.ctrl.Output(), nil
}

func (b *BusMethods) Show() *dbus.Error {
	b.ctrl.Show()
	return nil
}

// StartDBusService claims serviceName on the session bus and exports ctrl.
func (m *AppManager) StartDBusService(ctrl Controller) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	if err := export(conn, ctrl); err != nil {
		conn.Close()
		return err
	}

	m.mu.Lock()
	m.bus = conn
	m.mu.Unlock()

	log.Printf("D-Bus service started at %s", serviceName)
	return nil
}

func export(conn *dbus.Conn, ctrl Controller) error {
	reply, err := conn.RequestName(serviceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("name %s already taken", serviceName)
	}

	if err := conn.Export(introspect.Introspectable(introspectXML), objectPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspection: %w", err)
	}

	if err := conn.Export(NewBusMethods(ctrl), objectPath, serviceName); err != nil {
		return fmt.Errorf("failed to export methods: %w", err)
	}
	return nil
}
