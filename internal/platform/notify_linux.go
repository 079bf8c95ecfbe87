//go:build linux

package platform

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const defaultTimeoutMs = 5000

// Notify sends a desktop notification over the session bus using the
// Freedesktop.org notification interface.
func Notify(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("session bus: %w", err)
	}
	defer conn.Close()

	timeout := opts.TimeoutMs
	if timeout == 0 {
		timeout = defaultTimeoutMs
	}
	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	hints := map[string]dbus.Variant{"category": dbus.MakeVariant("transfer.complete")}
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		AppName, uint32(0), opts.IconPath, title, body, []string{}, hints, timeout)
	return call.Err
}
