package traybridge

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	StatusNotifierWatcherInterface = "org.kde.StatusNotifierWatcher"
	StatusNotifierWatcherPath      = "/StatusNotifierWatcher"
)

// watcherAvailable reports whether a StatusNotifierWatcher owns its
// well-known name on the session bus. Without one there is no status bar to
// publish the item to, and the status item soft-disables.
func watcherAvailable(conn *dbus.Conn) bool {
	var owner string
	err := conn.BusObject().Call(
		"org.freedesktop.DBus.GetNameOwner",
		0,
		StatusNotifierWatcherInterface,
	).Store(&owner)

	return err == nil && owner != ""
}

// registerWithWatcher announces the item's bus name to the watcher, which
// relays it to the tray host for display.
func registerWithWatcher(conn *dbus.Conn, name string) error {
	call := conn.Object(
		StatusNotifierWatcherInterface,
		StatusNotifierWatcherPath,
	).Call(StatusNotifierWatcherInterface+".RegisterStatusNotifierItem", 0, name)
	if call.Err != nil {
		return fmt.Errorf("failed to register item %s: %w", name, call.Err)
	}

	return nil
}
