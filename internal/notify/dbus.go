//go:build linux

package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	busName   = "org.freedesktop.Notifications"
	busPath   = "/org/freedesktop/Notifications"
	busMethod = busName + ".Notify"
	busClose  = busName + ".CloseNotification"
	appName   = "deck"
)

type busNotifier struct {
	obj dbus.BusObject
}

// New connects to the notification daemon on the session bus.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return &busNotifier{obj: conn.Object(busName, busPath)}, nil
}

// hints marks popups as transient music notifications so servers keep
// them out of their history.
func hints() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"category":      dbus.MakeVariant("x-gnome.music"),
		"desktop-entry": dbus.MakeVariant(appName),
		"transient":     dbus.MakeVariant(true),
		"urgency":       dbus.MakeVariant(byte(0)),
	}
}

func (b *busNotifier) Notify(n Notification) (uint32, error) {
	// app_name, replaces_id, app_icon, summary, body, actions, hints, expire_timeout
	call := b.obj.Call(busMethod, 0,
		appName, n.Replaces, n.Icon, n.Summary, n.Body,
		[]string{}, hints(), expireMillis(n.Expire))
	if call.Err != nil {
		return 0, call.Err
	}
	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("read notification id: %w", err)
	}
	return id, nil
}

func (b *busNotifier) Close(id uint32) error {
	return b.obj.Call(busClose, 0, id).Err
}
