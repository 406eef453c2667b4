package indicator

import (
	"codeberg.org/ongeul/ongeul/pkg/ongeul"
	"fmt"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
	"sync"
)

const (
	notificationsName = "org.freedesktop.Notifications"
	notificationsPath = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyMethod      = notificationsName + ".Notify"
	closeMethod       = notificationsName + ".CloseNotification"
	appName           = "ongeul"
	expireDefault     = int32(-1)
	urgencyLow        = byte(0)
)

type caller interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// DBusBackend shows the mode as a desktop notification, reusing one
// notification id so repeated toggles replace each other.
type DBusBackend struct {
	conn *dbus.Conn
	obj  caller

	mu sync.Mutex
	id uint32

	log *zap.SugaredLogger
}

func NewDBusBackend(log *zap.SugaredLogger) (*DBusBackend, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	return &DBusBackend{
		conn: conn,
		obj:  conn.Object(notificationsName, notificationsPath),
		log:  log,
	}, nil
}

func (b *DBusBackend) Show(mode ongeul.Mode) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	hints := map[string]dbus.Variant{
		"transient": dbus.MakeVariant(true),
		"urgency":   dbus.MakeVariant(urgencyLow),
	}

	call := b.obj.Call(notifyMethod, 0,
		appName, b.id, "input-keyboard", Label(mode), mode.String(),
		[]string{}, hints, expireDefault)
	if call.Err != nil {
		return fmt.Errorf("notify: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("read notification id: %w", err)
	}
	b.id = id
	b.log.Debugw("indicator shown", "mode", mode, "id", id)
	return nil
}

func (b *DBusBackend) Hide() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.id == 0 {
		return nil
	}

	if err := b.obj.Call(closeMethod, 0, b.id).Err; err != nil {
		return fmt.Errorf("close notification: %w", err)
	}
	return nil
}

func (b *DBusBackend) Close() error {
	if err := b.Hide(); err != nil {
		b.log.Warnw("close indicator", "error", err)
	}
	if b.conn == nil {
		return nil
	}
	return b.conn.Close()
}
