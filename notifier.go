package traybridge

import (
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/godbus/dbus/v5"
)

const (
	NotificationsInterface = "org.freedesktop.Notifications"
	NotificationsPath      = "/org/freedesktop/Notifications"
)

// Notifier posts desktop notifications through the [Desktop Notifications]
// protocol.
//
// A single notification is reused across posts: every post replaces the
// previous one on screen by passing the server-allocated id of the last post
// as replaces_id. No history is kept.
//
// When the session bus is unavailable, posts fall back to [beeep].
//
// [Desktop Notifications]: https://specifications.freedesktop.org/notification-spec/latest/
// [beeep]: https://github.com/gen2brain/beeep
type Notifier struct {
	conn     *dbus.Conn
	appName  string
	fallback func(title, body, icon string) error

	mu        sync.Mutex
	destroyed bool
	lastID    uint32
	title     string
	body      string
}

// NewNotifier returns a new [Notifier]. The appName is reported to the
// notification server as the sending application.
func NewNotifier(conn *dbus.Conn, appName string) *Notifier {
	return &Notifier{
		conn:    conn,
		appName: appName,
		fallback: func(title, body, icon string) error {
			return beeep.Notify(title, body, icon)
		},
	}
}

// Initialize allocates the reusable notification state.
func (n *Notifier) Initialize() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.destroyed = false
	n.lastID = 0

	return nil
}

// Post overwrites the notification with title and body, attaches the default
// notification sound, and submits it to the notification server. The call is
// fire-and-forget: a nil return means "submitted without error", nothing
// more.
//
// The server object is resolved afresh on every post rather than cached, so
// a notification daemon restarted between posts still receives delivery.
func (n *Notifier) Post(title, body string) error {
	if !validBusString(title) || !validBusString(body) {
		return fmt.Errorf("unable to encode notification text: %w", ErrEncoding)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.destroyed {
		return nil
	}

	n.title = title
	n.body = body

	if n.conn == nil {
		if err := n.fallback(title, body, ""); err != nil {
			return fmt.Errorf("post: %w", err)
		}
		return nil
	}

	hints := map[string]dbus.Variant{
		"sound-name": dbus.MakeVariant("message-new-instant"),
		"urgency":    dbus.MakeVariant(byte(1)),
	}

	var id uint32
	call := n.conn.Object(NotificationsInterface, NotificationsPath).Call(
		NotificationsInterface+".Notify",
		0,
		n.appName,
		n.lastID,
		"",
		title,
		body,
		[]string{},
		hints,
		int32(-1),
	)
	if call.Err != nil {
		return fmt.Errorf("post: failed to deliver notification: %w", call.Err)
	}

	if err := call.Store(&id); err != nil {
		return fmt.Errorf("post: %w", err)
	}

	n.lastID = id

	return nil
}

// ShouldPresent answers the presentation-policy query: notifications are
// always presented, even while the application is foregrounded.
func (n *Notifier) ShouldPresent() bool {
	return true
}

// Title returns the title of the last post.
func (n *Notifier) Title() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.title
}

// Body returns the body of the last post.
func (n *Notifier) Body() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.body
}

// Destroy clears the notification state. It is safe to call repeatedly;
// later calls are no-ops.
func (n *Notifier) Destroy() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.destroyed = true
	n.lastID = 0
	n.title = ""
	n.body = ""

	return nil
}
