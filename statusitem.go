package traybridge

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"
	"github.com/rs/zerolog/log"
)

const (
	StatusNotifierItemInterface = "org.kde.StatusNotifierItem"
	StatusNotifierItemPath      = "/StatusNotifierItem"
)

// toolTip is the wire form of the ToolTip property, signature (sa(iiay)ss).
// Tray hosts read the third field as the tooltip text.
type toolTip struct {
	IconName string
	Pixmaps  []dbusPixmap
	Title    string
	Text     string
}

// StatusItem is the one status-bar icon of the process, published as a
// [StatusNotifierItem] on the session bus.
//
// At most one StatusItem exists per [Bridge]. All mutators replace their
// field wholesale and emit the corresponding change signal so tray hosts
// redraw. When no StatusNotifierWatcher is present on the bus, the item is
// disabled: every operation succeeds as a no-op.
//
// [StatusNotifierItem]: https://www.freedesktop.org/wiki/Specifications/StatusNotifierItem/StatusNotifierItem/
type StatusItem struct {
	conn      *dbus.Conn
	name      string
	id        string
	title     string
	evaluator Evaluator
	props     *prop.Properties
	menu      *itemMenu

	mu        sync.Mutex
	disabled  bool
	destroyed bool
	visible   bool
	icon      *Icon
	tooltip   string
	callback  string
}

// NewStatusItem returns a new unpublished [StatusItem]. Call
// [StatusItem.Initialize] to publish it.
func NewStatusItem(conn *dbus.Conn, id, title string, evaluator Evaluator) *StatusItem {
	return &StatusItem{
		conn:      conn,
		name:      fmt.Sprintf("%s-%d-1", StatusNotifierItemInterface, os.Getpid()),
		id:        id,
		title:     title,
		evaluator: evaluator,
	}
}

// Initialize requests the item's well-known name, exports the item and its
// menu, and registers with the StatusNotifierWatcher, making the item
// visible.
//
// When no watcher owns its name on the bus, Initialize returns nil and the
// item enters disabled mode: callers must treat this as a soft degrade, not
// an error. The callers responsible for user feedback should report it once;
// see [Bridge.Init].
func (si *StatusItem) Initialize() error {
	si.mu.Lock()
	defer si.mu.Unlock()

	if si.conn == nil || !watcherAvailable(si.conn) {
		si.disabled = true
		return nil
	}

	reply, err := si.conn.RequestName(si.name, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("initialize: failed to request name %s: %w", si.name, err)
	}

	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("initialize: name %s already taken", si.name)
	}

	if err := si.conn.Export(si, StatusNotifierItemPath, StatusNotifierItemInterface); err != nil {
		return fmt.Errorf("initialize: failed to export %s: %w", StatusNotifierItemInterface, err)
	}

	si.menu = newItemMenu(si.conn)
	if err := si.menu.export(); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	if err := si.exportProperties(); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	if err := registerWithWatcher(si.conn, si.name); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	si.visible = true

	return nil
}

// Disabled reports whether the item runs in disabled mode.
func (si *StatusItem) Disabled() bool {
	si.mu.Lock()
	defer si.mu.Unlock()

	return si.disabled
}

// Visible reports whether the item is published on the bus.
func (si *StatusItem) Visible() bool {
	si.mu.Lock()
	defer si.mu.Unlock()

	return si.visible
}

// SetIcon replaces the item's pixmap wholesale and emits NewIcon. A nil icon
// means "no displayed icon" and is not an error.
func (si *StatusItem) SetIcon(icon *Icon) error {
	si.mu.Lock()
	defer si.mu.Unlock()

	if si.destroyed {
		return nil
	}

	si.icon = icon
	if si.disabled || si.props == nil {
		return nil
	}

	si.props.SetMust(StatusNotifierItemInterface, "IconPixmap", icon.pixmaps())
	si.conn.Emit(StatusNotifierItemPath, StatusNotifierItemInterface+".NewIcon")

	return nil
}

// SetTooltip replaces the tooltip text and emits NewToolTip. Text that
// cannot be represented as a D-Bus string is rejected with [ErrEncoding].
func (si *StatusItem) SetTooltip(text string) error {
	if !validBusString(text) {
		return fmt.Errorf("unable to set tooltip for status icon: %w", ErrEncoding)
	}

	si.mu.Lock()
	defer si.mu.Unlock()

	if si.destroyed {
		return nil
	}

	si.tooltip = text
	if si.disabled || si.props == nil {
		return nil
	}

	si.props.SetMust(StatusNotifierItemInterface, "ToolTip", toolTip{
		Pixmaps: []dbusPixmap{},
		Title:   text,
		Text:    text,
	})
	si.conn.Emit(StatusNotifierItemPath, StatusNotifierItemInterface+".NewToolTip")

	return nil
}

// SetCallback stores the callback token verbatim. Nothing is evaluated until
// the icon is clicked.
func (si *StatusItem) SetCallback(token string) error {
	si.mu.Lock()
	defer si.mu.Unlock()

	if si.destroyed {
		return nil
	}

	si.callback = token

	return nil
}

// Tooltip returns the current tooltip text.
func (si *StatusItem) Tooltip() string {
	si.mu.Lock()
	defer si.mu.Unlock()

	return si.tooltip
}

// Callback returns the stored callback token.
func (si *StatusItem) Callback() string {
	si.mu.Lock()
	defer si.mu.Unlock()

	return si.callback
}

// Destroy withdraws the item from the bus and releases its name. It is safe
// to call repeatedly and after teardown; later calls are no-ops.
func (si *StatusItem) Destroy() error {
	si.mu.Lock()
	defer si.mu.Unlock()

	if si.destroyed || si.disabled {
		si.destroyed = true
		return nil
	}

	si.destroyed = true
	si.visible = false
	si.icon = nil

	if _, err := si.conn.ReleaseName(si.name); err != nil {
		return fmt.Errorf("destroy: failed to release name %s: %w", si.name, err)
	}

	return nil
}

// Activate handles a single left click over the item's visualization. It
// synchronously evaluates the stored callback; evaluation errors go to the
// host's error reporter and never propagate to the tray host.
//
// Activate is called by tray hosts over the bus, not by the embedding host.
func (si *StatusItem) Activate(x, y int32) *dbus.Error {
	si.mu.Lock()
	callback := si.callback
	evaluator := si.evaluator
	si.mu.Unlock()

	if callback == "" || evaluator == nil {
		return nil
	}

	if err := evaluator.Eval(callback); err != nil {
		log.Warn().Err(err).Msg("status icon callback failed")
		evaluator.ReportError(err)
	}

	return nil
}

// SecondaryActivate handles a middle click. Only single left clicks run the
// callback.
func (si *StatusItem) SecondaryActivate(x, y int32) *dbus.Error {
	return nil
}

// ContextMenu handles a right click. Only single left clicks run the
// callback.
func (si *StatusItem) ContextMenu(x, y int32) *dbus.Error {
	return nil
}

// Scroll handles wheel input over the item. It is ignored.
func (si *StatusItem) Scroll(delta int32, orientation string) *dbus.Error {
	return nil
}

// exportProperties publishes the item's properties. Must be called with
// si.mu held.
func (si *StatusItem) exportProperties() error {
	props, err := prop.Export(si.conn, StatusNotifierItemPath, prop.Map{
		StatusNotifierItemInterface: map[string]*prop.Prop{
			"Category": {
				Value:    "ApplicationStatus",
				Writable: false,
				Emit:     prop.EmitTrue,
			},
			"Id": {
				Value:    si.id,
				Writable: false,
				Emit:     prop.EmitTrue,
			},
			"Title": {
				Value:    si.title,
				Writable: false,
				Emit:     prop.EmitTrue,
			},
			"Status": {
				Value:    "Active",
				Writable: false,
				Emit:     prop.EmitTrue,
			},
			"WindowId": {
				Value:    uint32(0),
				Writable: false,
				Emit:     prop.EmitTrue,
			},
			"IconName": {
				Value:    "",
				Writable: false,
				Emit:     prop.EmitTrue,
			},
			"IconPixmap": {
				Value:    []dbusPixmap{},
				Writable: false,
				Emit:     prop.EmitTrue,
			},
			"ToolTip": {
				Value:    toolTip{Pixmaps: []dbusPixmap{}},
				Writable: false,
				Emit:     prop.EmitTrue,
			},
			"ItemIsMenu": {
				Value:    false,
				Writable: false,
				Emit:     prop.EmitTrue,
			},
			"Menu": {
				Value:    dbus.ObjectPath(MenuPath),
				Writable: false,
				Emit:     prop.EmitTrue,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to export properties: %w", err)
	}

	si.props = props

	return nil
}

// validBusString reports whether s is representable as a D-Bus string:
// valid UTF-8 with no NUL bytes.
func validBusString(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}
