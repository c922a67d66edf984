package traybridge

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"
)

const (
	MenuInterface = "com.canonical.dbusmenu"
	MenuPath      = "/StatusNotifierMenu"
)

// layoutNode is the wire form of a com.canonical.dbusmenu layout node,
// signature (ia{sv}av).
type layoutNode struct {
	ID         int32
	Properties map[string]dbus.Variant
	Children   []dbus.Variant
}

// itemMenu serves a static empty menu for the status item.
//
// The StatusNotifierItem specification requires the Menu property to point
// at a com.canonical.dbusmenu object, and some tray hosts refuse items whose
// menu path cannot be queried. The bridge exposes no menu entries of its
// own, so the layout stays a childless root.
type itemMenu struct {
	conn *dbus.Conn
}

func newItemMenu(conn *dbus.Conn) *itemMenu {
	return &itemMenu{conn: conn}
}

// export publishes the menu object and its properties.
func (m *itemMenu) export() error {
	if err := m.conn.Export(m, MenuPath, MenuInterface); err != nil {
		return fmt.Errorf("failed to export %s: %w", MenuInterface, err)
	}

	_, err := prop.Export(m.conn, MenuPath, prop.Map{
		MenuInterface: map[string]*prop.Prop{
			"Version": {
				Value:    uint32(3),
				Writable: false,
				Emit:     prop.EmitTrue,
			},
			"Status": {
				Value:    "normal",
				Writable: false,
				Emit:     prop.EmitTrue,
			},
			"TextDirection": {
				Value:    "ltr",
				Writable: false,
				Emit:     prop.EmitTrue,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to export %s properties: %w", MenuInterface, err)
	}

	return nil
}

// GetLayout returns the menu layout: a single root node with no children.
func (m *itemMenu) GetLayout(parentID int32, recursionDepth int32, propertyNames []string) (uint32, layoutNode, *dbus.Error) {
	root := layoutNode{
		ID: 0,
		Properties: map[string]dbus.Variant{
			"children-display": dbus.MakeVariant(""),
		},
		Children: []dbus.Variant{},
	}

	return 1, root, nil
}

// nodeProperties is the wire form of one entry of the GetGroupProperties
// reply, signature (ia{sv}).
type nodeProperties struct {
	ID         int32
	Properties map[string]dbus.Variant
}

// GetGroupProperties returns properties for the requested nodes. Only the
// root node exists.
func (m *itemMenu) GetGroupProperties(ids []int32, propertyNames []string) ([]nodeProperties, *dbus.Error) {
	result := make([]nodeProperties, 0, 1)

	for _, id := range ids {
		if id != 0 {
			continue
		}

		result = append(result, nodeProperties{ID: 0, Properties: map[string]dbus.Variant{}})
	}

	return result, nil
}

// GetProperty returns a single property of a node. The empty menu has none.
func (m *itemMenu) GetProperty(id int32, name string) (dbus.Variant, *dbus.Error) {
	return dbus.MakeVariant(""), nil
}

// Event receives menu events from the tray host. There are no entries to
// act on.
func (m *itemMenu) Event(id int32, eventID string, data dbus.Variant, timestamp uint32) *dbus.Error {
	return nil
}

// AboutToShow is called before the host displays the menu. The layout never
// changes.
func (m *itemMenu) AboutToShow(id int32) (bool, *dbus.Error) {
	return false, nil
}
