package traybridge

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog/log"
)

// Bridge wires the host's command layer to the status item and the notifier.
// Construct it with [New], publish with [Bridge.Init], and tear down with
// [Bridge.Close]. One Bridge per process.
type Bridge struct {
	opts       Options
	connect    func() (*dbus.Conn, error)
	conn       *dbus.Conn
	status     *StatusItem
	notifier   *Notifier
	dispatcher *Dispatcher

	mu     sync.Mutex
	closed bool
}

// New returns an uninitialized [Bridge].
func New(opts Options) (*Bridge, error) {
	if opts.ID == "" {
		return nil, fmt.Errorf("new bridge: ID is required")
	}

	if opts.Registry == nil || opts.Evaluator == nil || opts.Commander == nil {
		return nil, fmt.Errorf("new bridge: Registry, Evaluator, and Commander are required")
	}

	if opts.Title == "" {
		opts.Title = opts.ID
	}

	return &Bridge{
		opts: opts,
		connect: func() (*dbus.Conn, error) {
			return dbus.ConnectSessionBus()
		},
	}, nil
}

// Init connects the session bus, creates the two controllers, and registers
// the "systray" and "sysnotify" commands with the host. Deletion hooks run
// the same teardown as the explicit "systray destroy" command.
//
// A missing session bus or StatusNotifierWatcher is a soft degrade, not an
// error: the commands still register, the status item silently no-ops, and
// notifications fall back to a bus-less backend. The condition is logged
// once.
func (b *Bridge) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("init: bridge is closed")
	}

	conn, err := b.connect()
	if err != nil {
		log.Info().Err(err).Msg("session bus unavailable, notifications use fallback backend")
		conn = nil
	}
	b.conn = conn

	b.status = NewStatusItem(conn, b.opts.ID, b.opts.Title, b.opts.Evaluator)
	b.notifier = NewNotifier(conn, b.opts.ID)

	if err := b.status.Initialize(); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	if b.status.Disabled() && conn != nil {
		log.Info().Msg("status icons not supported: no status notifier watcher on the session bus")
	}

	if err := b.notifier.Initialize(); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	b.dispatcher = NewDispatcher(b.status, b.notifier, b.opts.Registry)

	err = b.opts.Commander.RegisterCommand("systray", b.dispatcher.Systray, func() {
		b.status.Destroy()
	})
	if err != nil {
		return fmt.Errorf("init: failed to register systray: %w", err)
	}

	err = b.opts.Commander.RegisterCommand("sysnotify", b.dispatcher.SysNotify, func() {
		b.notifier.Destroy()
	})
	if err != nil {
		return fmt.Errorf("init: failed to register sysnotify: %w", err)
	}

	return nil
}

// StatusItem returns the bridge's status item controller.
func (b *Bridge) StatusItem() *StatusItem {
	return b.status
}

// Notifier returns the bridge's notification controller.
func (b *Bridge) Notifier() *Notifier {
	return b.notifier
}

// Dispatcher returns the bridge's command dispatcher.
func (b *Bridge) Dispatcher() *Dispatcher {
	return b.dispatcher
}

// Close tears down both controllers and disconnects from the bus. It is safe
// to call repeatedly, and after the host has already run the deletion hooks.
func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	// Teardown continues past the first failure so that no controller or
	// connection outlives a half-closed bridge; the first error is reported.
	var firstErr error

	if b.status != nil {
		if err := b.status.Destroy(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if b.notifier != nil {
		if err := b.notifier.Destroy(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if b.conn != nil {
		if err := b.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
