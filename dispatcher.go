package traybridge

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// StatusController is the surface the dispatcher drives for the status icon.
// [StatusItem] is the session-bus implementation.
type StatusController interface {
	Initialize() error
	SetIcon(icon *Icon) error
	SetTooltip(text string) error
	SetCallback(token string) error
	Destroy() error
}

// NotifyController is the surface the dispatcher drives for notifications.
// [Notifier] is the session-bus implementation.
type NotifyController interface {
	Initialize() error
	Post(title, message string) error
	Destroy() error
}

// minSubcommandPrefix is the shortest accepted abbreviation of a systray
// subcommand. Two characters keep "create", "modify", and "destroy"
// unambiguous.
const minSubcommandPrefix = 2

// systraySubcommands is the explicit table of systray subcommands, keyed by
// full keyword. Matching is by unique case-sensitive prefix of at least
// [minSubcommandPrefix] characters.
var systraySubcommands = []string{"create", "modify", "destroy"}

// matchSubcommand resolves input against keywords and returns the full
// keyword. Too-short, unknown, and ambiguous inputs are usage errors.
func matchSubcommand(input string, keywords []string) (string, error) {
	if len(input) < minSubcommandPrefix {
		return "", fmt.Errorf("ambiguous or unknown subcommand %q: %w", input, ErrUsage)
	}

	match := ""
	for _, keyword := range keywords {
		if len(input) > len(keyword) || keyword[:len(input)] != input {
			continue
		}

		if match != "" {
			return "", fmt.Errorf("ambiguous subcommand %q: %w", input, ErrUsage)
		}

		match = keyword
	}

	if match == "" {
		return "", fmt.Errorf("unknown subcommand %q: %w", input, ErrUsage)
	}

	return match, nil
}

// Dispatcher validates the textual "systray" and "sysnotify" commands and
// routes them to the controllers. It holds no native state of its own; all
// state lives in the controllers.
type Dispatcher struct {
	status   StatusController
	notifier NotifyController
	registry ImageRegistry
}

// NewDispatcher returns a new [Dispatcher] driving status and notifier.
func NewDispatcher(status StatusController, notifier NotifyController, registry ImageRegistry) *Dispatcher {
	return &Dispatcher{
		status:   status,
		notifier: notifier,
		registry: registry,
	}
}

// Systray handles the "systray" command. The args slice holds everything
// after the command name.
func (d *Dispatcher) Systray(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf(`wrong # args: should be "systray create|modify|destroy ...": %w`, ErrUsage)
	}

	subcommand, err := matchSubcommand(args[0], systraySubcommands)
	if err != nil {
		return err
	}

	switch subcommand {
	case "create":
		return d.create(args[1:])
	case "modify":
		return d.modify(args[1:])
	default:
		return d.destroy(args[1:])
	}
}

// SysNotify handles the "sysnotify" command: exactly a title and a message.
func (d *Dispatcher) SysNotify(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf(`wrong # args: should be "sysnotify title message": %w`, ErrUsage)
	}

	return d.notifier.Post(args[0], args[1])
}

// create applies "systray create image tooltip callback".
func (d *Dispatcher) create(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf(`wrong # args: should be "systray create image text callback": %w`, ErrUsage)
	}

	if args[2] == "" {
		return fmt.Errorf("unable to get the callback for systray icon: %w", ErrUsage)
	}

	if err := d.applyImage(args[0]); err != nil {
		return err
	}

	if err := d.status.SetTooltip(args[1]); err != nil {
		return err
	}

	return d.status.SetCallback(args[2])
}

// modify applies "systray modify field value" for exactly one field.
func (d *Dispatcher) modify(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf(`wrong # args: should be "systray modify image|text|callback value": %w`, ErrUsage)
	}

	switch args[0] {
	case "image":
		return d.applyImage(args[1])
	case "text":
		return d.status.SetTooltip(args[1])
	case "callback":
		if args[1] == "" {
			return fmt.Errorf("unable to get the callback for systray icon: %w", ErrUsage)
		}
		return d.status.SetCallback(args[1])
	default:
		return fmt.Errorf(`unknown field %q: should be "systray modify image|text|callback value": %w`, args[0], ErrUsage)
	}
}

// destroy applies "systray destroy".
func (d *Dispatcher) destroy(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf(`wrong # args: should be "systray destroy": %w`, ErrUsage)
	}

	return d.status.Destroy()
}

// applyImage resolves name through the host registry and replaces the icon.
// A resolved image with zero width or height is skipped without error and
// the displayed icon keeps its previous pixmap.
func (d *Dispatcher) applyImage(name string) error {
	img, err := d.registry.ResolveImage(name)
	if err != nil {
		return fmt.Errorf("unable to obtain image %q for systray icon: %w", name, ErrResource)
	}

	icon := NewIconFromImage(img)
	if icon.Empty() {
		log.Debug().Str("image", name).Msg("skipping zero-sized systray image")
		return nil
	}

	return d.status.SetIcon(icon)
}
