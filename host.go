package traybridge

import (
	"image"
)

// ImageRegistry resolves image names used by the "systray create" and
// "systray modify image" commands. It is typically backed by the host's
// image/resource table.
type ImageRegistry interface {
	// ResolveImage returns the decoded image registered under name. An error
	// means the name is unknown to the host; the image itself is never
	// decoded by this package.
	ResolveImage(name string) (image.Image, error)
}

// Evaluator executes callback tokens in the host's script engine.
//
// Eval is called synchronously from the click handler, on whatever goroutine
// delivers the click event. A long-running callback therefore stalls further
// event processing; hosts that care should make their callbacks return
// quickly.
type Evaluator interface {
	Eval(callback string) error

	// ReportError delivers an error raised by a callback evaluation to the
	// host's normal error-reporting channel (background error handler,
	// stderr, or similar). It must not panic.
	ReportError(err error)
}

// CommandFunc handles one invocation of a registered command. The args slice
// holds the arguments after the command name, already split by the host.
// A nil return is success; a non-nil return is reported to the caller using
// the host's command-result convention.
type CommandFunc func(args []string) error

// Commander is the host's command-registration facility.
type Commander interface {
	// RegisterCommand makes fn available under name. The onDelete hook runs
	// when the host removes the command, for instance at interpreter
	// teardown, and is the place to release native resources.
	RegisterCommand(name string, fn CommandFunc, onDelete func()) error
}

// Options configures a [Bridge].
type Options struct {
	// ID uniquely identifies the application on the bus, such as the host's
	// application name. Required.
	ID string

	// Title describes the application; may be more descriptive than ID.
	// Defaults to ID.
	Title string

	// Registry resolves image names. Required.
	Registry ImageRegistry

	// Evaluator runs click callbacks. Required.
	Evaluator Evaluator

	// Commander registers the bridge commands. Required.
	Commander Commander
}
