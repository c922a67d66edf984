package traybridge

import "errors"

// Error kinds reported through the host's command-result convention. Every
// failure returned by a bridge command wraps exactly one of these, so hosts
// can classify with [errors.Is].
var (
	// ErrUsage marks a wrong subcommand or argument count. No state was
	// mutated.
	ErrUsage = errors.New("usage error")

	// ErrResource marks a failed image-name resolution. The create or modify
	// aborted before mutating that field.
	ErrResource = errors.New("resource error")

	// ErrEncoding marks text that cannot be represented as a D-Bus string.
	ErrEncoding = errors.New("encoding error")

	// ErrUnavailable marks an operation on a bus that is gone. It is never
	// surfaced for the soft-disabled status item, which silently no-ops.
	ErrUnavailable = errors.New("bus unavailable")
)
