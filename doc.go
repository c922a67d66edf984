// Package traybridge connects a scripting host's command layer to the
// desktop: a single status-bar icon published as a [StatusNotifierItem] and
// one-shot desktop notifications posted through the [Desktop Notifications]
// protocol. It is intended to be embedded in hosts that expose textual
// commands to user scripts, not to be a standalone tray application.
//
// # Usage
//
// The bridge consists of [Bridge], [StatusItem], and [Notifier]:
//   - [Bridge] owns the lifecycle. It connects to the session bus, creates
//     both controllers, and registers the "systray" and "sysnotify" commands
//     with the host's [Commander].
//   - [StatusItem] is the one status-bar icon of the process: an image, a
//     tooltip, and a callback token evaluated by the host's [Evaluator] when
//     the icon is clicked.
//   - [Notifier] posts notifications. A single notification object is reused:
//     every post replaces the previous one.
//
// The host supplies its image registry, script evaluator, and command table
// as interfaces; see [Options].
//
// If no StatusNotifierWatcher is available on the session bus, the icon
// commands still register but silently do nothing. Notifications are
// unaffected.
//
// [StatusNotifierItem]: https://www.freedesktop.org/wiki/Specifications/StatusNotifierItem/
// [Desktop Notifications]: https://specifications.freedesktop.org/notification-spec/latest/
package traybridge
