// Package events lets observers subscribe to message, warning and error
// notifications of the plugin log pipeline without touching its sinks.
//
// Callbacks run synchronously in registration order. A panicking callback is
// isolated: it is reported as a CallbackError and the remaining callbacks
// still run.
package events
