// Package host runs the plugin host: it prepares the logging pipeline, prints
// the startup banner and the plugin load summary, then drives the plugins on a
// heartbeat until it is stopped.
package host
