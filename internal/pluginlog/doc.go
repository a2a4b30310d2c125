// Package pluginlog is the logging facade shared by the host and its plugins.
//
// A Logger attributes unlabelled calls to the plugin found on the call stack,
// renders each message once and writes it to the console, the rolling
// "latest" file and the per-run archival file, then notifies subscribers.
//
// Plugins usually log through the package-level functions, which forward to
// the Logger installed with SetDefault, or through a Named instance carrying a
// fixed identity. The host builds the Logger with Setup, which enforces the
// retention cap of the logs directory before the run's files are created, and
// releases it with Close.
package pluginlog
