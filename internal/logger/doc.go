// Package logger provides the diagnostics logger of the plugin host, a small
// wrapper around zap offering:
//   - a global sugared logger with a console encoder on stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration and parsing utilities,
//   - convenience functions (Infof, WarnKV, etc.).
//
// It carries the host's own operational messages (retention passes,
// subscriber failures, configuration reloads). Plugin log lines never pass
// through it.
package logger
