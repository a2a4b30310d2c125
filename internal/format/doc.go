// Package format renders log messages into output lines.
//
// Every message becomes a plain line, the exact text persisted to the log
// files, and a colorized line for the console. Colors are applied as
// independent lipgloss spans for the timestamp bracket, the origin tag and
// the body.
package format
