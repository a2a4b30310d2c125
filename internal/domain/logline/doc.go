// Package logline contains the core model types of the plugin log pipeline.
//
// It defines Severity, Color, Origin (the plugin identity attached to a line),
// Message (one logical log call) and Line (the plain and colorized renderings
// of one output line).
package logline
