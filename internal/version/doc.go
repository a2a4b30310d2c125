// Package version exposes build metadata of the plugin host.
//
// Version, Commit and BuildTime are injected through ldflags. Title renders
// the startup banner headline, Full the detailed build line.
package version
