// Package config defines the plugin host settings and provides helpers to
// load, validate, save and watch them in YAML format.
//
// The Config type holds the log destinations, the retention cap, the warning
// toggle and the plugins seeded into the attribution registry.
package config
