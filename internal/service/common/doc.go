// Package common holds helpers shared by several services.
//
// It detects the host process (hostname, user, executable) for the startup
// banner and translates the host settings into logging pipeline options and
// an attribution registry.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
