// Package session defines the record of a plugin host run.
//
// A Run is stored when the host starts and again when it stops, so the next
// start can tell whether the previous one shut down cleanly.
package session
