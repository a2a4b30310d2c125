// Package state implements persistence for the host run journal.
//
// The FileRepository stores and loads the last session.Run as YAML on disk
// and exposes a Repository interface that the host service depends on.
package state
