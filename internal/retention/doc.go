// Package retention caps the number of archival log files kept on disk.
//
// The policy runs once, before the archival file of the current run is
// created, and evicts the least recently modified files first.
package retention
