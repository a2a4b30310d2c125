package session

import "time"

// Actor identifies who started a run.
type Actor struct {
	// Hostname is the machine name where the host ran.
	Hostname string
	// Username is the system user running the host.
	Username string
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// Run describes one host run.
type Run struct {
	// Started is when the run began.
	Started time.Time
	// Stopped is when the run ended, zero while it is still going.
	Stopped time.Time
	// Actor is who started the run.
	Actor *Actor
	// Archive is the archival log of the run.
	Archive string
	// Number counts runs from 1.
	Number int
	// Ticks is the number of heartbeats delivered.
	Ticks int
	// Clean is set once the run shut down in an orderly way.
	Clean bool
}

// Clone returns a copy of the run to avoid leaking internal references.
func (r *Run) Clone() *Run {
	cloned := *r
	cloned.Actor = r.Actor.Clone()

	return &cloned
}

// Next returns a fresh, unfinished run following r. A nil r starts the count.
func (r *Run) Next(started time.Time, actor *Actor) *Run {
	number := 1
	if r != nil {
		number = r.Number + 1
	}

	return &Run{
		Started: started,
		Actor:   actor.Clone(),
		Number:  number,
	}
}

// Crashed reports whether the run was recorded as started but never as stopped cleanly.
func (r *Run) Crashed() bool {
	return r != nil && !r.Clean
}
