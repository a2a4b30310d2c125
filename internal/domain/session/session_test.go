package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestRun_Clone ensures the clone does not share the actor.
func TestRun_Clone(t *testing.T) {
	t.Parallel()

	orig := &Run{Number: 3, Actor: &Actor{Hostname: "box", Username: "ann"}}
	cloned := orig.Clone()

	cloned.Actor.Username = "bob"
	cloned.Number = 4

	require.Equal(t, "ann", orig.Actor.Username)
	require.Equal(t, 3, orig.Number)
	require.Nil(t, (*Actor)(nil).Clone())
}

// TestRun_NextAndCrashed numbers runs and detects unclean shutdowns.
func TestRun_NextAndCrashed(t *testing.T) {
	t.Parallel()

	var (
		now   = time.Now()
		actor = &Actor{Hostname: "box"}
		first = (*Run)(nil).Next(now, actor)
	)

	require.Equal(t, 1, first.Number)
	require.NotSame(t, actor, first.Actor)
	require.True(t, first.Crashed())
	require.False(t, (*Run)(nil).Crashed())

	first.Clean = true
	require.False(t, first.Crashed())
	require.Equal(t, 2, first.Next(now, nil).Number)
}
