//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDetectHost ensures hostname, username and process details are detected.
func TestDetectHost(t *testing.T) {
	t.Parallel()

	h, err := DetectHost()
	require.NoError(t, err)
	require.NotEmpty(t, h.Hostname)
	require.NotEmpty(t, h.Username)
	require.Equal(t, os.Getpid(), h.PID)
}

// TestOtherInstances never reports the current process.
func TestOtherInstances(t *testing.T) {
	t.Parallel()

	h, err := DetectHost()
	require.NoError(t, err)

	pids, err := h.OtherInstances()
	require.NoError(t, err)
	require.NotContains(t, pids, os.Getpid())

	pids, err = (&Host{PID: os.Getpid()}).OtherInstances()
	require.NoError(t, err)
	require.Empty(t, pids)
}
