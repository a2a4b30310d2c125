//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"
	"os"
	"os/user"

	"github.com/mitchellh/go-ps"
)

// Host describes the process running the plugin host.
type Host struct {
	// Hostname is the machine name.
	Hostname string
	// Username is the account running the process.
	Username string
	// Executable is the process executable name.
	Executable string
	// Parent is the executable name of the parent process, if known.
	Parent string
	// PID is the process identifier.
	PID int
}

// DetectHost gathers host, user and process information for the startup banner.
func DetectHost() (*Host, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	h := &Host{
		Hostname: hostname,
		Username: currentUser.Username,
		PID:      os.Getpid(),
	}

	process, err := ps.FindProcess(h.PID)
	if err != nil {
		return nil, fmt.Errorf("find host process: %w", err)
	}

	// Some platforms cannot enumerate the process table.
	if process == nil {
		return h, nil
	}

	h.Executable = process.Executable()

	if parent, err := ps.FindProcess(process.PPid()); err == nil && parent != nil {
		h.Parent = parent.Executable()
	}

	return h, nil
}

// OtherInstances returns the PIDs of other processes running the same executable.
// Concurrent hosts in one directory would overwrite each other's rolling log.
func (h *Host) OtherInstances() ([]int, error) {
	if h.Executable == "" {
		return nil, nil
	}

	processList, err := ps.Processes()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	var pids []int

	for _, process := range processList {
		if process.Pid() == h.PID {
			continue
		}

		if process.Executable() != h.Executable {
			continue
		}

		pids = append(pids, process.Pid())
	}

	return pids, nil
}
