package version

import (
	"fmt"
	"runtime"
)

// Name is the product name shown in banners.
const Name = "Plugin Host"

var (
	// Version is the semantic version of the build. It can be overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Title returns the banner headline, e.g. "Plugin Host v0.1.0".
func Title() string {
	return Name + " v" + Version
}

// Full returns the version with commit, build time and toolchain.
func Full() string {
	return fmt.Sprintf("%s, commit: %s, built at: %s, %s %s/%s",
		Title(), Commit, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
