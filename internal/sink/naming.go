package sink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// ArchiveExtension is the extension of archival files.
	ArchiveExtension = ".log"

	// ArchivePattern matches archival files inside the logs directory.
	ArchivePattern = "*" + ArchiveExtension

	// archiveLayout is the second-resolution part of archival names.
	archiveLayout = "06-01-02_15-04-05"
)

// errNoUniqueName is returned when every precision level is already taken.
var errNoUniqueName = errors.New("failed to generate unique archival log name")

// ArchivePath returns a path inside dir, named after start, that does not exist yet.
// Names start at second resolution and gain sub-second digits on collision.
func ArchivePath(dir string, start time.Time) (string, error) {
	base := start.Format(archiveLayout)

	candidate := filepath.Join(dir, base+ArchiveExtension)
	if !exists(candidate) {
		return candidate, nil
	}

	nanos := int64(start.Nanosecond())

	for precision := 1; precision <= 9; precision++ {
		subseconds := nanos / pow10(9-precision)

		candidate = filepath.Join(dir, fmt.Sprintf("%s.%0*d%s", base, precision, subseconds, ArchiveExtension))
		if !exists(candidate) {
			return candidate, nil
		}
	}

	return "", errNoUniqueName
}

// exists reports whether path is taken.
func exists(path string) bool {
	_, err := os.Lstat(path)

	return !errors.Is(err, os.ErrNotExist)
}

// pow10 returns 10^n.
func pow10(n int) int64 {
	result := int64(1)
	for range n {
		result *= 10
	}

	return result
}
