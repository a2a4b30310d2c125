package retention

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// dirPermissions is the mode of a freshly created logs directory.
const dirPermissions = 0o755

// Policy describes which files are counted and how many of them survive.
type Policy struct {
	// Directory is scanned non-recursively.
	Directory string
	// Pattern is a filepath.Match pattern applied to file names, e.g. "*.log".
	Pattern string
	// Exclude lists paths that are never counted or deleted.
	Exclude []string
	// MaxRetained is the cap on matching files. Zero disables eviction.
	MaxRetained int
	// ReserveCurrent keeps one slot free for the file the current run is about to create.
	ReserveCurrent bool
}

// Report summarizes one enforcement pass.
type Report struct {
	// Removed lists the deleted files, oldest first.
	Removed []string
	// Found is the number of matching files before eviction.
	Found int
	// Created is set when the directory did not exist and was created.
	Created bool
}

// candidate is a matching file and its modification time.
type candidate struct {
	// path is the full file path.
	path string
	// modTime is the last modification time.
	modTime time.Time
}

// errInvalidCap is returned for negative caps.
var errInvalidCap = errors.New("retention cap must not be negative")

// Enforce applies a policy that leaves at most maxRetained files matching pattern in dir.
func Enforce(ctx context.Context, dir, pattern string, maxRetained int) (*Report, error) {
	policy := &Policy{
		Directory:   dir,
		Pattern:     pattern,
		MaxRetained: maxRetained,
	}

	return policy.Enforce(ctx)
}

// Limit returns how many matching files may remain after enforcement.
func (p *Policy) Limit() int {
	limit := p.MaxRetained
	if p.ReserveCurrent {
		limit--
	}

	return max(limit, 0)
}

// Enforce creates the directory when it is missing and otherwise evicts the
// oldest matching files until no more than Limit remain. Files that fail to be
// removed are reported in the returned error but do not stop the pass.
func (p *Policy) Enforce(ctx context.Context) (*Report, error) {
	if p.MaxRetained < 0 {
		return nil, errInvalidCap
	}

	report := new(Report)

	info, err := os.Stat(p.Directory)

	switch {
	case errors.Is(err, os.ErrNotExist):
		if err = os.MkdirAll(p.Directory, dirPermissions); err != nil {
			return nil, fmt.Errorf("create logs directory: %w", err)
		}

		report.Created = true

		return report, nil
	case err != nil:
		return nil, fmt.Errorf("stat logs directory: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("logs path %q is not a directory", p.Directory)
	}

	if p.MaxRetained == 0 {
		return report, nil
	}

	files, err := p.scan()
	if err != nil {
		return nil, err
	}

	report.Found = len(files)

	limit := p.Limit()
	if len(files) <= limit {
		return report, nil
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})

	var (
		errs      []error
		remaining = len(files)
	)

	for _, file := range files {
		if remaining <= limit {
			break
		}

		if err = ctx.Err(); err != nil {
			errs = append(errs, err)

			break
		}

		if err = os.Remove(file.path); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", filepath.Base(file.path), err))

			continue
		}

		report.Removed = append(report.Removed, file.path)
		remaining--
	}

	return report, errors.Join(errs...)
}

// scan lists the regular files in the directory that match the pattern.
func (p *Policy) scan() ([]candidate, error) {
	entries, err := os.ReadDir(p.Directory)
	if err != nil {
		return nil, fmt.Errorf("read logs directory: %w", err)
	}

	excluded := make(map[string]struct{}, len(p.Exclude))
	for _, path := range p.Exclude {
		excluded[cleanAbs(path)] = struct{}{}
	}

	files := make([]candidate, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		matched, err := filepath.Match(p.Pattern, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("match pattern %q: %w", p.Pattern, err)
		}

		if !matched {
			continue
		}

		path := filepath.Join(p.Directory, entry.Name())
		if _, skip := excluded[cleanAbs(path)]; skip {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// Vanished between listing and stat.
			continue
		}

		files = append(files, candidate{
			path:    path,
			modTime: info.ModTime(),
		})
	}

	return files, nil
}

// cleanAbs returns an absolute, cleaned form of path for comparisons.
func cleanAbs(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}

	return filepath.Clean(path)
}
