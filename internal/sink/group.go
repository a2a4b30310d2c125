package sink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"

	"github.com/oshokin/plugin-logger/internal/domain/logline"
)

const (
	// DefaultFilePermissions is the mode of newly created log files.
	DefaultFilePermissions = 0o644

	// DefaultDirPermissions is the mode of newly created log directories.
	DefaultDirPermissions = 0o755
)

// ErrClosed is returned by writes after Close.
var ErrClosed = errors.New("sink group closed")

// Group fans lines out to the persistent destinations and the console.
type Group struct {
	// files receives every plain line, once per destination.
	files zapcore.WriteSyncer
	// closers are released by Close.
	closers []io.Closer
	// console receives the colorized lines.
	console Console
	// paths are the file names of the persistent destinations, if any.
	paths []string
	// mu serializes all destinations together.
	mu sync.Mutex
	// closed is set by Close.
	closed bool
}

// NewGroup builds a group over already opened destinations.
// Destinations implementing io.Closer are closed by Close.
func NewGroup(console Console, files ...zapcore.WriteSyncer) *Group {
	if console == nil {
		console = Discard
	}

	g := &Group{
		files:   zapcore.NewMultiWriteSyncer(files...),
		console: console,
	}

	for _, f := range files {
		if c, ok := f.(io.Closer); ok {
			g.closers = append(g.closers, c)
		}

		if named, ok := f.(interface{ Name() string }); ok {
			g.paths = append(g.paths, named.Name())
		}
	}

	return g
}

// Open truncates (or creates) the rolling file at latestPath, creates the archival
// file at archivePath and returns a group writing to both plus console.
func Open(latestPath, archivePath string, console Console) (*Group, error) {
	if err := os.MkdirAll(filepath.Dir(latestPath), DefaultDirPermissions); err != nil {
		return nil, fmt.Errorf("create latest log directory: %w", err)
	}

	latest, err := os.OpenFile(filepath.Clean(latestPath), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, DefaultFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("open latest log: %w", err)
	}

	archive, err := os.OpenFile(filepath.Clean(archivePath), os.O_CREATE|os.O_EXCL|os.O_APPEND|os.O_WRONLY, DefaultFilePermissions)
	if err != nil {
		_ = latest.Close()

		return nil, fmt.Errorf("create archival log: %w", err)
	}

	return NewGroup(console, latest, archive), nil
}

// Paths returns the names of the files the group writes to.
func (g *Group) Paths() []string {
	return append([]string(nil), g.paths...)
}

// Write appends every line's plain text to each file and sends its colorized
// text to the console, as one unit with respect to other writes.
func (g *Group) Write(lines ...logline.Line) error {
	if len(lines) == 0 {
		return nil
	}

	var buf strings.Builder

	for _, line := range lines {
		buf.WriteString(line.Plain)
		buf.WriteString(zapcore.DefaultLineEnding)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return ErrClosed
	}

	if _, err := g.files.Write([]byte(buf.String())); err != nil {
		return fmt.Errorf("write log files: %w", err)
	}

	for _, line := range lines {
		if err := g.console.WriteLine(line.Colored); err != nil {
			return fmt.Errorf("write console: %w", err)
		}
	}

	return nil
}

// WriteBlank writes an empty spacer line everywhere.
func (g *Group) WriteBlank() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return ErrClosed
	}

	if _, err := g.files.Write([]byte(zapcore.DefaultLineEnding)); err != nil {
		return fmt.Errorf("write log files: %w", err)
	}

	if err := g.console.WriteBlank(); err != nil {
		return fmt.Errorf("write console: %w", err)
	}

	return nil
}

// Flush commits the files to stable storage. Calling it repeatedly is harmless.
func (g *Group) Flush() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil
	}

	if err := g.files.Sync(); err != nil {
		return fmt.Errorf("sync log files: %w", err)
	}

	return nil
}

// Close flushes and closes the files. Only the first call has an effect.
func (g *Group) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil
	}

	g.closed = true

	errs := make([]error, 0, len(g.closers)+1)

	if err := g.files.Sync(); err != nil {
		errs = append(errs, fmt.Errorf("sync log files: %w", err))
	}

	for _, c := range g.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close log file: %w", err))
		}
	}

	return errors.Join(errs...)
}
