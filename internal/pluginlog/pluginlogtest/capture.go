// Package pluginlogtest provides an in-memory Logger for tests of code that logs.
package pluginlogtest

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/plugin-logger/internal/origin"
	"github.com/oshokin/plugin-logger/internal/pluginlog"
	"github.com/oshokin/plugin-logger/internal/sink"
)

// Timestamp is the clock reading of every captured line, rendered as "03:04:05.006".
//
//nolint:gochecknoglobals // Shared immutable test fixture.
var Timestamp = time.Date(2024, 1, 2, 3, 4, 5, 6*int(time.Millisecond), time.UTC)

// Prefix is the rendered timestamp bracket of every captured line.
const Prefix = "[03:04:05.006] "

// Capture is a Logger writing plain lines to memory.
type Capture struct {
	// Logger is the pipeline under test.
	Logger *pluginlog.Logger
	// buf holds the written lines.
	buf bytes.Buffer
	// mu guards buf for readers racing with writers.
	mu sync.Mutex
}

// New returns a capture attributing calls through registry.
// It is closed when the test ends.
func New(t testing.TB, registry origin.Registry) *Capture {
	t.Helper()

	renderer := lipgloss.NewRenderer(io.Discard)
	renderer.SetColorProfile(termenv.Ascii)

	c := new(Capture)
	c.Logger = pluginlog.New(context.Background(), sink.NewGroup(sink.Discard, zapcore.AddSync(c)), &pluginlog.Options{
		Registry: registry,
		Renderer: renderer,
		Clock:    func() time.Time { return Timestamp },
		UTC:      true,
		OnFatal: func(err *pluginlog.FatalError) {
			t.Errorf("fatal log failure: %v", err)
		},
	})

	t.Cleanup(func() {
		_ = c.Logger.Close()
	})

	return c
}

// Install makes the capture the default Logger until the test ends.
// Tests calling it must not run in parallel.
func (c *Capture) Install(t testing.TB) *Capture {
	t.Helper()

	prev := pluginlog.SetDefault(c.Logger)

	t.Cleanup(func() {
		pluginlog.SetDefault(prev)
	})

	return c
}

// Write implements io.Writer.
func (c *Capture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.buf.Write(p)
}

// Lines returns the captured lines without their trailing newline.
func (c *Capture) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	text := strings.TrimSuffix(c.buf.String(), "\n")
	if text == "" {
		return nil
	}

	return strings.Split(text, "\n")
}
