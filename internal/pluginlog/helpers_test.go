package pluginlog_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/plugin-logger/internal/domain/logline"
	"github.com/oshokin/plugin-logger/internal/events"
	"github.com/oshokin/plugin-logger/internal/origin"
	"github.com/oshokin/plugin-logger/internal/pluginlog"
	"github.com/oshokin/plugin-logger/internal/sink"
)

// thisPackage is the import path of the test package, registered as a plugin.
const thisPackage = "github.com/oshokin/plugin-logger/internal/pluginlog_test"

// testTime renders as "03:04:05.006" in UTC.
//
//nolint:gochecknoglobals // Shared immutable test fixture.
var testTime = time.Date(2024, 1, 2, 3, 4, 5, 6*int(time.Millisecond), time.UTC)

var errDiskFull = errors.New("disk full")

// recordingConsole keeps every colorized line it receives.
type recordingConsole struct {
	// lines holds the received lines, "" for blanks.
	lines []string
	// mu protects lines.
	mu sync.Mutex
}

// WriteLine records line.
func (c *recordingConsole) WriteLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = append(c.lines, line)

	return nil
}

// WriteBlank records an empty line.
func (c *recordingConsole) WriteBlank() error {
	return c.WriteLine("")
}

// Lines returns a copy of the recorded lines.
func (c *recordingConsole) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string(nil), c.lines...)
}

// failingSyncer rejects every write.
type failingSyncer struct{}

// Write always fails.
func (failingSyncer) Write([]byte) (int, error) { return 0, errDiskFull }

// Sync always succeeds.
func (failingSyncer) Sync() error { return nil }

// recorder collects published events in arrival order.
type recorder struct {
	// events holds the received events.
	events []events.Event
	// mu protects events.
	mu sync.Mutex
}

// attach subscribes the recorder to every list of bus.
func (r *recorder) attach(bus *events.Bus) {
	bus.OnMessage(func(tagColor, bodyColor logline.Color, origin, text string) {
		r.add(events.Event{Kind: events.KindMessage, TagColor: tagColor, BodyColor: bodyColor, Origin: origin, Text: text})
	})
	bus.OnWarning(func(origin, text string) {
		r.add(events.Event{Kind: events.KindWarning, Origin: origin, Text: text})
	})
	bus.OnError(func(origin, text string) {
		r.add(events.Event{Kind: events.KindError, Origin: origin, Text: text})
	})
}

// add appends ev.
func (r *recorder) add(ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, ev)
}

// Events returns a copy of the received events.
func (r *recorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]events.Event(nil), r.events...)
}

// fixture is a Logger writing to in-memory destinations.
type fixture struct {
	// logger is the pipeline under test.
	logger *pluginlog.Logger
	// latest and archive stand in for the two files.
	latest, archive *bytes.Buffer
	// console receives the colorized lines.
	console *recordingConsole
	// events receives every published event.
	events *recorder
	// fatal holds the failures passed to the fatal handler.
	fatal []*pluginlog.FatalError
}

// newFixture builds a Logger that attributes the test package to "Test Plugin".
func newFixture(t *testing.T, files ...zapcore.WriteSyncer) *fixture {
	t.Helper()

	return newProfileFixture(t, termenv.Ascii, files...)
}

// newProfileFixture is newFixture with console lines rendered in profile.
func newProfileFixture(t *testing.T, profile termenv.Profile, files ...zapcore.WriteSyncer) *fixture {
	t.Helper()

	registry := origin.NewPackageRegistry()
	registry.Register(thisPackage, logline.Origin{Name: "Test Plugin", Color: logline.Magenta})

	renderer := lipgloss.NewRenderer(io.Discard)
	renderer.SetColorProfile(profile)

	fx := &fixture{
		latest:  new(bytes.Buffer),
		archive: new(bytes.Buffer),
		console: new(recordingConsole),
		events:  new(recorder),
	}

	if len(files) == 0 {
		files = []zapcore.WriteSyncer{zapcore.AddSync(fx.latest), zapcore.AddSync(fx.archive)}
	}

	fx.logger = pluginlog.New(context.Background(), sink.NewGroup(fx.console, files...), &pluginlog.Options{
		Registry: registry,
		Renderer: renderer,
		Clock:    func() time.Time { return testTime },
		UTC:      true,
		OnFatal: func(err *pluginlog.FatalError) {
			fx.fatal = append(fx.fatal, err)
		},
	})
	fx.events.attach(fx.logger.Events())

	t.Cleanup(func() {
		_ = fx.logger.Close()
	})

	return fx
}

// foreground returns the true color escape sequence that starts text in c.
func foreground(c logline.Color) string {
	return termenv.CSI + termenv.TrueColor.Color(string(c)).Sequence(false) + "m"
}

// latestLines returns the lines written to the rolling destination.
func (fx *fixture) latestLines() []string {
	return strings.Split(strings.TrimSuffix(fx.latest.String(), "\n"), "\n")
}
