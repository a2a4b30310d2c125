package pluginlog_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/plugin-logger/internal/domain/logline"
	"github.com/oshokin/plugin-logger/internal/events"
	"github.com/oshokin/plugin-logger/internal/format"
	"github.com/oshokin/plugin-logger/internal/pluginlog"
	"github.com/oshokin/plugin-logger/internal/sink"
)

// TestLogger_AttributesCallerPlugin tags lines with the plugin owning the calling code.
func TestLogger_AttributesCallerPlugin(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)

	fx.logger.Msg("hello")
	fx.logger.MsgColorf(logline.Green, "%d items", 3)

	require.Equal(t, []string{
		"[03:04:05.006] [Test_Plugin] hello",
		"[03:04:05.006] [Test_Plugin] 3 items",
	}, fx.latestLines())
	require.Equal(t, fx.latest.String(), fx.archive.String())
	require.Equal(t, fx.latestLines(), fx.console.Lines())

	require.Equal(t, []events.Event{
		{
			Kind:      events.KindMessage,
			Origin:    "Test_Plugin",
			Text:      "hello",
			TagColor:  logline.Magenta,
			BodyColor: logline.DefaultTextColor,
		},
		{
			Kind:      events.KindMessage,
			Origin:    "Test_Plugin",
			Text:      "3 items",
			TagColor:  logline.Magenta,
			BodyColor: logline.Green,
		},
	}, fx.events.Events())
}

// TestLogger_UnattributedWithoutRegistry writes untagged lines when no plugin matches.
func TestLogger_UnattributedWithoutRegistry(t *testing.T) {
	t.Parallel()

	var (
		buf      strings.Builder
		renderer = lipgloss.NewRenderer(io.Discard)
	)

	renderer.SetColorProfile(termenv.Ascii)

	l := pluginlog.New(context.Background(), sink.NewGroup(sink.NewConsole(&buf)), &pluginlog.Options{
		Renderer: renderer,
		Clock:    func() time.Time { return testTime },
		UTC:      true,
	})

	l.Msg("host says hi")
	l.Warning(42)

	require.Equal(t, "[03:04:05.006] host says hi\n[03:04:05.006] 42\n", buf.String())
}

// TestLogger_DirectSkipsAttribution never tags direct lines, even from plugin code.
func TestLogger_DirectSkipsAttribution(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)

	fx.logger.MsgDirect("raw")
	fx.logger.MsgDirectColor(logline.Magenta, "colored raw")

	require.Equal(t, []string{
		"[03:04:05.006] raw",
		"[03:04:05.006] colored raw",
	}, fx.latestLines())

	got := fx.events.Events()
	require.Len(t, got, 2)
	require.Empty(t, got[0].Origin)
	require.Equal(t, logline.DefaultOriginColor, got[0].TagColor)
	require.Equal(t, logline.Magenta, got[1].BodyColor)
}

// TestLogger_WarningsAndErrors verifies severity payloads and their events.
func TestLogger_WarningsAndErrors(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)

	fx.logger.Warningf("low %s", "disk")
	fx.logger.Error(nil)
	fx.logger.ErrorCause("failed to load", errDiskFull)
	fx.logger.ErrorCause("no cause", nil)

	require.Equal(t, []string{
		"[03:04:05.006] [Test_Plugin] low disk",
		"[03:04:05.006] [Test_Plugin] null",
		"[03:04:05.006] [Test_Plugin] failed to load",
		"disk full",
		"[03:04:05.006] [Test_Plugin] no cause",
		"null",
	}, fx.latestLines())

	require.Equal(t, []events.Event{
		{Kind: events.KindWarning, Origin: "Test_Plugin", Text: "low disk"},
		{Kind: events.KindError, Origin: "Test_Plugin", Text: "null"},
		{Kind: events.KindError, Origin: "Test_Plugin", Text: "failed to load\ndisk full"},
		{Kind: events.KindError, Origin: "Test_Plugin", Text: "no cause\nnull"},
	}, fx.events.Events())
}

// TestLogger_ColorOverloads renders warnings and errors in their fixed color whatever the caller asks for.
func TestLogger_ColorOverloads(t *testing.T) {
	t.Parallel()

	fx := newProfileFixture(t, termenv.TrueColor)

	fx.logger.MsgColor(logline.Blue, "custom")
	fx.logger.ErrorColor(logline.Blue, "failed")
	fx.logger.Error("failed")
	fx.logger.WarningColorf(logline.Blue, "%s", "careful")
	fx.logger.Warning("careful")

	require.Equal(t, []string{
		"[03:04:05.006] [Test_Plugin] custom",
		"[03:04:05.006] [Test_Plugin] failed",
		"[03:04:05.006] [Test_Plugin] failed",
		"[03:04:05.006] [Test_Plugin] careful",
		"[03:04:05.006] [Test_Plugin] careful",
	}, fx.latestLines())

	console := fx.console.Lines()
	require.Len(t, console, 5)
	require.Contains(t, console[0], foreground(logline.Blue)+"custom")
	require.Contains(t, console[0], foreground(logline.Magenta)+"Test_Plugin")

	require.Equal(t, console[2], console[1])
	require.Contains(t, console[1], foreground(logline.ErrorColor)+"failed")
	require.Contains(t, console[1], foreground(logline.ErrorColor)+"Test_Plugin")
	require.NotContains(t, console[1], foreground(logline.Blue))
	require.NotContains(t, console[1], foreground(logline.Magenta))

	require.Equal(t, console[4], console[3])
	require.Contains(t, console[3], foreground(logline.WarningColor)+"careful")
	require.NotContains(t, console[3], foreground(logline.Blue))

	require.Equal(t, []events.Event{
		{Kind: events.KindMessage, Origin: "Test_Plugin", Text: "custom", TagColor: logline.Magenta, BodyColor: logline.Blue},
		{Kind: events.KindError, Origin: "Test_Plugin", Text: "failed"},
		{Kind: events.KindError, Origin: "Test_Plugin", Text: "failed"},
		{Kind: events.KindWarning, Origin: "Test_Plugin", Text: "careful"},
		{Kind: events.KindWarning, Origin: "Test_Plugin", Text: "careful"},
	}, fx.events.Events())
}

// nilStringer dereferences its receiver.
type nilStringer struct{ name string }

// String panics on a nil receiver.
func (s *nilStringer) String() string { return s.name }

// nilError dereferences its receiver.
type nilError struct{ reason string }

// Error panics on a nil receiver.
func (e *nilError) Error() string { return e.reason }

// TestLogger_TypedNilPayload logs typed nil payloads as null.
func TestLogger_TypedNilPayload(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)

	require.NotPanics(t, func() {
		fx.logger.Msg((*nilStringer)(nil))
		fx.logger.Error((*nilError)(nil))
		fx.logger.ErrorCause("wrapped", (*nilError)(nil))
	})

	require.Equal(t, []string{
		"[03:04:05.006] [Test_Plugin] null",
		"[03:04:05.006] [Test_Plugin] null",
		"[03:04:05.006] [Test_Plugin] wrapped",
		"null",
	}, fx.latestLines())
	require.Empty(t, fx.fatal)
}

// TestLogger_HiddenWarnings suppresses the line and the event.
func TestLogger_HiddenWarnings(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)

	fx.logger.SetHideWarnings(true)
	require.True(t, fx.logger.HideWarnings())

	fx.logger.Warning("hidden")
	fx.logger.Error("shown")

	fx.logger.SetHideWarnings(false)
	fx.logger.Warning("visible")

	require.Equal(t, []string{
		"[03:04:05.006] [Test_Plugin] shown",
		"[03:04:05.006] [Test_Plugin] visible",
	}, fx.latestLines())
	require.Len(t, fx.events.Events(), 2)
}

// TestLogger_BigError writes a boxed block and publishes a single event.
func TestLogger_BigError(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)

	fx.logger.BigError("Broken Plugin", "line1\nline2")
	fx.logger.BigError("", "anonymous")

	var (
		sep    = strings.Repeat("=", format.BigErrorWidth)
		prefix = "[03:04:05.006] [Broken_Plugin] "
	)

	require.Equal(t, []string{
		prefix + sep,
		prefix + "line1",
		prefix + "line2",
		prefix + sep,
		"[03:04:05.006] " + sep,
		"[03:04:05.006] anonymous",
		"[03:04:05.006] " + sep,
	}, fx.latestLines())

	require.Equal(t, []events.Event{
		{Kind: events.KindError, Origin: "Broken_Plugin", Text: "line1\nline2"},
		{Kind: events.KindError, Text: "anonymous"},
	}, fx.events.Events())
}

// TestLogger_SeparatorsAndSpacers verifies separator widths and blank lines.
func TestLogger_SeparatorsAndSpacers(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)

	fx.logger.WriteLine(0)
	fx.logger.WriteSpacer()
	fx.logger.WriteLineColor(logline.Magenta, 5)

	require.Equal(t, []string{
		"[03:04:05.006] " + strings.Repeat("-", pluginlog.DefaultSeparatorLength),
		"",
		"[03:04:05.006] -----",
	}, fx.latestLines())

	got := fx.events.Events()
	require.Len(t, got, 2)
	require.Equal(t, logline.Magenta, got[1].BodyColor)
}

// TestLogger_PluginBanner writes the banner lines without publishing.
func TestLogger_PluginBanner(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)

	fx.logger.PluginBanner(&format.Banner{Name: "Greeter", Version: "1.2.0", Author: "oshokin"})

	require.Equal(t, []string{
		"[03:04:05.006] Greeter v1.2.0",
		"[03:04:05.006] by oshokin",
	}, fx.latestLines())
	require.Empty(t, fx.events.Events())
}

// TestLogger_ConcurrentWritesKeepOrder checks that lines stay whole and events follow write order.
func TestLogger_ConcurrentWritesKeepOrder(t *testing.T) {
	t.Parallel()

	const (
		writers  = 2
		messages = 1000
	)

	fx := newFixture(t)

	var wg sync.WaitGroup

	for w := range writers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range messages {
				fx.logger.Msgf("%d-%04d", w, i)
			}
		}()
	}

	wg.Wait()
	require.NoError(t, fx.logger.Flush())

	var (
		lines = fx.latestLines()
		got   = fx.events.Events()
		next  = make([]int, writers)
	)

	require.Len(t, lines, writers*messages)
	require.Len(t, got, writers*messages)
	require.Equal(t, lines, fx.console.Lines())

	for i, line := range lines {
		require.Equal(t, "[03:04:05.006] [Test_Plugin] "+got[i].Text, line)

		var w, n int

		_, err := fmt.Sscanf(got[i].Text, "%d-%d", &w, &n)
		require.NoError(t, err)
		require.Equal(t, next[w], n)

		next[w]++
	}
}

// TestLogger_ReentrantSubscriber allows subscribers to log from inside a callback.
func TestLogger_ReentrantSubscriber(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)

	fx.logger.Events().OnError(func(_, text string) {
		fx.logger.Msg("handled " + text)
	})

	fx.logger.Error("boom")

	require.Equal(t, []string{
		"[03:04:05.006] [Test_Plugin] boom",
		"[03:04:05.006] [Test_Plugin] handled boom",
	}, fx.latestLines())

	got := fx.events.Events()
	require.Len(t, got, 2)
	require.Equal(t, events.KindError, got[0].Kind)
	require.Equal(t, "handled boom", got[1].Text)
}

// TestLogger_LongReentrantChain delivers a long chain of subscriber-triggered lines in order
// after the first caller hands publication off, and Flush waits for all of it.
func TestLogger_LongReentrantChain(t *testing.T) {
	t.Parallel()

	const chain = 200

	var echoes atomic.Int32

	fx := newFixture(t)

	fx.logger.Events().OnMessage(func(_, _ logline.Color, _, _ string) {
		if n := echoes.Add(1); n <= chain {
			fx.logger.Msgf("echo %d", n)
		}
	})

	fx.logger.Msg("start")
	require.NoError(t, fx.logger.Flush())

	got := fx.events.Events()
	require.Len(t, got, chain+1)
	require.Equal(t, "start", got[0].Text)

	for i := 1; i <= chain; i++ {
		require.Equal(t, fmt.Sprintf("echo %d", i), got[i].Text)
	}

	require.Len(t, fx.latestLines(), chain+1)
}

// TestLogger_PanickingSubscriber never breaks the pipeline or other subscribers.
func TestLogger_PanickingSubscriber(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)

	fx.logger.Events().OnMessage(func(_, _ logline.Color, _, _ string) {
		panic("subscriber bug")
	})

	fx.logger.Msg("first")
	fx.logger.Msg("second")

	require.Len(t, fx.latestLines(), 2)
	require.Len(t, fx.events.Events(), 2)
	require.Empty(t, fx.fatal)
}

// TestLogger_WriteFailureIsFatal hands destination failures to the fatal handler.
func TestLogger_WriteFailureIsFatal(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, failingSyncer{})

	fx.logger.Msg("lost")

	require.Len(t, fx.fatal, 1)
	require.ErrorIs(t, fx.fatal[0], errDiskFull)
	require.Empty(t, fx.events.Events())
}

// TestLogger_DefaultFatalHandlerPanics panics with the *FatalError when no handler is set.
func TestLogger_DefaultFatalHandlerPanics(t *testing.T) {
	t.Parallel()

	l := pluginlog.New(context.Background(), sink.NewGroup(sink.Discard, failingSyncer{}), nil)

	require.PanicsWithError(t, "write log destinations: write log files: disk full", func() {
		l.MsgDirect("lost")
	})

	require.PanicsWithError(t, "internal failure: registry corrupted", func() {
		l.InternalFailure("registry corrupted")
	})
}

// TestLogger_FlushAndClose verifies idempotent flushing and silent drops after close.
func TestLogger_FlushAndClose(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)

	fx.logger.Msg("kept")
	require.NoError(t, fx.logger.Flush())
	require.NoError(t, fx.logger.Flush())
	require.Len(t, fx.latestLines(), 1)

	require.NoError(t, fx.logger.Close())
	require.NoError(t, fx.logger.Close())
	require.NoError(t, fx.logger.Flush())
	require.Zero(t, fx.logger.Events().Len(events.KindMessage))

	fx.logger.Msg("dropped")
	fx.logger.WriteSpacer()

	require.Len(t, fx.latestLines(), 1)
	require.Empty(t, fx.fatal)
}

// TestSetup_EnforcesRetention keeps the newest archives so the new run stays within the cap.
func TestSetup_EnforcesRetention(t *testing.T) {
	t.Parallel()

	var (
		dir    = t.TempDir()
		logs   = filepath.Join(dir, "Logs")
		latest = filepath.Join(dir, "Latest.log")
		base   = time.Now().Add(-time.Hour)
	)

	require.NoError(t, os.MkdirAll(logs, 0o755))

	for i := range 5 {
		path := filepath.Join(logs, fmt.Sprintf("run-%d.log", i))
		require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o600))

		mtime := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}

	renderer := lipgloss.NewRenderer(io.Discard)
	renderer.SetColorProfile(termenv.Ascii)

	l, err := pluginlog.Setup(context.Background(), &pluginlog.Options{
		StartTime:     testTime,
		Console:       sink.Discard,
		Renderer:      renderer,
		Clock:         func() time.Time { return testTime },
		LogsDirectory: logs,
		LatestPath:    latest,
		MaxLogs:       3,
		UTC:           true,
	})
	require.NoError(t, err)

	l.MsgDirect("started")
	require.NoError(t, l.Close())

	entries, err := os.ReadDir(logs)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	sort.Strings(names)
	require.Equal(t, []string{"24-01-02_03-04-05.log", "run-3.log", "run-4.log"}, names)

	latestData, err := os.ReadFile(latest)
	require.NoError(t, err)
	require.Equal(t, "[03:04:05.006] started\n", string(latestData))

	archiveData, err := os.ReadFile(filepath.Join(logs, "24-01-02_03-04-05.log"))
	require.NoError(t, err)
	require.Equal(t, latestData, archiveData)
}

// TestSetup_CreatesDirectoryAndTruncatesLatest starts from a missing logs directory and a stale Latest file.
func TestSetup_CreatesDirectoryAndTruncatesLatest(t *testing.T) {
	t.Parallel()

	var (
		dir    = t.TempDir()
		logs   = filepath.Join(dir, "Logs")
		latest = filepath.Join(dir, "Latest.log")
	)

	require.NoError(t, os.WriteFile(latest, []byte("previous run\n"), 0o600))

	opts := &pluginlog.Options{
		StartTime:     testTime,
		Console:       sink.Discard,
		LogsDirectory: logs,
		LatestPath:    latest,
		MaxLogs:       10,
	}

	l, err := pluginlog.Setup(context.Background(), opts)
	require.NoError(t, err)
	require.NoError(t, l.Close())

	data, err := os.ReadFile(latest)
	require.NoError(t, err)
	require.Empty(t, data)

	// A second run with the same start time gets a more precise name.
	l, err = pluginlog.Setup(context.Background(), opts)
	require.NoError(t, err)
	require.NoError(t, l.Close())

	entries, err := os.ReadDir(logs)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

// TestSetup_RejectsNegativeCap fails before opening any destination.
func TestSetup_RejectsNegativeCap(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := pluginlog.Setup(context.Background(), &pluginlog.Options{
		Console:       sink.Discard,
		LogsDirectory: filepath.Join(dir, "Logs"),
		LatestPath:    filepath.Join(dir, "Latest.log"),
		MaxLogs:       -1,
	})
	require.Error(t, err)

	_, err = os.Stat(filepath.Join(dir, "Latest.log"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
