package host

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/oshokin/plugin-logger/internal/config"
	"github.com/oshokin/plugin-logger/internal/domain/logline"
	"github.com/oshokin/plugin-logger/internal/logger"
	"github.com/oshokin/plugin-logger/internal/pluginlog"
	"github.com/oshokin/plugin-logger/internal/plugins"
	"github.com/oshokin/plugin-logger/internal/plugins/greeter"
	"github.com/oshokin/plugin-logger/internal/plugins/heartbeat"
	"github.com/oshokin/plugin-logger/internal/repository/state"
	"github.com/oshokin/plugin-logger/internal/service/common"
	"github.com/oshokin/plugin-logger/internal/sink"
)

// Options controls a host run.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Plugins overrides the built-in plugin set.
	Plugins []plugins.Plugin
	// Console receives colorized lines. Defaults to stdout.
	Console sink.Console
	// Renderer selects the console color profile. Defaults to stdout detection.
	Renderer *lipgloss.Renderer
	// Interval is the time between heartbeats.
	Interval time.Duration
	// Ticks stops the host after that many heartbeats. Zero runs until canceled.
	Ticks int
	// Journal records runs. Defaults to the state_file of the settings.
	Journal state.Repository
	// Watch reloads hide_warnings whenever the settings file changes.
	Watch bool
}

// Stats summarizes a finished run.
type Stats struct {
	// Ticks is the number of heartbeats delivered.
	Ticks int
	// Plugins is the number of plugins that initialized.
	Plugins int
	// Warnings counts published warnings.
	Warnings int64
	// Errors counts published errors.
	Errors int64
}

// DefaultInterval is the default time between heartbeats.
const DefaultInterval = 5 * time.Second

// phrases are echoed by the built-in greeter.
//
//nolint:gochecknoglobals // Immutable sample data.
var phrases = []string{
	"Every line you see is tagged by the plugin that wrote it.",
	"Latest.log is rewritten on every run, Logs keeps the history.",
	"Set hide_warnings in the settings file to silence warnings.",
}

// Builtins returns the plugins shipped with the host.
func Builtins(interval time.Duration, user string) []plugins.Plugin {
	return []plugins.Plugin{
		heartbeat.New(interval),
		greeter.New(user, phrases...),
	}
}

// Run loads the settings, sets up the logging pipeline and drives the plugins.
// A failure of the pipeline itself stops the run and is returned as a *pluginlog.FatalError.
//
//nolint:funlen // Sequential startup reads best in one place.
func Run(ctx context.Context, opts *Options) (*Stats, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "plugin-host")

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}

	// Detect the host process for the banner; failures only cost the banner details.
	host, err := common.DetectHost()
	if err != nil {
		logger.WarnKV(ctx, "Host detection failed", "error", err)

		host = new(common.Host)
	}

	list := opts.Plugins
	if list == nil {
		list = Builtins(opts.Interval, host.Username)
	}

	// Seed attribution with the configured and the loaded plugins.
	registry := common.NewRegistry(cfg.Plugins)
	if err = plugins.Register(registry, list...); err != nil {
		return nil, fmt.Errorf("register plugins: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var fatal atomic.Pointer[pluginlog.FatalError]

	pipelineOpts := common.LoggerOptions(cfg, registry)
	pipelineOpts.Console = opts.Console
	pipelineOpts.Renderer = opts.Renderer
	pipelineOpts.OnFatal = func(err *pluginlog.FatalError) {
		if fatal.CompareAndSwap(nil, err) {
			logger.ErrorKV(ctx, "Logging pipeline failed", "error", err)
			cancel()
		}
	}

	l, err := pluginlog.Setup(ctx, pipelineOpts)
	if err != nil {
		return nil, fmt.Errorf("set up logging: %w", err)
	}

	prev := pluginlog.SetDefault(l)

	// Ensure the pipeline is flushed and detached on exit.
	defer func() {
		pluginlog.SetDefault(prev)

		if closeErr := l.Close(); closeErr != nil {
			logger.WarnKV(ctx, "Closing logs failed", "error", closeErr)
		}
	}()

	stats := new(Stats)
	tally := countEvents(l)

	journal := opts.Journal
	if journal == nil {
		journal = state.NewFileRepository(cfg.StateFile)
	}

	printBanner(ctx, l, host)
	run := startRun(ctx, l, journal, host)

	active := loadPlugins(ctx, l, list)
	stats.Plugins = len(active)

	g, gctx := errgroup.WithContext(ctx)

	if opts.Watch {
		g.Go(func() error {
			return config.Watch(gctx, opts.ConfigPath, func(updated *config.Config) {
				if updated.HideWarnings != l.HideWarnings() {
					logger.InfoKV(gctx, "Warning visibility changed", "hide_warnings", updated.HideWarnings)
				}

				l.SetHideWarnings(updated.HideWarnings)
			})
		})
	}

	g.Go(func() error {
		// The watcher stops with the heartbeat.
		defer cancel()

		stats.Ticks = heartbeats(gctx, l, active, opts.Interval, opts.Ticks)

		return nil
	})

	err = g.Wait()

	if flushErr := l.Flush(); flushErr != nil {
		logger.WarnKV(ctx, "Flushing logs failed", "error", flushErr)
	}

	stats.Warnings, stats.Errors = tally.warnings.Load(), tally.errors.Load()

	l.MsgDirectColor(logline.Gray, fmt.Sprintf("Stopped after %d ticks with %d warnings and %d errors.",
		stats.Ticks, stats.Warnings, stats.Errors))

	if fatalErr := fatal.Load(); fatalErr != nil {
		return stats, fatalErr
	}

	finishRun(ctx, journal, run, stats.Ticks)

	if err != nil && !errors.Is(err, context.Canceled) {
		return stats, err
	}

	return stats, nil
}

// counters tracks published warnings and errors.
type counters struct {
	// warnings counts warning events.
	warnings atomic.Int64
	// errors counts error events.
	errors atomic.Int64
}

// countEvents subscribes counters to l.
func countEvents(l *pluginlog.Logger) *counters {
	c := new(counters)

	l.Events().OnWarning(func(_, _ string) {
		c.warnings.Add(1)
	})
	l.Events().OnError(func(_, _ string) {
		c.errors.Add(1)
	})

	return c
}
