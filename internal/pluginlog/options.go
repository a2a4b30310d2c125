package pluginlog

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/oshokin/plugin-logger/internal/events"
	"github.com/oshokin/plugin-logger/internal/format"
	"github.com/oshokin/plugin-logger/internal/logger"
	"github.com/oshokin/plugin-logger/internal/origin"
	"github.com/oshokin/plugin-logger/internal/retention"
	"github.com/oshokin/plugin-logger/internal/sink"
)

const (
	// DefaultLogsDirectory holds the archival files.
	DefaultLogsDirectory = "Logs"

	// DefaultLatestPath is the rolling file rewritten by every run.
	DefaultLatestPath = "Latest.log"
)

// Options configures a Logger.
type Options struct {
	// StartTime names the archival file. Defaults to Clock().
	StartTime time.Time
	// Registry attributes calls to plugins. Nil leaves every ambient call unattributed.
	Registry origin.Registry
	// Console receives colorized lines. Defaults to stdout.
	Console sink.Console
	// Renderer selects the console color profile. Defaults to stdout detection.
	Renderer *lipgloss.Renderer
	// Clock stamps messages. Defaults to time.Now.
	Clock func() time.Time
	// OnFatal handles unrecoverable pipeline failures. Defaults to panicking with the *FatalError.
	OnFatal func(err *FatalError)
	// LogsDirectory is where archival files live.
	LogsDirectory string
	// LatestPath is the rolling file.
	LatestPath string
	// TimestampLayout overrides format.DefaultTimestampLayout.
	TimestampLayout string
	// MaxLogs caps the number of archival files, the current one included. Zero is unlimited.
	MaxLogs int
	// HideWarnings suppresses warnings from the start.
	HideWarnings bool
	// UTC renders timestamps in UTC.
	UTC bool
}

// withDefaults returns a copy of opts with every unset field defaulted.
func (opts *Options) withDefaults() *Options {
	o := new(Options)
	if opts != nil {
		*o = *opts
	}

	if o.Clock == nil {
		o.Clock = time.Now
	}

	if o.StartTime.IsZero() {
		o.StartTime = o.Clock()
	}

	if o.Console == nil {
		o.Console = sink.NewConsole(os.Stdout)
	}

	if o.OnFatal == nil {
		o.OnFatal = panicOnFatal
	}

	if o.LogsDirectory == "" {
		o.LogsDirectory = DefaultLogsDirectory
	}

	if o.LatestPath == "" {
		o.LatestPath = DefaultLatestPath
	}

	return o
}

// Setup prepares the logs directory, enforces the retention cap, opens the
// run's destinations and returns a Logger writing to them.
func Setup(ctx context.Context, opts *Options) (*Logger, error) {
	opts = opts.withDefaults()
	ctx = logger.WithName(ctx, "pluginlog")

	policy := &retention.Policy{
		Directory:      opts.LogsDirectory,
		Pattern:        sink.ArchivePattern,
		Exclude:        []string{opts.LatestPath},
		MaxRetained:    opts.MaxLogs,
		ReserveCurrent: true,
	}

	report, err := policy.Enforce(ctx)
	if report == nil {
		return nil, fmt.Errorf("enforce retention: %w", err)
	}

	if err != nil {
		logger.WarnKV(ctx, "Some old logs could not be removed", "directory", opts.LogsDirectory, "error", err)
	}

	if len(report.Removed) > 0 {
		logger.InfoKV(ctx, "Removed old logs",
			"directory", opts.LogsDirectory,
			"found", report.Found,
			"removed", len(report.Removed),
			"max_logs", opts.MaxLogs)
	}

	archivePath, err := sink.ArchivePath(opts.LogsDirectory, opts.StartTime)
	if err != nil {
		return nil, err
	}

	group, err := sink.Open(opts.LatestPath, archivePath, opts.Console)
	if err != nil {
		return nil, fmt.Errorf("open log destinations: %w", err)
	}

	logger.DebugKV(ctx, "Log destinations opened", "latest", opts.LatestPath, "archive", archivePath)

	return New(ctx, group, opts), nil
}

// New returns a Logger writing to an already opened group.
// Only the formatting, attribution and handler fields of opts are used.
func New(ctx context.Context, group *sink.Group, opts *Options) *Logger {
	opts = opts.withDefaults()

	l := &Logger{
		ctx:      ctx,
		resolver: origin.NewResolver(opts.Registry),
		formatter: format.New(
			format.WithRenderer(opts.Renderer),
			format.WithUTC(opts.UTC),
			format.WithTimestampLayout(opts.TimestampLayout),
		),
		sinks:   group,
		bus:     events.NewBus(),
		clock:   opts.Clock,
		onFatal: opts.OnFatal,
	}
	l.idle = sync.NewCond(&l.mu)
	l.hideWarnings.Store(opts.HideWarnings)

	return l
}
