package host

import (
	"context"
	"fmt"
	"time"

	"github.com/oshokin/plugin-logger/internal/domain/logline"
	"github.com/oshokin/plugin-logger/internal/logger"
	"github.com/oshokin/plugin-logger/internal/pluginlog"
	"github.com/oshokin/plugin-logger/internal/plugins"
	"github.com/oshokin/plugin-logger/internal/service/common"
	"github.com/oshokin/plugin-logger/internal/version"
)

// printBanner writes the host headline and the process details.
func printBanner(ctx context.Context, l *pluginlog.Logger, host *common.Host) {
	l.WriteLineColor(logline.Cyan, 0)
	l.MsgDirectColor(logline.Cyan, version.Title())
	l.MsgDirectColor(logline.Gray, fmt.Sprintf("Build: commit %s, built at %s", version.Commit, version.BuildTime))

	if host.Executable != "" {
		l.MsgDirectColor(logline.Gray, fmt.Sprintf("Process: %s (pid %d, parent %s)", host.Executable, host.PID, host.Parent))
	}

	if host.Hostname != "" {
		l.MsgDirectColor(logline.Gray, fmt.Sprintf("Running on %s as %s", host.Hostname, host.Username))
	}

	l.WriteLineColor(logline.Cyan, 0)

	others, err := host.OtherInstances()
	if err != nil {
		logger.DebugKV(ctx, "Process list unavailable", "error", err)

		return
	}

	if len(others) > 0 {
		l.Warningf("%d other %s running and sharing the rolling log", len(others), pluralize(len(others), "host is", "hosts are"))
	}
}

// loadPlugins announces and initializes every plugin, returning the ones that initialized.
func loadPlugins(ctx context.Context, l *pluginlog.Logger, list []plugins.Plugin) []plugins.Plugin {
	l.WriteSpacer()
	l.MsgDirect("Loading plugins...")

	if len(list) > 0 {
		l.WriteLineColor(logline.Magenta, 0)
	}

	active := make([]plugins.Plugin, 0, len(list))

	for _, p := range list {
		manifest := p.Manifest()

		l.PluginBanner(manifest.Banner())

		if err := initPlugin(ctx, l, p); err != nil {
			l.ErrorCause(fmt.Sprintf("Failed to initialize %s", manifest.Name), err)
			logger.WarnKV(ctx, "Plugin disabled", "plugin", manifest.Name, "error", err)
		} else {
			active = append(active, p)
		}

		l.WriteLineColor(logline.Magenta, 0)
	}

	l.MsgDirect(fmt.Sprintf("%d %s loaded.", len(active), pluralize(len(active), "plugin", "plugins")))
	l.WriteSpacer()

	return active
}

// initPlugin runs Init and turns a panic into an error.
func initPlugin(ctx context.Context, l *pluginlog.Logger, p plugins.Plugin) (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.BigError(p.Manifest().Name, fmt.Sprintf("Init panicked:\n%v", r))
			err = fmt.Errorf("init panicked: %v", r)
		}
	}()

	return p.Init(ctx)
}

// heartbeats ticks every plugin each interval until ctx is done or limit ticks were delivered.
// It returns the number of ticks delivered.
func heartbeats(ctx context.Context, l *pluginlog.Logger, list []plugins.Plugin, interval time.Duration, limit int) int {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := 1; limit <= 0 || n <= limit; n++ {
		select {
		case <-ctx.Done():
			return n - 1
		case <-ticker.C:
		}

		for _, p := range list {
			tick(ctx, l, p, n)
		}

		if err := l.Flush(); err != nil {
			logger.WarnKV(ctx, "Flushing logs failed", "error", err)
		}
	}

	return limit
}

// tick delivers one heartbeat to p, reporting a panic as a boxed error under the plugin's name.
func tick(ctx context.Context, l *pluginlog.Logger, p plugins.Plugin, n int) {
	defer func() {
		if r := recover(); r != nil {
			l.BigError(p.Manifest().Name, fmt.Sprintf("Tick #%d panicked:\n%v", n, r))
		}
	}()

	p.Tick(ctx, n)
}

// pluralize picks the word matching count.
func pluralize(count int, one, many string) string {
	if count == 1 {
		return one
	}

	return many
}
