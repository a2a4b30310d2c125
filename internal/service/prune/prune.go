// Package prune applies the archival log retention cap outside of a host run.
package prune

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/oshokin/plugin-logger/internal/config"
	"github.com/oshokin/plugin-logger/internal/logger"
	"github.com/oshokin/plugin-logger/internal/retention"
	"github.com/oshokin/plugin-logger/internal/sink"
)

// Options controls a prune pass.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// MaxLogs overrides max_logs when non-negative.
	MaxLogs int
}

// Run removes the oldest archival logs until at most the cap remain.
// Unlike host startup no slot is reserved, since no new log is created.
func Run(ctx context.Context, opts *Options) (*retention.Report, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "prune")

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	maxLogs := cfg.EffectiveMaxLogs()
	if opts.MaxLogs >= 0 {
		maxLogs = opts.MaxLogs
	}

	policy := &retention.Policy{
		Directory:   cfg.LogsDirectory,
		Pattern:     sink.ArchivePattern,
		Exclude:     []string{cfg.LatestPath},
		MaxRetained: maxLogs,
	}

	report, err := policy.Enforce(ctx)
	if report == nil {
		return nil, fmt.Errorf("enforce retention: %w", err)
	}

	for _, path := range report.Removed {
		logger.InfoKV(ctx, "Removed archival log", "file", filepath.Base(path))
	}

	logger.InfoKV(ctx, "Retention applied",
		"directory", cfg.LogsDirectory,
		"found", report.Found,
		"removed", len(report.Removed),
		"max_logs", maxLogs)

	if err != nil {
		return report, fmt.Errorf("remove archival logs: %w", err)
	}

	return report, nil
}
