package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/plugin-logger/internal/config"
	"github.com/oshokin/plugin-logger/internal/logger"
	"github.com/oshokin/plugin-logger/internal/pluginlog"
	"github.com/oshokin/plugin-logger/internal/service/host"
	"github.com/oshokin/plugin-logger/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// logLevel overrides diagnostics_level from the configuration file.
	logLevel string
	// interval is the time between heartbeats.
	interval time.Duration
	// ticks stops the host after that many heartbeats.
	ticks int
	// once delivers a single heartbeat and exits.
	once bool
	// watch reloads hide_warnings when the configuration changes.
	watch bool

	// rootCmd represents the base command running the plugin host.
	rootCmd = &cobra.Command{
		Use:   "plugin-host",
		Short: "Run plugins with attributed, colorized logging.",
		Long: `Runs the built-in plugins and logs on their behalf.

Every line is tagged with the plugin whose code wrote it, colorized on the
console and written to both the rolling log (Latest.log, rewritten on each run)
and a timestamped archival log in the logs directory. Old archival logs beyond
max_logs are removed at startup.`,
		Args:              cobra.NoArgs,
		PersistentPreRunE: setupDiagnostics,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			hostOptions := &host.Options{
				ConfigPath: configPath,
				Interval:   interval,
				Ticks:      ticks,
				Watch:      watch,
			}

			if once {
				hostOptions.Ticks = 1
			}

			_, err := host.Run(ctx, hostOptions)

			var fatal *pluginlog.FatalError
			if errors.As(err, &fatal) {
				logger.FatalKV(ctx, "Logging pipeline failed", "reason", fatal.Reason, "error", fatal.Err)
			}

			return err
		},
	}
)

// Execute runs the plugin-host CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// setupDiagnostics applies the diagnostics level from the flag or the configuration file.
func setupDiagnostics(_ *cobra.Command, _ []string) error {
	level := logLevel

	if level == "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		level = cfg.DiagnosticsLevel
	}

	parsed, ok := logger.ParseLogLevel(level)
	if !ok {
		return fmt.Errorf("unknown log level %q", level)
	}

	logger.SetLevel(parsed)

	return nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "diagnostics level (debug, info, warn, error); defaults to diagnostics_level")

	rootCmd.Flags().DurationVarP(&interval, "interval", "i", host.DefaultInterval, "time between heartbeats")
	rootCmd.Flags().IntVar(&ticks, "ticks", 0, "stop after this many heartbeats, 0 runs until interrupted")
	rootCmd.Flags().BoolVar(&once, "once", false, "deliver a single heartbeat and exit")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload hide_warnings when the configuration file changes")

	rootCmd.AddCommand(pruneCmd, stressCmd)
}
