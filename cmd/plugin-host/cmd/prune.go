package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/plugin-logger/internal/service/prune"
)

var (
	// pruneMaxLogs overrides max_logs for the prune command.
	pruneMaxLogs int

	// pruneCmd applies the retention cap without starting the host.
	pruneCmd = &cobra.Command{
		Use:   "prune",
		Short: "Remove the oldest archival logs beyond the cap.",
		Long: `Applies the archival log retention cap once and exits.

Uses max_logs from the configuration file unless --max-logs is given.
A cap of 0 keeps every log. The rolling log is never removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := prune.Run(cmd.Context(), &prune.Options{
				ConfigPath: configPath,
				MaxLogs:    pruneMaxLogs,
			})
			if report != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d of %d archival logs.\n", len(report.Removed), report.Found)
			}

			return err
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	pruneCmd.Flags().IntVar(&pruneMaxLogs, "max-logs", -1, "override max_logs, negative uses the configuration")
}
