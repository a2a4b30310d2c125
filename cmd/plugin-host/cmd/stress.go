package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/plugin-logger/internal/service/stress"
)

var (
	// stressOptions collects the stress command flags.
	stressOptions = new(stress.Options)

	// stressCmd checks that concurrent writers keep lines whole and events ordered.
	stressCmd = &cobra.Command{
		Use:   "stress",
		Short: "Write from many goroutines and verify the logs.",
		Long: `Writes messages from several goroutines at once, then checks that the
rolling log holds every line exactly once and that events were published in
the order the lines were written. Logs go to a temporary directory unless
--dir is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if stressOptions.Directory == "" {
				dir, err := os.MkdirTemp("", "plugin-host-stress-")
				if err != nil {
					return fmt.Errorf("create stress directory: %w", err)
				}

				defer func() {
					_ = os.RemoveAll(dir)
				}()

				stressOptions.Directory = dir
			}

			report, err := stress.Run(cmd.Context(), stressOptions)
			if report != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d lines, %d events in %s.\n", report.Lines, report.Events, report.Elapsed)
			}

			return err
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	stressCmd.Flags().StringVar(&stressOptions.Directory, "dir", "", "directory receiving the logs")
	stressCmd.Flags().IntVar(&stressOptions.Writers, "writers", stress.DefaultWriters, "number of concurrent writers")
	stressCmd.Flags().IntVar(&stressOptions.Messages, "messages", stress.DefaultMessages, "messages per writer")
}
