package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/css-ch/jobrunr-control/internal/client"
	"github.com/css-ch/jobrunr-control/internal/commands"
)

var version = "dev"

// Exit codes: 0 when the job succeeded, 1 on job failure or any request
// error, 2 when the polling budget ran out before a terminal status.
const (
	exitFailure = 1
	exitTimeout = 2
)

func main() {
	var debug bool

	root := &cobra.Command{
		Use:   "jobrunr-control",
		Short: "Trigger and monitor jobs via the JobRunr External Trigger API",
		Long: `jobrunr-control triggers externally triggerable jobs on a remote JobRunr
control service and polls their status until they succeed or fail. Batch jobs
report per-item progress while running.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(
		commands.NewTriggerCmd(),
		commands.NewStatusCmd(),
		commands.NewWaitCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var timeout *client.TimeoutError
		if errors.As(err, &timeout) {
			os.Exit(exitTimeout)
		}
		os.Exit(exitFailure)
	}
}
