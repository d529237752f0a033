package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command, a one-shot read of a job's state.
func NewStatusCmd() *cobra.Command {
	var opts clientOptions

	cmd := &cobra.Command{
		Use:   "status [job-id]",
		Short: "Show the current status of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, args[0], &opts)
		},
	}
	registerFlags(cmd, &opts)
	return cmd
}

func runStatus(cmd *cobra.Command, arg string, opts *clientOptions) error {
	jobID, err := parseJobID(arg)
	if err != nil {
		return err
	}

	c, _, err := opts.build(cmd)
	if err != nil {
		return err
	}

	record, err := c.GetStatus(cmd.Context(), jobID)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	_, _ = bold.Printf("Job: %s (%s)\n", record.DisplayName(), record.DisplayType())
	fmt.Printf("  Status:   %s\n", colorStatus(record.Status))
	if record.StartedAt != "" {
		fmt.Printf("  Started:  %s\n", record.StartedAt)
	}
	if record.FinishedAt != "" {
		fmt.Printf("  Finished: %s\n", record.FinishedAt)
	}
	if bp := record.BatchProgress; bp != nil {
		fmt.Printf("  Batch:    %d succeeded, %d failed, %d pending of %d (%.1f%%)\n",
			bp.Succeeded, bp.Failed, bp.Pending, bp.Total, bp.Progress)
	}
	return nil
}
