package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/css-ch/jobrunr-control/internal/client"
)

// NewWaitCmd creates the wait command, which monitors an already-triggered job
// without triggering it again.
func NewWaitCmd() *cobra.Command {
	var opts clientOptions

	cmd := &cobra.Command{
		Use:   "wait [job-id]",
		Short: "Wait for an already-triggered job to complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWait(cmd, args[0], &opts)
		},
	}
	registerFlags(cmd, &opts)
	return cmd
}

func runWait(cmd *cobra.Command, arg string, opts *clientOptions) error {
	jobID, err := parseJobID(arg)
	if err != nil {
		return err
	}

	c, waitOpts, err := opts.build(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	record, err := client.NewWaiter(c, waitOpts).WaitForCompletion(ctx, jobID)
	if err != nil {
		return err
	}

	fmt.Println()
	printFinalRecord(record)
	return finish(jobID, record)
}
