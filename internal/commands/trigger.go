package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/css-ch/jobrunr-control/internal/client"
)

// NewTriggerCmd creates the trigger command.
func NewTriggerCmd() *cobra.Command {
	var opts clientOptions
	var noWait bool

	cmd := &cobra.Command{
		Use:   "trigger [job-id]",
		Short: "Trigger a job and wait for it to complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrigger(cmd, args[0], &opts, noWait)
		},
	}
	registerFlags(cmd, &opts)
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "trigger only, do not poll for completion")
	return cmd
}

func runTrigger(cmd *cobra.Command, arg string, opts *clientOptions, noWait bool) error {
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

	color.Cyan("Triggering job %s...", jobID)
	ack, raw, err := c.Trigger(ctx, jobID)
	if err != nil {
		return err
	}
	if ack.Message != "" {
		fmt.Printf("Response: %s\n", ack.Message)
	} else {
		fmt.Printf("Response: %s\n", string(raw))
	}
	color.Green("Job triggered successfully")

	if noWait {
		fmt.Printf("Check progress with: jobrunr-control status %s\n", jobID)
		return nil
	}

	fmt.Println()
	fmt.Println("Monitoring job status...")

	record, err := client.NewWaiter(c, waitOpts).WaitForCompletion(ctx, jobID)
	if err != nil {
		return err
	}

	fmt.Println()
	printFinalRecord(record)
	return finish(jobID, record)
}
