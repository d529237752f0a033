// Package commands implements the CLI subcommands for the jobrunr-control binary.
package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/css-ch/jobrunr-control/internal/client"
	"github.com/css-ch/jobrunr-control/internal/config"
	"github.com/css-ch/jobrunr-control/pkg/types"
)

// clientOptions collects the flags shared by every subcommand.
type clientOptions struct {
	url          string
	maxAttempts  int
	pollInterval time.Duration
	quiet        bool
	headers      []string
	timeout      time.Duration
}

// registerFlags wires the shared flags onto a subcommand.
func registerFlags(cmd *cobra.Command, opts *clientOptions) {
	cmd.Flags().StringVar(&opts.url, "url", config.DefaultURL, "base URL of the external-trigger API")
	cmd.Flags().IntVar(&opts.maxAttempts, "max-attempts", config.DefaultMaxAttempts, "maximum number of status polls")
	cmd.Flags().DurationVar(&opts.pollInterval, "poll-interval", config.DefaultPollInterval, "delay between status polls")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress per-poll progress output")
	cmd.Flags().StringArrayVarP(&opts.headers, "header", "H", nil, "extra request header, key=value (repeatable)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "overall deadline for the command (0 = none)")
}

// build resolves configuration (flags > environment > config file > defaults)
// and constructs the client plus the wait options.
func (o *clientOptions) build(cmd *cobra.Command) (*client.Client, client.WaitOptions, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return nil, client.WaitOptions{}, fmt.Errorf("loading config: %w", err)
	}

	// Flags win only when set on the command line.
	if !cmd.Flags().Changed("url") {
		o.url = cfg.URL
	}
	if !cmd.Flags().Changed("max-attempts") {
		o.maxAttempts = cfg.MaxAttempts
	}
	if !cmd.Flags().Changed("poll-interval") {
		o.pollInterval = cfg.PollInterval
	}

	headers := make(map[string]string, len(cfg.Headers)+len(o.headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	for _, h := range o.headers {
		k, v, ok := strings.Cut(h, "=")
		if !ok {
			return nil, client.WaitOptions{}, fmt.Errorf("invalid header %q, expected key=value", h)
		}
		headers[k] = v
	}

	c := client.New(o.url, client.WithHeaders(headers))
	waitOpts := client.WaitOptions{
		MaxAttempts:  o.maxAttempts,
		PollInterval: o.pollInterval,
		Verbose:      !o.quiet,
		Report:       printStatusLine,
	}
	return c, waitOpts, nil
}

// parseJobID validates the positional job-id argument. The service assigns
// UUIDs and rejects anything else with a 400, so fail early here.
func parseJobID(arg string) (string, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return "", fmt.Errorf("invalid job id %q: %w", arg, err)
	}
	return id.String(), nil
}

// printStatusLine writes one human-readable progress line for a polled status,
// plus a batch-progress line when the job reports sub-units.
func printStatusLine(attempt int, record types.JobStatusRecord) {
	fmt.Printf("[%d] Job: %s (%s) - Status: %s\n",
		attempt, record.DisplayName(), record.DisplayType(), colorStatus(record.Status))

	if bp := record.BatchProgress; bp != nil {
		fmt.Printf("    Batch Progress: %d succeeded, %d failed, %d pending (%.1f%%)\n",
			bp.Succeeded, bp.Failed, bp.Pending, bp.Progress)
	}
}

// colorStatus color-codes a status for terminal output.
func colorStatus(s types.JobStatus) string {
	switch s {
	case types.StatusSucceeded:
		return color.GreenString(string(s))
	case types.StatusFailed:
		return color.RedString(string(s))
	case types.StatusProcessing:
		return color.CyanString(string(s))
	default:
		return color.YellowString(string(s))
	}
}

// printFinalRecord pretty-prints the terminal status record as JSON.
func printFinalRecord(record types.JobStatusRecord) {
	bold := color.New(color.Bold)
	_, _ = bold.Printf("Job finished with status: %s\n", colorStatus(record.Status))
	fmt.Println()

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return
	}
	fmt.Println("Full response:")
	fmt.Println(string(out))
}

// finish converts a terminal record into the command result: FAILED becomes a
// non-nil error so the process exits non-zero, SUCCEEDED is a clean exit.
func finish(jobID string, record types.JobStatusRecord) error {
	if record.Status == types.StatusFailed {
		return fmt.Errorf("job %s finished with status FAILED", jobID)
	}
	return nil
}
