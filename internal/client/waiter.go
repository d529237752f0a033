package client

import (
	"context"
	"time"

	"github.com/css-ch/jobrunr-control/internal/metrics"
	"github.com/css-ch/jobrunr-control/pkg/types"
)

// Default polling budget: 60 attempts, 2 seconds apart.
const (
	DefaultMaxAttempts  = 60
	DefaultPollInterval = 2 * time.Second
)

// ReportFunc receives each polled status for display. It is called before the
// termination check, so the final attempt is reported too.
type ReportFunc func(attempt int, record types.JobStatusRecord)

// SleepFunc suspends between polls. Injectable so tests can simulate time.
type SleepFunc func(ctx context.Context, d time.Duration) error

// WaitOptions configure a single wait. Zero MaxAttempts, PollInterval and
// Sleep fall back to defaults; Verbose only gates reporting, never control
// flow.
type WaitOptions struct {
	MaxAttempts  int
	PollInterval time.Duration
	Verbose      bool
	Report       ReportFunc
	Sleep        SleepFunc
}

// Waiter turns a single-shot status query into a bounded wait for a terminal
// outcome. It polls at a fixed interval; there is deliberately no backoff and
// no jitter, since attempt budgets are small and the service is assumed
// low-latency.
type Waiter struct {
	client *Client
	opts   WaitOptions
}

// NewWaiter creates a Waiter over the given client. Zero or missing options
// fall back to the defaults (60 attempts, 2 seconds apart).
func NewWaiter(c *Client, opts WaitOptions) *Waiter {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	return &Waiter{client: c, opts: opts}
}

// WaitForCompletion polls the job's status until it reaches SUCCEEDED or
// FAILED, then returns that record. Both terminal values are normal returns;
// deciding that FAILED is an unhappy outcome is the caller's job. Any request
// or decode failure aborts the wait immediately. When the attempt budget runs
// out first, it returns a *TimeoutError and no record.
func (w *Waiter) WaitForCompletion(ctx context.Context, jobID string) (types.JobStatusRecord, error) {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return types.JobStatusRecord{}, err
		}

		record, err := w.client.GetStatus(ctx, jobID)
		if err != nil {
			return types.JobStatusRecord{}, err
		}

		if w.opts.Verbose && w.opts.Report != nil {
			w.opts.Report(attempt, record)
		}

		if record.Status.IsTerminal() {
			w.client.logger.Debug("job reached terminal status",
				"jobId", jobID, "status", record.Status, "attempts", attempt)
			return record, nil
		}

		if attempt == w.opts.MaxAttempts {
			metrics.WaitsTimedOut.Add(1)
			return types.JobStatusRecord{}, &TimeoutError{
				Attempts: w.opts.MaxAttempts,
				Interval: w.opts.PollInterval,
			}
		}

		if err := w.opts.Sleep(ctx, w.opts.PollInterval); err != nil {
			return types.JobStatusRecord{}, err
		}
	}
}

// sleepContext sleeps for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
