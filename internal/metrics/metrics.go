// Package metrics exposes runtime counters via expvar.
package metrics

import "expvar"

var (
	TriggersTotal    = expvar.NewInt("triggers_total")
	TriggerFailures  = expvar.NewInt("trigger_failures")
	StatusPollsTotal = expvar.NewInt("status_polls_total")
	PollFailures     = expvar.NewInt("poll_failures")
	WaitsTimedOut    = expvar.NewInt("waits_timed_out")
)
