package client

import (
	"fmt"
	"time"
)

// RequestError reports a non-success HTTP response from the external-trigger
// API. It carries the protocol status and body for diagnostics and is always
// fatal to the current operation; the client never retries.
type RequestError struct {
	Op         string // "trigger" or "status"
	StatusCode int
	Body       string
	Message    string // decoded from the service's {"message"} error body, when present
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s request: returned status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s request: returned status %d: %s", e.Op, e.StatusCode, e.Body)
}

// DecodeError reports a success response that could not be decoded into the
// expected shape. Callers treat it the same as a RequestError.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s request: parsing response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// TimeoutError reports that the polling attempt budget was exhausted without
// the job reaching a terminal status. It signals "still running, eventual
// outcome unknown", not a failure of any remote call.
type TimeoutError struct {
	Attempts int
	Interval time.Duration
}

// Budget returns the elapsed polling budget.
func (e *TimeoutError) Budget() time.Duration {
	return time.Duration(e.Attempts) * e.Interval
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("job did not complete within %s (%d attempts)", e.Budget(), e.Attempts)
}
