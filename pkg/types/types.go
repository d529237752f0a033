// Package types defines the public domain types for the JobRunr external-trigger client.
package types

// UnknownLabel is the fallback shown for jobs whose name or type is not reported.
const UnknownLabel = "Unknown"

// JobStatus represents the lifecycle state of a job execution as reported by
// the external-trigger API.
type JobStatus string

// JobStatus values known to the client. The service may report additional
// non-terminal states; anything that is not SUCCEEDED or FAILED is treated as
// still running.
const (
	StatusEnqueued   JobStatus = "ENQUEUED"
	StatusProcessing JobStatus = "PROCESSING"
	StatusSucceeded  JobStatus = "SUCCEEDED"
	StatusFailed     JobStatus = "FAILED"
)

// IsTerminal reports whether no further state transitions are expected.
func (s JobStatus) IsTerminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// BatchProgress reports sub-unit counts for jobs composed of many smaller tasks.
type BatchProgress struct {
	Total     int64   `json:"total"`
	Succeeded int64   `json:"succeeded"`
	Failed    int64   `json:"failed"`
	Pending   int64   `json:"pending"`
	Progress  float64 `json:"progress"` // percentage, 0-100, one decimal
}

// JobStatusRecord is a snapshot of a job's execution state at one point in
// time, decoded from one status poll. Only Status is guaranteed to be present;
// every other field is optional.
type JobStatusRecord struct {
	JobID         string         `json:"jobId,omitempty"`
	JobName       string         `json:"jobName,omitempty"`
	JobType       string         `json:"jobType,omitempty"`
	Status        JobStatus      `json:"status"`
	StartedAt     string         `json:"startedAt,omitempty"`  // ISO-8601
	FinishedAt    string         `json:"finishedAt,omitempty"` // ISO-8601, empty while running
	BatchProgress *BatchProgress `json:"batchProgress,omitempty"`
}

// DisplayName returns the job name, or UnknownLabel when not reported.
func (r JobStatusRecord) DisplayName() string {
	if r.JobName == "" {
		return UnknownLabel
	}
	return r.JobName
}

// DisplayType returns the job type, or UnknownLabel when not reported.
func (r JobStatusRecord) DisplayType() string {
	if r.JobType == "" {
		return UnknownLabel
	}
	return r.JobType
}

// TriggerAck is the acknowledgement body returned by a successful trigger
// request. Callers display it; nothing downstream depends on its shape.
type TriggerAck struct {
	JobID   string `json:"jobId"`
	Message string `json:"message"`
}
