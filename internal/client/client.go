// Package client implements the HTTP client for the JobRunr External Trigger
// API: a single-shot trigger call plus status polling until a terminal state.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/css-ch/jobrunr-control/internal/metrics"
	"github.com/css-ch/jobrunr-control/pkg/types"
)

const apiPath = "/api/external-trigger"

var defaultHTTPClient = &http.Client{Timeout: 30 * time.Second}

// Client talks to one external-trigger endpoint. It is stateless: each call
// performs exactly one network round trip, and retry policy belongs entirely
// to the Waiter.
type Client struct {
	baseURL    string
	headers    map[string]string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithHeaders sets headers added to every request, e.g. for a fronting proxy.
// Values may contain ${VAR} references resolved from the environment.
func WithHeaders(h map[string]string) Option {
	return func(cl *Client) { cl.headers = h }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// New creates a Client for the given base URL. Trailing slashes are stripped
// once here so path concatenation never doubles a separator.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: defaultHTTPClient,
		logger:     slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Trigger triggers the job immediately. On success it returns the raw
// acknowledgement body plus a best-effort decode of it; on a non-2xx response
// it returns a *RequestError.
func (c *Client) Trigger(ctx context.Context, jobID string) (types.TriggerAck, []byte, error) {
	url := c.baseURL + apiPath + "/" + jobID + "/trigger"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, http.NoBody)
	if err != nil {
		return types.TriggerAck{}, nil, fmt.Errorf("trigger request: creating request: %w", err)
	}

	metrics.TriggersTotal.Add(1)
	body, err := c.do(req, "trigger")
	if err != nil {
		metrics.TriggerFailures.Add(1)
		return types.TriggerAck{}, nil, err
	}

	// The acknowledgement shape is not load-bearing; keep the raw body for
	// display even when it does not decode.
	var ack types.TriggerAck
	_ = json.Unmarshal(body, &ack)

	c.logger.Debug("job triggered", "jobId", jobID)
	return ack, body, nil
}

// GetStatus returns the current execution status of the job. It is read-only:
// polling repeatedly must not change remote job state. A non-2xx response
// yields a *RequestError; a success body with no status field yields a
// *DecodeError.
func (c *Client) GetStatus(ctx context.Context, jobID string) (types.JobStatusRecord, error) {
	url := c.baseURL + apiPath + "/" + jobID + "/status"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return types.JobStatusRecord{}, fmt.Errorf("status request: creating request: %w", err)
	}

	metrics.StatusPollsTotal.Add(1)
	body, err := c.do(req, "status")
	if err != nil {
		metrics.PollFailures.Add(1)
		return types.JobStatusRecord{}, err
	}

	var record types.JobStatusRecord
	if err := json.Unmarshal(body, &record); err != nil {
		metrics.PollFailures.Add(1)
		return types.JobStatusRecord{}, &DecodeError{Op: "status", Err: err}
	}
	if record.Status == "" {
		metrics.PollFailures.Add(1)
		return types.JobStatusRecord{}, &DecodeError{Op: "status", Err: fmt.Errorf("response missing status field")}
	}

	return record, nil
}

// do sends the request and returns the response body, converting non-2xx
// responses into a *RequestError.
func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		// os.ExpandEnv is intentional: operators store ${VAR} references in
		// config files, resolved at runtime from the execution environment.
		req.Header.Set(k, os.ExpandEnv(v))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: request failed: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s request: reading response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reqErr := &RequestError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
		var errBody struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &errBody) == nil {
			reqErr.Message = errBody.Message
		}
		return nil, reqErr
	}

	return body, nil
}
