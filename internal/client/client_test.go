package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/css-ch/jobrunr-control/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testJobID = "123e4567-e89b-12d3-a456-426614174000"

func TestNew_TrimsTrailingSlashes(t *testing.T) {
	c := New("http://localhost:8080///")
	assert.Equal(t, "http://localhost:8080", c.BaseURL())

	c = New("http://localhost:8080")
	assert.Equal(t, "http://localhost:8080", c.BaseURL())
}

func TestTrigger_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/external-trigger/"+testJobID+"/trigger", r.URL.Path)

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"jobId":   testJobID,
			"message": "Job triggered successfully",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, WithHTTPClient(srv.Client()))
	ack, raw, err := c.Trigger(context.Background(), testJobID)
	require.NoError(t, err)
	assert.Equal(t, testJobID, ack.JobID)
	assert.Equal(t, "Job triggered successfully", ack.Message)
	assert.NotEmpty(t, raw)
}

func TestTrigger_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Job not found: " + testJobID})
	}))
	defer srv.Close()

	c := New(srv.URL, WithHTTPClient(srv.Client()))
	_, _, err := c.Trigger(context.Background(), testJobID)
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "trigger", reqErr.Op)
	assert.Equal(t, http.StatusNotFound, reqErr.StatusCode)
	assert.Contains(t, reqErr.Message, "Job not found")
}

func TestTrigger_OpaqueAckStillReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"something":"else"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithHTTPClient(srv.Client()))
	ack, raw, err := c.Trigger(context.Background(), testJobID)
	require.NoError(t, err)
	assert.Empty(t, ack.Message)
	assert.JSONEq(t, `{"something":"else"}`, string(raw))
}

func TestGetStatus_FullPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/external-trigger/"+testJobID+"/status", r.URL.Path)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"jobId": "` + testJobID + `",
			"jobName": "Monthly Report",
			"jobType": "BATCH",
			"status": "PROCESSING",
			"startedAt": "2024-05-01T08:00:00Z",
			"batchProgress": {"total": 100, "succeeded": 40, "failed": 2, "pending": 58, "progress": 42.0}
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithHTTPClient(srv.Client()))
	record, err := c.GetStatus(context.Background(), testJobID)
	require.NoError(t, err)

	assert.Equal(t, "Monthly Report", record.JobName)
	assert.Equal(t, "BATCH", record.JobType)
	assert.Equal(t, types.StatusProcessing, record.Status)
	assert.Equal(t, "2024-05-01T08:00:00Z", record.StartedAt)
	assert.Empty(t, record.FinishedAt)

	require.NotNil(t, record.BatchProgress)
	assert.Equal(t, int64(100), record.BatchProgress.Total)
	assert.Equal(t, int64(40), record.BatchProgress.Succeeded)
	assert.Equal(t, int64(2), record.BatchProgress.Failed)
	assert.Equal(t, int64(58), record.BatchProgress.Pending)
	assert.InDelta(t, 42.0, record.BatchProgress.Progress, 0.01)
}

func TestGetStatus_AbsentFieldsUseDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "ENQUEUED"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithHTTPClient(srv.Client()))
	record, err := c.GetStatus(context.Background(), testJobID)
	require.NoError(t, err)

	assert.Equal(t, types.StatusEnqueued, record.Status)
	assert.Equal(t, types.UnknownLabel, record.DisplayName())
	assert.Equal(t, types.UnknownLabel, record.DisplayType())
	assert.Nil(t, record.BatchProgress)
}

func TestGetStatus_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal error"))
	}))
	defer srv.Close()

	c := New(srv.URL, WithHTTPClient(srv.Client()))
	_, err := c.GetStatus(context.Background(), testJobID)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "status", reqErr.Op)
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
	assert.Equal(t, "internal error", reqErr.Body)
	assert.Empty(t, reqErr.Message)
}

func TestGetStatus_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := New(srv.URL, WithHTTPClient(srv.Client()))
	_, err := c.GetStatus(context.Background(), testJobID)

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, "status", decErr.Op)
}

func TestGetStatus_MissingStatusField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"jobName": "nameless"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithHTTPClient(srv.Client()))
	_, err := c.GetStatus(context.Background(), testJobID)

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Contains(t, decErr.Error(), "missing status field")
}

func TestTriggerThenGetStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		switch r.Method {
		case http.MethodPost:
			_ = json.NewEncoder(w).Encode(map[string]string{"jobId": testJobID, "message": "ok"})
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "ENQUEUED"})
		}
	}))
	defer srv.Close()

	c := New(srv.URL, WithHTTPClient(srv.Client()))
	_, _, err := c.Trigger(context.Background(), testJobID)
	require.NoError(t, err)

	record, err := c.GetStatus(context.Background(), testJobID)
	require.NoError(t, err)
	assert.Contains(t, []types.JobStatus{
		types.StatusEnqueued, types.StatusProcessing, types.StatusSucceeded, types.StatusFailed,
	}, record.Status)
}

func TestHeadersPassThrough(t *testing.T) {
	t.Setenv("JOBRUNR_TOKEN", "secret-token")

	var receivedAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "SUCCEEDED"}`))
	}))
	defer srv.Close()

	c := New(srv.URL,
		WithHTTPClient(srv.Client()),
		WithHeaders(map[string]string{"Authorization": "Bearer ${JOBRUNR_TOKEN}"}))

	_, err := c.GetStatus(context.Background(), testJobID)
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", receivedAuth)
}
