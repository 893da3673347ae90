package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opwait/opwait/internal/client"
	"github.com/opwait/opwait/internal/operation"
	"github.com/opwait/opwait/internal/poller"
)

const opName = "projects/p/locations/l/operations/op1"

const runningOperation = `{
  "name": "projects/p/locations/l/operations/op1",
  "done": false,
  "metadata": {
    "@type": "type.googleapis.com/google.cloud.functions.v2.OperationMetadata",
    "target": "projects/p/locations/l/functions/f",
    "stages": [
      {
        "name": "BUILD",
        "state": "IN_PROGRESS",
        "message": "Building container",
        "resourceUri": "https://logs.example/build/123"
      },
      {
        "name": "SERVICE",
        "state": "NOT_STARTED",
        "stateMessages": [
          {"severity": "WARNING", "message": "quota low"}
        ]
      }
    ]
  }
}`

const failedOperation = `{
  "name": "projects/p/locations/l/operations/op1",
  "done": true,
  "error": {
    "code": 13,
    "message": "build failed",
    "details": [
      {"@type": "type.googleapis.com/google.rpc.DebugInfo", "detail": "stack"},
      {"code": 9, "message": "precondition failed"}
    ]
  }
}`

func newServer(t *testing.T, handler http.HandlerFunc) *client.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return client.New(client.Config{Endpoint: server.URL}, zap.NewNop())
}

func TestGetOperation(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/"+opName, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(runningOperation))
	})

	op, err := c.GetOperation(context.Background(), opName)

	require.NoError(t, err)
	assert.Equal(t, opName, op.Name)
	assert.False(t, c.Done(op))
	assert.Nil(t, c.Err(op))

	stages := c.Stages(op)
	require.Len(t, stages, 2)
	assert.Equal(t, operation.StageInfo{
		Name:        "BUILD",
		State:       operation.StateInProgress,
		Message:     "Building container",
		ResourceURI: "https://logs.example/build/123",
	}, stages[0])
	assert.Equal(t, "SERVICE", stages[1].Name)
	assert.Equal(t, operation.StateNotStarted, stages[1].State)
	assert.Equal(t, []operation.StateMessage{{Severity: "WARNING", Message: "quota low"}}, stages[1].StateMessages)
}

func TestGetOperationError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(failedOperation))
	})

	op, err := c.GetOperation(context.Background(), opName)

	require.NoError(t, err)
	status := c.Err(op)
	require.NotNil(t, status)
	assert.Equal(t, 13, status.Code)
	assert.Equal(t, "build failed", status.Message)
	// Only status-shaped details survive decoding.
	require.Len(t, status.Details, 1)
	assert.Equal(t, 9, status.Details[0].Code)
	assert.Equal(t, "precondition failed", status.Details[0].Message)
}

func TestGetOperationNotFound(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := c.GetOperation(context.Background(), opName)

	require.ErrorIs(t, err, poller.ErrNotFound)
}

func TestGetOperationServerError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.GetOperation(context.Background(), opName)

	require.Error(t, err)
	assert.NotErrorIs(t, err, poller.ErrNotFound)
	assert.Contains(t, err.Error(), "500")
}

func TestGetOperationSendsToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"name": "op", "done": true}`))
	}))
	t.Cleanup(server.Close)

	c := client.New(client.Config{Endpoint: server.URL, Token: "secret"}, zap.NewNop())
	op, err := c.GetOperation(context.Background(), "op")

	require.NoError(t, err)
	assert.True(t, op.Done)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestGetOperationEmptyMetadata(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name": "op", "done": false, "metadata": {"@type": "t"}}`))
	})

	op, err := c.GetOperation(context.Background(), "op")

	require.NoError(t, err)
	// No stages published yet: distinct from an empty stage list being final.
	assert.Empty(t, c.Stages(op))
}
