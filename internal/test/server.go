package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// TestServer is a wrapper around httptest.Server.
type TestServer struct {
	*httptest.Server
}

// NewHTTPServer creates a new TestServer.
// The server is automatically closed when the test ends.
func NewHTTPServer(tb testing.TB, handle func(w http.ResponseWriter, r *http.Request)) TestServer {
	ts := httptest.NewServer(http.HandlerFunc(handle))
	tb.Cleanup(func() { ts.Close() })
	return TestServer{ts}
}

// OperationResponse is one scripted reply from an operations endpoint.
type OperationResponse struct {
	Status int
	Body   any
}

// NewOperationServer creates a TestServer that plays back a sequence of
// operation responses, one per GET, repeating the last one once the script
// is exhausted. A zero Status means 200.
func NewOperationServer(tb testing.TB, script ...OperationResponse) TestServer {
	var mu sync.Mutex
	calls := 0
	return NewHTTPServer(tb, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		i := calls
		calls++
		mu.Unlock()
		if i >= len(script) {
			i = len(script) - 1
		}
		resp := script[i]

		status := resp.Status
		if status == 0 {
			status = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if resp.Body == nil {
			return
		}
		if err := json.NewEncoder(w).Encode(resp.Body); err != nil {
			tb.Errorf("Failed to write response from test server: %v", err)
		}
	})
}
