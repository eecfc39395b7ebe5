package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// MockStatsServer is a test server that mocks the creator stats endpoint.
// It records every request body it receives.
type MockStatsServer struct {
	*httptest.Server

	mu       sync.Mutex
	handler  http.HandlerFunc
	requests []RecordedRequest
}

// RecordedRequest is a request captured by MockStatsServer.
type RecordedRequest struct {
	Method      string
	ContentType string
	Body        map[string]any
}

// NewMockStatsServer creates a mock stats server that answers 404 until a response is configured.
func NewMockStatsServer(t *testing.T) *MockStatsServer {
	t.Helper()
	m := &MockStatsServer{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		rec := RecordedRequest{Method: r.Method, ContentType: r.Header.Get("Content-Type")}
		_ = json.Unmarshal(raw, &rec.Body)

		m.mu.Lock()
		m.requests = append(m.requests, rec)
		h := m.handler
		m.mu.Unlock()

		if h == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h(w, r)
	}))
	t.Cleanup(m.Close)
	return m
}

// MockStatsResponse answers with a summarizedBets payload. Each bet is a
// {"username": ..., "wagered": ...} pair; an empty username omits the user name.
func (m *MockStatsServer) MockStatsResponse(from, to string, bets []map[string]any) {
	summarized := make([]map[string]any, 0, len(bets))
	for _, b := range bets {
		user := map[string]any{}
		if name, ok := b["username"].(string); ok && name != "" {
			user["username"] = name
		}
		summarized = append(summarized, map[string]any{"user": user, "wagered": b["wagered"]})
	}
	m.MockRawResponse(http.StatusOK, map[string]any{
		"dateRange":      map[string]string{"from": from, "to": to},
		"summarizedBets": summarized,
	})
}

// MockRawResponse answers every request with the given status and JSON body.
func (m *MockStatsServer) MockRawResponse(status int, body any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body) //nolint:errcheck // test mock response
	}
}

// Requests returns a copy of the requests received so far.
func (m *MockStatsServer) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}
