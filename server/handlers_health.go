package server

import (
	"errors"
	"net/http"
)

// HandleHealthz is the liveness probe. It pings the audit database when one is configured.
func (h *Handlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	if h.deps.Runs != nil {
		if err := h.deps.Runs.Ping(r.Context()); err != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// HandleReadyz reports whether the bot can publish: Discord session up and database reachable.
func (h *Handlers) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"discord", func() error {
			if h.deps.Ready != nil && !h.deps.Ready() {
				return errors.New("gateway session not ready")
			}
			return nil
		}},
		{"database", func() error {
			if h.deps.Runs == nil {
				return nil
			}
			return h.deps.Runs.Ping(r.Context())
		}},
	}

	for _, check := range checks {
		if err := check.fn(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":       "not_ready",
				"failed_check": check.name,
				"error":        err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
