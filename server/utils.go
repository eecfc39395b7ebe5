package server

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/onnwee/wager-leaderboard/leaderboard"
)

// parseIntQuery extracts an int parameter from query string with a default value.
func parseIntQuery(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// getEnvInt returns an integer environment variable value or default if not set or invalid.
func getEnvInt(key string, defaultVal int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return defaultVal
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// resultView is the JSON form of a publish result.
type resultView struct {
	Outcome       string    `json:"outcome"`
	Published     bool      `json:"published"`
	MessageID     string    `json:"message_id,omitempty"`
	PreviousID    string    `json:"previous_id,omitempty"`
	Entries       int       `json:"entries"`
	Error         string    `json:"error,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	Trigger       string    `json:"trigger,omitempty"`
	StartedAt     time.Time `json:"started_at"`
	DurationMS    int64     `json:"duration_ms"`
}

func newResultView(r leaderboard.Result) resultView {
	v := resultView{
		Outcome:       string(r.Outcome),
		Published:     r.Outcome.Published(),
		MessageID:     r.MessageID,
		PreviousID:    r.PreviousID,
		Entries:       r.Entries,
		CorrelationID: r.CorrelationID,
		Trigger:       r.Trigger,
		StartedAt:     r.Started,
		DurationMS:    r.Duration.Milliseconds(),
	}
	if r.Err != nil {
		v.Error = r.Err.Error()
	}
	return v
}
