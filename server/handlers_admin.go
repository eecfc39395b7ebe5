package server

import (
	"net/http"

	"github.com/onnwee/wager-leaderboard/leaderboard"
	"github.com/onnwee/wager-leaderboard/telemetry"
)

// HandleAdminPublish forces a publish cycle and returns its result.
// Published outcomes answer 200, busy 409, everything else 502.
func (h *Handlers) HandleAdminPublish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// Bound to the server lifetime rather than the request.
	ctx := telemetry.WithCorrelation(h.ctx, telemetry.GetCorrelation(r.Context()))
	ctx = leaderboard.WithTrigger(ctx, "http")
	res := h.deps.Publisher.Publish(ctx)

	status := http.StatusBadGateway
	switch {
	case res.Outcome.Published():
		status = http.StatusOK
	case res.Outcome == leaderboard.OutcomeBusy:
		status = http.StatusConflict
	}
	writeJSON(w, status, newResultView(res))
}
