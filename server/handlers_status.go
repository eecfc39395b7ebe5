package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/onnwee/wager-leaderboard/db"
	"github.com/onnwee/wager-leaderboard/telemetry"
)

type statusView struct {
	ChannelID     string          `json:"channel_id"`
	Schedule      string          `json:"schedule,omitempty"`
	NextRun       *time.Time      `json:"next_run,omitempty"`
	DiscordReady  bool            `json:"discord_ready"`
	InFlight      bool            `json:"in_flight"`
	LastMessageID string          `json:"last_message_id,omitempty"`
	LastResult    *resultView     `json:"last_result,omitempty"`
	RecentRuns    []db.PublishRun `json:"recent_runs,omitempty"`
}

// HandleStatus summarizes the publisher state. ?runs=N limits the audit rows returned.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	p := h.deps.Publisher
	st := statusView{
		ChannelID:     h.deps.ChannelID,
		Schedule:      h.deps.Schedule,
		DiscordReady:  h.deps.Ready == nil || h.deps.Ready(),
		InFlight:      p.InFlight(),
		LastMessageID: p.LastMessageID(),
	}
	if h.deps.NextRun != nil {
		if next, ok := h.deps.NextRun(); ok {
			st.NextRun = &next
		}
	}
	if last, ok := p.LastResult(); ok {
		v := newResultView(last)
		st.LastResult = &v
	}
	if h.deps.Runs != nil {
		limit := parseIntQuery(r, "runs", db.DefaultRecentRuns)
		if limit > 100 {
			limit = 100
		}
		runs, err := h.deps.Runs.Recent(r.Context(), limit)
		if err != nil {
			telemetry.LoggerWithCorr(r.Context()).Warn("failed to load recent runs", slog.Any("err", err), slog.String("component", "http"))
		} else {
			st.RecentRuns = runs
		}
	}
	writeJSON(w, http.StatusOK, st)
}
