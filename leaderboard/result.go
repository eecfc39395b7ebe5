package leaderboard

import (
	"errors"
	"time"
)

// Outcome classifies how a publish cycle ended.
type Outcome string

const (
	// OutcomeOK: new leaderboard posted and the stale one (if any) removed.
	OutcomeOK Outcome = "ok"
	// OutcomeDeleteFailed: new leaderboard posted but the stale one could not be removed.
	OutcomeDeleteFailed Outcome = "delete_failed"
	// OutcomeFetchFailed: stats API unreachable or non-2xx; nothing posted.
	OutcomeFetchFailed Outcome = "fetch_failed"
	// OutcomeNoData: stats returned without entries; nothing posted.
	OutcomeNoData Outcome = "no_data"
	// OutcomeChannelNotFound: target channel could not be resolved; nothing posted.
	OutcomeChannelNotFound Outcome = "channel_not_found"
	// OutcomeSendFailed: posting the new message failed; state unchanged.
	OutcomeSendFailed Outcome = "send_failed"
	// OutcomeBusy: another publish was already running; nothing attempted.
	OutcomeBusy Outcome = "busy"
)

var (
	ErrBusy            = errors.New("leaderboard publish already in progress")
	ErrNoData          = errors.New("stats response has no summarized bets")
	ErrChannelNotFound = errors.New("leaderboard channel not found")
)

// Published reports whether a new leaderboard message was posted.
func (o Outcome) Published() bool {
	return o == OutcomeOK || o == OutcomeDeleteFailed
}

// Result describes one publish cycle.
type Result struct {
	Outcome       Outcome
	MessageID     string // id of the message posted by this cycle
	PreviousID    string // id that was tracked when the cycle started
	Entries       int    // entries shown in the posted embed
	Err           error  // cause for non-OK outcomes; delete error for OutcomeDeleteFailed
	CorrelationID string
	Trigger       string
	Started       time.Time
	Duration      time.Duration
}
