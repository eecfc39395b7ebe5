// Package leaderboard builds the month-to-date wager leaderboard and keeps a
// single posted copy of it in the target chat channel.
//
// A publish cycle computes the reporting window, fetches stats for it, formats
// an embed, deletes the previously posted leaderboard (best effort) and posts
// the new one. The id of the posted message lives only in memory, so after a
// restart the first publish cannot remove the message left by the previous
// process.
package leaderboard

import "time"

// DateLayout is the calendar date format used by the stats API.
const DateLayout = "2006-01-02"

// Window is the inclusive month-to-date range sent to the stats API.
type Window struct {
	From time.Time
	To   time.Time
}

// ComputeWindow returns the range from the first day of now's month to now's
// date. Calendar fields are read in now's own location; no UTC conversion is
// applied, so a process running at 00:30 local time reports the local date.
func ComputeWindow(now time.Time) Window {
	y, m, d := now.Date()
	loc := now.Location()
	return Window{
		From: time.Date(y, m, 1, 0, 0, 0, 0, loc),
		To:   time.Date(y, m, d, 0, 0, 0, 0, loc),
	}
}

func (w Window) FromString() string { return w.From.Format(DateLayout) }

func (w Window) ToString() string { return w.To.Format(DateLayout) }
