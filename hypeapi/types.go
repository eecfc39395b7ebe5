package hypeapi

import "github.com/shopspring/decimal"

// Stats is the success payload of the creator stats endpoint.
type Stats struct {
	DateRange      DateRange `json:"dateRange"`
	SummarizedBets []Bet     `json:"summarizedBets"`
}

// DateRange echoes the requested window as calendar dates.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Bet is one user's aggregated wager for the window. The server orders bets by rank.
type Bet struct {
	User *User `json:"user"`
	// Wagered is in the smallest currency unit. Decoded as a decimal so
	// fractional or quoted values from the API don't fail the whole payload.
	Wagered decimal.Decimal `json:"wagered"`
}

type User struct {
	Username string `json:"username"`
}

// HasEntries reports whether the summarizedBets field was present. An empty
// list counts as present; a missing or null field does not.
func (s *Stats) HasEntries() bool {
	return s != nil && s.SummarizedBets != nil
}

// Username returns the bettor's name or "" when the user object is missing.
func (b Bet) Username() string {
	if b.User == nil {
		return ""
	}
	return b.User.Username
}
