package server

import (
	"context"
	"time"

	"github.com/onnwee/wager-leaderboard/db"
	"github.com/onnwee/wager-leaderboard/leaderboard"
)

// Publisher is the view of *leaderboard.Publisher used by the handlers.
type Publisher interface {
	Publish(ctx context.Context) leaderboard.Result
	LastResult() (leaderboard.Result, bool)
	LastMessageID() string
	InFlight() bool
}

// RunStore is the optional audit log. *db.RunStore implements it.
type RunStore interface {
	Recent(ctx context.Context, limit int) ([]db.PublishRun, error)
	Ping(ctx context.Context) error
}

// Deps are the handler dependencies. Runs, Ready and NextRun may be nil.
type Deps struct {
	Publisher Publisher
	Runs      RunStore
	// Ready reports whether the Discord gateway session is up.
	Ready     func() bool
	ChannelID string
	Schedule  string
	NextRun   func() (time.Time, bool)
}

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	deps Deps
	ctx  context.Context
}

// NewHandlers creates a new Handlers instance with the given dependencies.
func NewHandlers(ctx context.Context, deps Deps) *Handlers {
	return &Handlers{deps: deps, ctx: ctx}
}
