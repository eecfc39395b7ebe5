package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/onnwee/wager-leaderboard/hypeapi"
	"github.com/onnwee/wager-leaderboard/telemetry"
)

// StatsFetcher returns wager stats for a calendar range. *hypeapi.Client implements it.
type StatsFetcher interface {
	GetStats(ctx context.Context, from, to string) (*hypeapi.Stats, error)
}

// Messenger is the chat platform surface used by a publish cycle.
type Messenger interface {
	ResolveChannel(ctx context.Context, channelID string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) (string, error)
}

// Recorder persists finished publish cycles. Failures are logged only.
type Recorder interface {
	RecordPublish(ctx context.Context, r Result) error
}

// Publisher owns the id of the currently posted leaderboard and replaces it on
// every Publish. Concurrent Publish calls do not queue: while one is running,
// others return OutcomeBusy.
type Publisher struct {
	Stats     StatsFetcher
	Chat      Messenger
	ChannelID string
	Limit     int
	// FetchTimeout bounds the stats request; 0 leaves only the caller's context.
	FetchTimeout time.Duration
	Recorder     Recorder
	Now          func() time.Time

	inFlight atomic.Bool

	mu            sync.RWMutex
	lastMessageID string
	last          *Result
}

func (p *Publisher) clock() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// LastMessageID returns the id of the leaderboard message posted last, or "".
func (p *Publisher) LastMessageID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastMessageID
}

// LastResult returns the most recent non-busy result, if any.
func (p *Publisher) LastResult() (Result, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.last == nil {
		return Result{}, false
	}
	return *p.last, true
}

// InFlight reports whether a publish cycle is running.
func (p *Publisher) InFlight() bool { return p.inFlight.Load() }

type triggerKey struct{}

// WithTrigger labels the publish cycle started with ctx (startup, schedule, command, http).
func WithTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, triggerKey{}, trigger)
}

// TriggerFrom returns the label set by WithTrigger, or "manual".
func TriggerFrom(ctx context.Context) string {
	if s, ok := ctx.Value(triggerKey{}).(string); ok {
		return s
	}
	return "manual"
}

// Fetch requests stats for the window. Failures are logged with the HTTP status
// and body when the API answered, otherwise with the transport error.
func (p *Publisher) Fetch(ctx context.Context, w Window) (*hypeapi.Stats, error) {
	logger := telemetry.LoggerWithCorr(ctx).With(slog.String("component", "leaderboard"))
	if p.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.FetchTimeout)
		defer cancel()
	}
	ctx, span := telemetry.StartSpan(ctx, "leaderboard", "fetch",
		attribute.String("window.from", w.FromString()),
		attribute.String("window.to", w.ToString()))
	defer span.End()

	var stats *hypeapi.Stats
	var err error
	telemetry.TimeFunc(telemetry.FetchDuration, func() {
		stats, err = p.Stats.GetStats(ctx, w.FromString(), w.ToString())
	})
	if err != nil {
		telemetry.IncFetchFailures()
		telemetry.RecordError(span, err)
		var se *hypeapi.StatusError
		if errors.As(err, &se) {
			logger.Error("error fetching leaderboard", slog.Int("status", se.StatusCode), slog.String("body", se.Body))
		} else {
			logger.Error("error fetching leaderboard", slog.Any("err", err))
		}
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}
	telemetry.SetSpanSuccess(span)
	return stats, nil
}

// Publish runs one publish cycle against the configured channel.
func (p *Publisher) Publish(ctx context.Context) Result {
	started := p.clock()
	trigger := TriggerFrom(ctx)
	if !p.inFlight.CompareAndSwap(false, true) {
		telemetry.RecordPublish(string(OutcomeBusy))
		slog.Info("leaderboard publish skipped: already running", slog.String("trigger", trigger), slog.String("component", "leaderboard"))
		return Result{Outcome: OutcomeBusy, Err: ErrBusy, Trigger: trigger, Started: started, PreviousID: p.LastMessageID()}
	}
	defer p.inFlight.Store(false)

	corr := telemetry.GetCorrelation(ctx)
	if corr == "" {
		corr = uuid.NewString()
		ctx = telemetry.WithCorrelation(ctx, corr)
	}
	ctx, span := telemetry.StartSpan(ctx, "leaderboard", "publish",
		attribute.String("channel_id", p.ChannelID),
		attribute.String("trigger", trigger))
	defer span.End()
	logger := telemetry.LoggerWithCorr(ctx).With(slog.String("component", "leaderboard"))

	var res Result
	telemetry.TimeFunc(telemetry.PublishDuration, func() {
		res = p.publish(ctx, logger)
	})
	res.CorrelationID = corr
	res.Trigger = trigger
	res.Started = started
	res.Duration = p.clock().Sub(started)

	telemetry.RecordPublish(string(res.Outcome))
	if res.Outcome.Published() {
		telemetry.SetPublished(res.Entries, p.clock())
		telemetry.SetSpanSuccess(span)
		logger.Info("leaderboard published",
			slog.String("message_id", res.MessageID),
			slog.String("outcome", string(res.Outcome)),
			slog.Int("entries", res.Entries),
			slog.String("trigger", trigger))
	} else {
		telemetry.RecordError(span, res.Err)
	}

	p.mu.Lock()
	last := res
	p.last = &last
	p.mu.Unlock()

	if p.Recorder != nil {
		// Audit rows are written even if the caller's context was canceled mid-cycle.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		if err := p.Recorder.RecordPublish(rctx, res); err != nil {
			logger.Warn("failed to record publish run", slog.Any("err", err))
		}
		cancel()
	}
	return res
}

func (p *Publisher) publish(ctx context.Context, logger *slog.Logger) Result {
	previous := p.LastMessageID()

	if err := p.Chat.ResolveChannel(ctx, p.ChannelID); err != nil {
		logger.Error("leaderboard channel not found", slog.String("channel_id", p.ChannelID), slog.Any("err", err))
		return Result{Outcome: OutcomeChannelNotFound, PreviousID: previous, Err: fmt.Errorf("%w: %v", ErrChannelNotFound, err)}
	}

	window := ComputeWindow(p.clock())
	stats, err := p.Fetch(ctx, window)
	if err != nil {
		return Result{Outcome: OutcomeFetchFailed, PreviousID: previous, Err: err}
	}
	embed := Format(stats, FormatOptions{Limit: p.Limit, Now: p.clock()})
	if embed == nil {
		logger.Debug("stats response without summarized bets; nothing to post")
		return Result{Outcome: OutcomeNoData, PreviousID: previous, Err: ErrNoData}
	}

	outcome := OutcomeOK
	var deleteErr error
	if previous != "" {
		if err := p.Chat.DeleteMessage(ctx, p.ChannelID, previous); err != nil {
			telemetry.IncStaleDeleteFailures()
			logger.Info("old leaderboard message not found or already deleted",
				slog.String("message_id", previous), slog.Any("err", err))
			outcome = OutcomeDeleteFailed
			deleteErr = err
		}
	}

	id, err := p.Chat.SendEmbed(ctx, p.ChannelID, embed)
	if err != nil {
		logger.Error("failed to send leaderboard", slog.Any("err", err))
		return Result{Outcome: OutcomeSendFailed, PreviousID: previous, Err: fmt.Errorf("send leaderboard: %w", err)}
	}

	p.mu.Lock()
	p.lastMessageID = id
	p.mu.Unlock()

	return Result{
		Outcome:    outcome,
		MessageID:  id,
		PreviousID: previous,
		Entries:    len(embed.Fields) - 1,
		Err:        deleteErr,
	}
}
