// Package telemetry provides Prometheus metrics and correlation-id aware logging helpers.
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	PublishesTotal      *prometheus.CounterVec // label: outcome
	FetchFailures       prometheus.Counter
	StaleDeleteFailures prometheus.Counter
	CommandsTotal       *prometheus.CounterVec // label: result (accepted|denied|busy)

	// Histograms (seconds)
	FetchDuration   prometheus.Observer
	PublishDuration prometheus.Observer

	// Gauges
	LeaderboardEntries prometheus.Gauge
	LastPublishTime    prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		PublishesTotal = promauto.NewCounterVec(prometheus.CounterOpts{Name: "leaderboard_publishes_total", Help: "Publish attempts by outcome"}, []string{"outcome"})
		FetchFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "leaderboard_stats_fetch_failures_total", Help: "Stats API requests that failed (transport or non-2xx)"})
		StaleDeleteFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "leaderboard_stale_delete_failures_total", Help: "Previous leaderboard messages that could not be deleted"})
		CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{Name: "leaderboard_commands_total", Help: "Chat refresh commands by result"}, []string{"result"})
		FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "leaderboard_stats_fetch_duration_seconds", Help: "Stats API request duration seconds", Buckets: prometheus.DefBuckets})
		PublishDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "leaderboard_publish_duration_seconds", Help: "Full publish cycle duration seconds", Buckets: prometheus.DefBuckets})
		LeaderboardEntries = promauto.NewGauge(prometheus.GaugeOpts{Name: "leaderboard_entries", Help: "Entries shown in the last posted leaderboard"})
		LastPublishTime = promauto.NewGauge(prometheus.GaugeOpts{Name: "leaderboard_last_publish_timestamp_seconds", Help: "Unix time of the last successful publish"})
	})
}

// RecordPublish counts a publish outcome. Safe to call before Init (no-op).
func RecordPublish(outcome string) {
	if PublishesTotal != nil {
		PublishesTotal.WithLabelValues(outcome).Inc()
	}
}

// RecordCommand counts a chat command result.
func RecordCommand(result string) {
	if CommandsTotal != nil {
		CommandsTotal.WithLabelValues(result).Inc()
	}
}

// IncFetchFailures bumps the stats fetch failure counter.
func IncFetchFailures() {
	if FetchFailures != nil {
		FetchFailures.Inc()
	}
}

// IncStaleDeleteFailures bumps the stale message delete failure counter.
func IncStaleDeleteFailures() {
	if StaleDeleteFailures != nil {
		StaleDeleteFailures.Inc()
	}
}

// SetPublished records entry count and time of a successful publish.
func SetPublished(entries int, at time.Time) {
	if LeaderboardEntries != nil {
		LeaderboardEntries.Set(float64(entries))
	}
	if LastPublishTime != nil {
		LastPublishTime.Set(float64(at.Unix()))
	}
}

// TimeFunc measures the duration of fn and records in observer if non-nil.
func TimeFunc(obs prometheus.Observer, fn func()) time.Duration {
	start := time.Now()
	fn()
	d := time.Since(start)
	if obs != nil {
		obs.Observe(d.Seconds())
	}
	return d
}

// Correlation ID helpers ----------------------------------------------------
type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding the correlation id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	v := ctx.Value(corrKey)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger with corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
