package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestMetricsInitialized(t *testing.T) {
	Init()

	if PublishesTotal == nil || FetchFailures == nil || StaleDeleteFailures == nil || CommandsTotal == nil {
		t.Fatal("counters not initialized")
	}
	if FetchDuration == nil || PublishDuration == nil {
		t.Fatal("histograms not initialized")
	}
	if LeaderboardEntries == nil || LastPublishTime == nil {
		t.Fatal("gauges not initialized")
	}

	// Second call must not panic on duplicate registration.
	Init()
}

func TestRecordPublishCountsByOutcome(t *testing.T) {
	Init()

	before := promtest.ToFloat64(PublishesTotal.WithLabelValues("ok"))
	RecordPublish("ok")
	RecordPublish("ok")
	RecordPublish("fetch_failed")

	if got := promtest.ToFloat64(PublishesTotal.WithLabelValues("ok")) - before; got != 2 {
		t.Errorf("ok publishes delta = %v, want 2", got)
	}
}

func TestSetPublished(t *testing.T) {
	Init()

	at := time.Unix(1717000000, 0)
	SetPublished(15, at)

	if got := promtest.ToFloat64(LeaderboardEntries); got != 15 {
		t.Errorf("entries gauge = %v, want 15", got)
	}
	if got := promtest.ToFloat64(LastPublishTime); got != 1717000000 {
		t.Errorf("last publish gauge = %v, want 1717000000", got)
	}
}

func TestFailureCounters(t *testing.T) {
	Init()

	f := promtest.ToFloat64(FetchFailures)
	d := promtest.ToFloat64(StaleDeleteFailures)
	IncFetchFailures()
	IncStaleDeleteFailures()
	IncStaleDeleteFailures()

	if got := promtest.ToFloat64(FetchFailures) - f; got != 1 {
		t.Errorf("fetch failures delta = %v, want 1", got)
	}
	if got := promtest.ToFloat64(StaleDeleteFailures) - d; got != 2 {
		t.Errorf("stale delete failures delta = %v, want 2", got)
	}
}

func TestTimeFuncRecordsObservation(t *testing.T) {
	testHistogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "test_duration_seconds",
		Help:    "Test duration",
		Buckets: prometheus.DefBuckets,
	})

	executed := false
	duration := TimeFunc(testHistogram, func() {
		time.Sleep(10 * time.Millisecond)
		executed = true
	})

	if !executed {
		t.Error("TimeFunc did not execute provided function")
	}
	if duration < 10*time.Millisecond {
		t.Errorf("TimeFunc duration = %v, want >= 10ms", duration)
	}

	metric := &dto.Metric{}
	if err := testHistogram.Write(metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Histogram == nil || metric.Histogram.GetSampleCount() != 1 {
		t.Error("TimeFunc did not record observation in histogram")
	}
}

func TestTimeFuncNilObserver(t *testing.T) {
	ran := false
	TimeFunc(nil, func() { ran = true })
	if !ran {
		t.Error("TimeFunc with nil observer should still run fn")
	}
}

func TestCorrelation(t *testing.T) {
	ctx := context.Background()
	if got := GetCorrelation(ctx); got != "" {
		t.Errorf("GetCorrelation(empty) = %q, want empty", got)
	}
	ctx = WithCorrelation(ctx, "abc-123")
	if got := GetCorrelation(ctx); got != "abc-123" {
		t.Errorf("GetCorrelation = %q, want abc-123", got)
	}
	if LoggerWithCorr(ctx) == nil {
		t.Error("LoggerWithCorr returned nil")
	}
}
