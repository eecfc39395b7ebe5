package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/onnwee/wager-leaderboard/leaderboard"
)

// DefaultRecentRuns is the number of runs returned when no limit is given.
const DefaultRecentRuns = 20

// PublishRun is one row of the publish audit log.
type PublishRun struct {
	ID            int64         `json:"id"`
	CorrelationID string        `json:"correlation_id"`
	Trigger       string        `json:"trigger"`
	Outcome       string        `json:"outcome"`
	MessageID     string        `json:"message_id,omitempty"`
	PreviousID    string        `json:"previous_id,omitempty"`
	Entries       int           `json:"entries"`
	Error         string        `json:"error,omitempty"`
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration_ns"`
}

// RunFromResult converts a publish result into an audit row.
func RunFromResult(r leaderboard.Result) PublishRun {
	run := PublishRun{
		CorrelationID: r.CorrelationID,
		Trigger:       r.Trigger,
		Outcome:       string(r.Outcome),
		MessageID:     r.MessageID,
		PreviousID:    r.PreviousID,
		Entries:       r.Entries,
		StartedAt:     r.Started,
		Duration:      r.Duration,
	}
	if r.Err != nil {
		run.Error = r.Err.Error()
	}
	return run
}

// InsertPublishRun stores a run and returns its id.
func InsertPublishRun(ctx context.Context, dbx *sql.DB, run PublishRun) (int64, error) {
	var id int64
	err := dbx.QueryRowContext(ctx,
		`INSERT INTO publish_runs(correlation_id, trigger, outcome, message_id, previous_id, entries, error, started_at, duration_ms)
		 VALUES($1,$2,$3,NULLIF($4,''),NULLIF($5,''),$6,NULLIF($7,''),$8,$9)
		 RETURNING id`,
		run.CorrelationID, run.Trigger, run.Outcome, run.MessageID, run.PreviousID,
		run.Entries, run.Error, run.StartedAt, run.Duration.Milliseconds()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert publish run: %w", err)
	}
	return id, nil
}

// ListRecentRuns returns the newest runs first.
func ListRecentRuns(ctx context.Context, dbx *sql.DB, limit int) ([]PublishRun, error) {
	if limit <= 0 {
		limit = DefaultRecentRuns
	}
	rows, err := dbx.QueryContext(ctx,
		`SELECT id, correlation_id, trigger, outcome, COALESCE(message_id,''), COALESCE(previous_id,''),
		        entries, COALESCE(error,''), started_at, duration_ms
		 FROM publish_runs ORDER BY started_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list publish runs: %w", err)
	}
	defer rows.Close()

	runs := []PublishRun{}
	for rows.Next() {
		var r PublishRun
		var ms int64
		if err := rows.Scan(&r.ID, &r.CorrelationID, &r.Trigger, &r.Outcome, &r.MessageID, &r.PreviousID,
			&r.Entries, &r.Error, &r.StartedAt, &ms); err != nil {
			return nil, fmt.Errorf("scan publish run: %w", err)
		}
		r.Duration = time.Duration(ms) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunStore implements leaderboard.Recorder on top of the publish_runs table.
type RunStore struct{ DB *sql.DB }

// RecordPublish appends the result to the audit log.
func (s *RunStore) RecordPublish(ctx context.Context, r leaderboard.Result) error {
	_, err := InsertPublishRun(ctx, s.DB, RunFromResult(r))
	return err
}

// Recent returns up to limit runs, newest first.
func (s *RunStore) Recent(ctx context.Context, limit int) ([]PublishRun, error) {
	return ListRecentRuns(ctx, s.DB, limit)
}

// Ping checks the connection.
func (s *RunStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}
