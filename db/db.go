// Package db provides the optional Postgres audit log of publish runs:
// connection helpers, schema migration and small data access helpers.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx postgres driver registered as 'pgx'
)

// Connect opens a Postgres connection pool. The bot writes at most a few rows
// per day so the pool is kept small.
func Connect(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("db dsn empty")
	}
	database, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	database.SetMaxOpenConns(4)
	database.SetMaxIdleConns(2)
	database.SetConnMaxIdleTime(5 * time.Minute)
	return database, nil
}

// Migrate applies idempotent schema changes. It is the fallback used when
// versioned migrations cannot run.
func Migrate(ctx context.Context, db *sql.DB) error { return migratePostgres(ctx, db) }

func migratePostgres(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS publish_runs (
			id BIGSERIAL PRIMARY KEY,
			correlation_id TEXT NOT NULL,
			trigger TEXT NOT NULL,
			outcome TEXT NOT NULL,
			message_id TEXT,
			previous_id TEXT,
			entries INTEGER NOT NULL DEFAULT 0,
			error TEXT,
			started_at TIMESTAMPTZ NOT NULL,
			duration_ms BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_publish_runs_started_at ON publish_runs(started_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_publish_runs_outcome ON publish_runs(outcome)`,
	}
	for i, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("postgres migrate step %d failed: %w", i, err)
		}
	}
	return nil
}
