// Package usage is the per-user, per-day request ledger behind quota
// enforcement. Rows are created lazily and only ever incremented; the
// date key rolls quota over at midnight UTC with no reset job.
package usage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Ledger struct {
	pool *pgxpool.Pool
}

func NewLedger(pool *pgxpool.Pool) *Ledger {
	return &Ledger{pool: pool}
}

// DateKey is the ledger's calendar-date key for t, in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Count returns the recorded request count for the key, 0 when no row
// exists yet.
func (l *Ledger) Count(ctx context.Context, userID, date string) (int, error) {
	var count int

	err := l.pool.QueryRow(ctx, selectCountQuery, userID, date).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to query usage count: %w", err)
	}

	return count, nil
}

// Increment atomically bumps the counter for the key, creating the row
// with count 1 when absent, and returns the new count. The single-statement
// upsert keeps concurrent increments from losing updates.
func (l *Ledger) Increment(ctx context.Context, userID, date string) (int, error) {
	var count int

	err := l.pool.QueryRow(ctx, incrementQuery, userID, date).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to increment usage count: %w", err)
	}

	return count, nil
}

// CountToday reads today's count using the UTC date key.
func (l *Ledger) CountToday(ctx context.Context, userID string) (int, error) {
	return l.Count(ctx, userID, DateKey(time.Now()))
}

// RecordRequest increments today's count using the UTC date key.
func (l *Ledger) RecordRequest(ctx context.Context, userID string) (int, error) {
	return l.Increment(ctx, userID, DateKey(time.Now()))
}
