package repository

import (
	"context"
	"database/sql"
	"time"
)

const dbDateLayout = "2006-01-02"

// VisitorRepo maintains the daily visitor counter and its dedup table.
// The dedup table has a unique key on (visit_date, visitor_id); INSERT
// IGNORE makes RecordVisit idempotent per visitor per day, and the daily
// counter is only bumped when the insert actually created a row.
type VisitorRepo struct {
	db *sql.DB
}

// NewVisitorRepo returns a new VisitorRepo bound to the given database.
func NewVisitorRepo(db *sql.DB) *VisitorRepo { return &VisitorRepo{db: db} }

// RecordVisit registers one visit for the visitor on the given date.
// Calling it again with the same (date, visitorID) pair changes nothing.
// It returns true when this call was the visitor's first visit today.
func (r *VisitorRepo) RecordVisit(ctx context.Context, date time.Time, visitorID string) (bool, error) {
	day := date.Format(dbDateLayout)
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	result, err := tx.ExecContext(ctx,
		`INSERT IGNORE INTO visitor_sessions (visit_date, visitor_id) VALUES (?, ?)`,
		day, visitorID)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	first := n > 0
	if first {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO visitor_counts (visit_date, count) VALUES (?, 1)
			 ON DUPLICATE KEY UPDATE count = count + 1`, day); err != nil {
			return false, err
		}
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	committed = true
	return first, nil
}

// Counts returns today's visitor count and the all-time total.  The
// total is the sum of all daily counters, which by construction equals
// the number of dedup rows ever inserted, and stays correct even after
// old dedup rows are purged.
func (r *VisitorRepo) Counts(ctx context.Context, today time.Time) (todayCount, total uint64, err error) {
	day := today.Format(dbDateLayout)
	err = r.db.QueryRowContext(ctx,
		`SELECT COALESCE((SELECT count FROM visitor_counts WHERE visit_date = ?), 0)`, day).
		Scan(&todayCount)
	if err != nil {
		return 0, 0, err
	}
	if err = r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(count), 0) FROM visitor_counts`).Scan(&total); err != nil {
		return 0, 0, err
	}
	return todayCount, total, nil
}

// PurgeSessions deletes dedup rows older than the retention window.
// Dedup only needs same-day uniqueness, so any retention of a day or
// more is safe; the daily counters carry the historical totals.
func (r *VisitorRepo) PurgeSessions(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).Format(dbDateLayout)
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM visitor_sessions WHERE visit_date < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
