package model

import "time"

// VisitorCount is the daily aggregate visitor counter.  One row exists
// per calendar date; the counter only grows through the dedup table
// below, so re-visits within the same day never inflate it.
type VisitorCount struct {
	VisitDate time.Time // visitor_counts.visit_date (date only)
	Count     uint64    // visitor_counts.count
}

// VisitorSession is one (date, visitor-id) dedup row.  Its sole purpose
// is to make the daily counter increment idempotent per visitor per day;
// the all-time visitor total is the count of these rows.
type VisitorSession struct {
	ID        uint64    // visitor_sessions.id
	VisitDate time.Time // visitor_sessions.visit_date (date only)
	VisitorID string    // visitor_sessions.visitor_id
	CreatedAt time.Time // visitor_sessions.created_at
}
