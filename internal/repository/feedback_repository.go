package repository

import (
	"context"
	"database/sql"

	"github.com/Wellstation/wellstation-sub000/internal/model"
)

// FeedbackRepo stores customer ratings and comments.  Validation of the
// rating range and content length happens at the handler boundary; the
// repository only persists well-formed rows.
type FeedbackRepo struct {
	db *sql.DB
}

// NewFeedbackRepo returns a new FeedbackRepo bound to the given database.
func NewFeedbackRepo(db *sql.DB) *FeedbackRepo { return &FeedbackRepo{db: db} }

// Create inserts a feedback row and populates its ID.
func (r *FeedbackRepo) Create(ctx context.Context, f *model.Feedback) error {
	const q = `INSERT INTO feedbacks (category, author, rating, comment) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, f.Category, f.Author, f.Rating, f.Comment)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// List returns feedback entries, optionally filtered by category,
// newest first.
func (r *FeedbackRepo) List(ctx context.Context, category *model.ServiceCategory, limit int) ([]*model.Feedback, error) {
	q := `SELECT id, category, author, rating, comment, created_at FROM feedbacks`
	args := []any{}
	if category != nil {
		q += ` WHERE category = ?`
		args = append(args, *category)
	}
	q += ` ORDER BY created_at DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*model.Feedback, 0)
	for rows.Next() {
		var f model.Feedback
		if err := rows.Scan(&f.ID, &f.Category, &f.Author, &f.Rating, &f.Comment, &f.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &f)
	}
	return items, rows.Err()
}

// Delete removes a feedback entry; ErrNotFound when absent.
func (r *FeedbackRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM feedbacks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
