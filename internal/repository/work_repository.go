package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Wellstation/wellstation-sub000/internal/model"
)

// WorkRecordRepo provides CRUD for showcased work records and their
// images, plus the anonymous view and like counters.  Views are
// deduplicated per IP per 24 hours and likes are a per-IP toggle; both
// dedup tables are keyed on (work_record_id, ip).
type WorkRecordRepo struct {
	db *sql.DB
}

// NewWorkRecordRepo returns a new WorkRecordRepo bound to the given database.
func NewWorkRecordRepo(db *sql.DB) *WorkRecordRepo { return &WorkRecordRepo{db: db} }

const workColumns = `id, category, title, body, views, likes, created_at, updated_at`

func scanWork(sc interface{ Scan(...any) error }) (*model.WorkRecord, error) {
	var w model.WorkRecord
	err := sc.Scan(&w.ID, &w.Category, &w.Title, &w.Body, &w.Views, &w.Likes, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Create inserts a work record and populates its ID.
func (r *WorkRecordRepo) Create(ctx context.Context, w *model.WorkRecord) error {
	const q = `INSERT INTO work_records (category, title, body) VALUES (?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, w.Category, w.Title, w.Body)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	w.ID = uint64(id)
	return nil
}

// Update rewrites the editable fields of a work record.
func (r *WorkRecordRepo) Update(ctx context.Context, w *model.WorkRecord) error {
	const q = `UPDATE work_records SET category = ?, title = ?, body = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, w.Category, w.Title, w.Body, w.ID)
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

// Delete removes a work record.  Images and dedup rows cascade via FK.
// The caller is responsible for removing stored image objects; fetch
// them with Images before deleting.
func (r *WorkRecordRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM work_records WHERE id = ?`, id)
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

// GetByID fetches one work record; ErrNotFound when absent.
func (r *WorkRecordRepo) GetByID(ctx context.Context, id uint64) (*model.WorkRecord, error) {
	w, err := scanWork(r.db.QueryRowContext(ctx,
		`SELECT `+workColumns+` FROM work_records WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return w, err
}

// List returns work records, optionally filtered by category, newest
// first.
func (r *WorkRecordRepo) List(ctx context.Context, category *model.ServiceCategory) ([]*model.WorkRecord, error) {
	q := `SELECT ` + workColumns + ` FROM work_records`
	args := []any{}
	if category != nil {
		q += ` WHERE category = ?`
		args = append(args, *category)
	}
	q += ` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*model.WorkRecord, 0)
	for rows.Next() {
		w, err := scanWork(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	return items, rows.Err()
}

// RegisterView counts a view from the given IP at most once per 24
// hours.  The dedup row stores the last counted view; when it is fresh
// the counter is left alone, otherwise it is refreshed and the counter
// incremented.  Returns true when the view was counted.
func (r *WorkRecordRepo) RegisterView(ctx context.Context, recordID uint64, ip string) (bool, error) {
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
	now := time.Now()
	var viewedAt time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT viewed_at FROM work_record_views WHERE work_record_id = ? AND ip = ? FOR UPDATE`,
		recordID, ip).Scan(&viewedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO work_record_views (work_record_id, ip, viewed_at) VALUES (?, ?, ?)`,
			recordID, ip, now.Format(dbTimeLayout)); err != nil {
			return false, err
		}
	case err != nil:
		return false, err
	default:
		if viewedAt.After(now.Add(-24 * time.Hour)) {
			// Fresh view within 24h: nothing to count.
			if err := tx.Commit(); err != nil {
				return false, err
			}
			committed = true
			return false, nil
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE work_record_views SET viewed_at = ? WHERE work_record_id = ? AND ip = ?`,
			now.Format(dbTimeLayout), recordID, ip); err != nil {
			return false, err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE work_records SET views = views + 1 WHERE id = ?`, recordID); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	committed = true
	return true, nil
}

// ToggleLike flips the like state of the record for the given IP and
// adjusts the counter accordingly.  Returns the resulting liked state.
func (r *WorkRecordRepo) ToggleLike(ctx context.Context, recordID uint64, ip string) (bool, error) {
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
	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM work_record_likes WHERE work_record_id = ? AND ip = ? FOR UPDATE`,
		recordID, ip).Scan(&exists)
	liked := false
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO work_record_likes (work_record_id, ip) VALUES (?, ?)`, recordID, ip); err != nil {
			return false, err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE work_records SET likes = likes + 1 WHERE id = ?`, recordID); err != nil {
			return false, err
		}
		liked = true
	case err != nil:
		return false, err
	default:
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM work_record_likes WHERE work_record_id = ? AND ip = ?`, recordID, ip); err != nil {
			return false, err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE work_records SET likes = likes - 1 WHERE id = ? AND likes > 0`, recordID); err != nil {
			return false, err
		}
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	committed = true
	return liked, nil
}

// AddImage attaches an uploaded image to a record.
func (r *WorkRecordRepo) AddImage(ctx context.Context, img *model.WorkImage) error {
	const q = `INSERT INTO work_images (work_record_id, url, storage_path, sort_order) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, img.WorkRecordID, img.URL, img.StoragePath, img.SortOrder)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	img.ID = uint64(id)
	return nil
}

// Images lists a record's images in display order.
func (r *WorkRecordRepo) Images(ctx context.Context, recordID uint64) ([]*model.WorkImage, error) {
	const q = `SELECT id, work_record_id, url, storage_path, sort_order, created_at
	           FROM work_images WHERE work_record_id = ? ORDER BY sort_order, id`
	rows, err := r.db.QueryContext(ctx, q, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*model.WorkImage, 0)
	for rows.Next() {
		var img model.WorkImage
		if err := rows.Scan(&img.ID, &img.WorkRecordID, &img.URL, &img.StoragePath, &img.SortOrder, &img.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &img)
	}
	return items, rows.Err()
}

// PurgeStaleViews trims view-dedup rows older than the retention window.
// The dedup contract only needs 24 hours of history.
func (r *WorkRecordRepo) PurgeStaleViews(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).Format(dbTimeLayout)
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM work_record_views WHERE viewed_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
