package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Wellstation/wellstation-sub000/internal/model"
)

// GalleryRepo stores the per-category marketing images.  Rows reference
// objects held in external storage; deleting a row does not remove the
// object, callers do that through the storage interface.
type GalleryRepo struct {
	db *sql.DB
}

// NewGalleryRepo returns a new GalleryRepo bound to the given database.
func NewGalleryRepo(db *sql.DB) *GalleryRepo { return &GalleryRepo{db: db} }

const galleryColumns = `id, category, url, storage_path, sort_order, is_active, created_at`

func scanGallery(sc interface{ Scan(...any) error }) (*model.GalleryImage, error) {
	var g model.GalleryImage
	err := sc.Scan(&g.ID, &g.Category, &g.URL, &g.StoragePath, &g.SortOrder, &g.Active, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Create inserts a gallery image and populates its ID.  New images are
// appended after the current maximum sort order of the category.
func (r *GalleryRepo) Create(ctx context.Context, g *model.GalleryImage) error {
	const q = `INSERT INTO gallery_images (category, url, storage_path, sort_order, is_active)
	           SELECT ?, ?, ?, COALESCE(MAX(sort_order), 0) + 1, ?
	           FROM gallery_images WHERE category = ?`
	result, err := r.db.ExecContext(ctx, q, g.Category, g.URL, g.StoragePath, g.Active, g.Category)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return nil
}

// List returns a category's images in display order.  When activeOnly is
// set, disabled images are skipped (the public endpoint); the admin
// listing passes false to see everything.
func (r *GalleryRepo) List(ctx context.Context, category model.ServiceCategory, activeOnly bool) ([]*model.GalleryImage, error) {
	q := `SELECT ` + galleryColumns + ` FROM gallery_images WHERE category = ?`
	if activeOnly {
		q += ` AND is_active = 1`
	}
	q += ` ORDER BY sort_order, id`
	rows, err := r.db.QueryContext(ctx, q, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*model.GalleryImage, 0)
	for rows.Next() {
		g, err := scanGallery(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

// GetByID fetches one image; ErrNotFound when absent.
func (r *GalleryRepo) GetByID(ctx context.Context, id uint64) (*model.GalleryImage, error) {
	g, err := scanGallery(r.db.QueryRowContext(ctx,
		`SELECT `+galleryColumns+` FROM gallery_images WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return g, err
}

// SetActive toggles an image's display flag.
func (r *GalleryRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE gallery_images SET is_active = ? WHERE id = ?`, active, id)
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

// SetOrder moves an image to the given sort position.
func (r *GalleryRepo) SetOrder(ctx context.Context, id uint64, order int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE gallery_images SET sort_order = ? WHERE id = ?`, order, id)
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

// Delete removes a gallery row; the stored object must be removed
// separately by the caller.
func (r *GalleryRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM gallery_images WHERE id = ?`, id)
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
