package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/Wellstation/wellstation-sub000/internal/model"
	"github.com/Wellstation/wellstation-sub000/internal/utils"
)

// AdminRepo manages back-office accounts and their refresh tokens.  Only
// SHA-256 hashes of refresh tokens are stored; the raw token never
// touches the database.
type AdminRepo struct {
	db *sql.DB
}

// NewAdminRepo returns a new AdminRepo bound to the given database.
func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{db: db} }

// Create registers an admin with a bcrypt-hashed password.  Returns
// ErrEmailExists when the email is already taken.
func (r *AdminRepo) Create(ctx context.Context, email, password string, bcryptCost int) (uint64, error) {
	hash, err := utils.HashPassword(password, bcryptCost)
	if err != nil {
		return 0, err
	}
	const q = `INSERT INTO admins (email, password_hash, role) VALUES (?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, email, hash, model.RoleAdmin)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches an admin by email; sql.ErrNoRows passes through so
// handlers can answer with a uniform invalid-credentials message.
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	const q = `SELECT id, email, password_hash, role, created_at FROM admins WHERE email = ?`
	var a model.Admin
	err := r.db.QueryRowContext(ctx, q, email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// StoreRefresh persists a hashed refresh token with its expiry.
func (r *AdminRepo) StoreRefresh(ctx context.Context, adminID uint64, tokenHash string, expiresAt time.Time) error {
	const q = `INSERT INTO refresh_tokens (admin_id, token_hash, expires_at) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, adminID, tokenHash, expiresAt.Format(dbTimeLayout))
	return err
}

// ConsumeRefresh looks up an unexpired refresh token by hash, deletes it
// (rotation) and returns the owning admin.  ErrNotFound covers unknown
// and expired tokens alike.
func (r *AdminRepo) ConsumeRefresh(ctx context.Context, tokenHash string) (*model.Admin, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const sel = `SELECT a.id, a.email, a.password_hash, a.role, a.created_at
	             FROM refresh_tokens t
	             JOIN admins a ON a.id = t.admin_id
	             WHERE t.token_hash = ? AND t.expires_at > ?
	             FOR UPDATE`
	var a model.Admin
	err = tx.QueryRowContext(ctx, sel, tokenHash, time.Now().Format(dbTimeLayout)).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token_hash = ?`, tokenHash); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &a, nil
}

// PurgeExpiredTokens drops refresh tokens past their expiry.
func (r *AdminRepo) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at <= ?`, time.Now().Format(dbTimeLayout))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
