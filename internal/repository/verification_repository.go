package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Wellstation/wellstation-sub000/internal/model"
)

// VerificationRepo manages phone verification codes.  A code is usable
// exactly once: Consume marks the row used in the same UPDATE that
// checks expiry and the used flag, so a replayed (phone, code) pair can
// never pass twice even under concurrent verification attempts.
type VerificationRepo struct {
	db *sql.DB
}

// NewVerificationRepo returns a new VerificationRepo bound to the given database.
func NewVerificationRepo(db *sql.DB) *VerificationRepo { return &VerificationRepo{db: db} }

// Create stores a freshly generated code with its expiry.
func (r *VerificationRepo) Create(ctx context.Context, v *model.PhoneVerification) error {
	const q = `INSERT INTO phone_verifications (phone, code, expires_at) VALUES (?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, v.Phone, v.Code, v.ExpiresAt.Format(dbTimeLayout))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// Consume atomically marks a matching, unexpired, unused code as used.
// The single UPDATE is both the check and the state change; zero
// affected rows means the code is wrong, expired or already consumed,
// reported uniformly as ErrCodeInvalid.
func (r *VerificationRepo) Consume(ctx context.Context, phone, code string) error {
	const q = `UPDATE phone_verifications
	           SET used = 1
	           WHERE phone = ? AND code = ? AND used = 0 AND expires_at > ?`
	result, err := r.db.ExecContext(ctx, q, phone, code, time.Now().Format(dbTimeLayout))
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCodeInvalid
	}
	return nil
}

// HasVerified reports whether the phone consumed a code within the
// given freshness window.  Booking requires a verification no older
// than the window so a stale confirmation cannot be reused for weeks.
func (r *VerificationRepo) HasVerified(ctx context.Context, phone string, within time.Duration) (bool, error) {
	const q = `SELECT COUNT(*) FROM phone_verifications
	           WHERE phone = ? AND used = 1 AND created_at > ?`
	var n int64
	cutoff := time.Now().Add(-within)
	if err := r.db.QueryRowContext(ctx, q, phone, cutoff.Format(dbTimeLayout)).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// PurgeExpired deletes codes whose expiry passed more than the retention
// period ago.  Called from the hourly cron job; used rows inside the
// retention window are kept so HasVerified still sees them.
func (r *VerificationRepo) PurgeExpired(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM phone_verifications WHERE expires_at < ?`, cutoff.Format(dbTimeLayout))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
