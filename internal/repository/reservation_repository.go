package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/Wellstation/wellstation-sub000/internal/model"
	"github.com/Wellstation/wellstation-sub000/internal/schedule"
)

const dbTimeLayout = "2006-01-02 15:04:05"

// ReservationRepo provides CRUD operations for reservations.  Booking
// runs inside a transaction that locks the buffer window with
// SELECT ... FOR UPDATE before inserting, so two concurrent requests for
// overlapping slots serialize at the store instead of racing past an
// application-level pre-check.  The uq_active_slot unique index (built on
// a generated column that is NULL for cancelled rows) remains the
// last-resort guard; a duplicate-key error from it is mapped to
// schedule.ErrSlotTaken and treated as authoritative.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for callers that need to open their
// own transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationColumns = `id, uid, category, customer_name, phone, scheduled_at, status,
       car_model, car_vin, car_info, request, work_done, next_inspection_at,
       admin_memo, cancel_reason, created_at, cancelled_at`

// scanReservation reads one row in reservationColumns order.  It works
// for both *sql.Row and *sql.Rows through the scanner interface.
func scanReservation(sc interface{ Scan(...any) error }) (*model.Reservation, error) {
	var res model.Reservation
	var carModel, carVIN, carInfo, request, workDone, adminMemo, cancelReason sql.NullString
	var nextInspection, cancelledAt sql.NullTime
	err := sc.Scan(
		&res.ID, &res.UID, &res.Category, &res.CustomerName, &res.Phone, &res.ScheduledAt, &res.Status,
		&carModel, &carVIN, &carInfo, &request, &workDone, &nextInspection,
		&adminMemo, &cancelReason, &res.CreatedAt, &cancelledAt,
	)
	if err != nil {
		return nil, err
	}
	res.CarModel = optString(carModel)
	res.CarVIN = optString(carVIN)
	res.CarInfo = optString(carInfo)
	res.Request = optString(request)
	res.WorkDone = optString(workDone)
	res.AdminMemo = optString(adminMemo)
	res.CancelReason = optString(cancelReason)
	if nextInspection.Valid {
		t := nextInspection.Time
		res.NextInspectionAt = &t
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		res.CancelledAt = &t
	}
	return &res, nil
}

func optString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// CreateIfFree inserts a reservation provided no active reservation of
// the same category falls within the inclusive buffer window around the
// requested time.  The window check and the insert run in one
// transaction; the window rows are locked FOR UPDATE so concurrent
// bookings for overlapping windows serialize.  On conflict it returns
// schedule.ErrSlotTaken.  On success the record's ID, UID and CreatedAt
// are populated.
func (r *ReservationRepo) CreateIfFree(ctx context.Context, res *model.Reservation, buffer time.Duration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	lo := res.ScheduledAt.Add(-buffer)
	hi := res.ScheduledAt.Add(buffer)
	const lockQ = `SELECT id FROM reservations
	               WHERE category = ? AND status <> 'CANCELLED'
	                 AND scheduled_at BETWEEN ? AND ?
	               FOR UPDATE`
	rows, err := tx.QueryContext(ctx, lockQ, res.Category,
		lo.Format(dbTimeLayout), hi.Format(dbTimeLayout))
	if err != nil {
		return err
	}
	conflict := rows.Next()
	if err := rows.Close(); err != nil {
		return err
	}
	if conflict {
		return schedule.ErrSlotTaken
	}

	if res.UID == "" {
		res.UID = uuid.New().String()
	}
	const ins = `INSERT INTO reservations
	             (uid, category, customer_name, phone, scheduled_at, status,
	              car_model, car_vin, car_info, request)
	             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, ins,
		res.UID, res.Category, res.CustomerName, res.Phone,
		res.ScheduledAt.Format(dbTimeLayout), model.StatusReserved,
		res.CarModel, res.CarVIN, res.CarInfo, res.Request,
	)
	if err != nil {
		// The unique index on the active slot key is the final authority
		// for "slot taken" under concurrency.
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return schedule.ErrSlotTaken
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	res.Status = model.StatusReserved

	if err := tx.QueryRowContext(ctx, `SELECT created_at FROM reservations WHERE id = ?`, res.ID).
		Scan(&res.CreatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// BookedTimes returns the scheduled times of all active reservations of
// a category within [from, to).  Used by the availability query; the
// status filter excludes cancelled rows so freed slots become bookable
// again.
func (r *ReservationRepo) BookedTimes(ctx context.Context, category model.ServiceCategory, from, to time.Time) ([]time.Time, error) {
	const q = `SELECT scheduled_at FROM reservations
	           WHERE category = ? AND status <> 'CANCELLED'
	             AND scheduled_at >= ? AND scheduled_at < ?
	           ORDER BY scheduled_at`
	rows, err := r.db.QueryContext(ctx, q, category,
		from.Format(dbTimeLayout), to.Format(dbTimeLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	times := make([]time.Time, 0)
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

// GetByUID fetches a single reservation by its public UID.  Returns
// ErrNotFound when no such reservation exists.
func (r *ReservationRepo) GetByUID(ctx context.Context, uid string) (*model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE uid = ?`, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return res, err
}

// ListByPhone returns all reservations made with the given phone number,
// newest first.  Customers look up their history after verifying the
// phone, so no further ownership check is needed.
func (r *ReservationRepo) ListByPhone(ctx context.Context, phone string) ([]*model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE phone = ? ORDER BY scheduled_at DESC`, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// ListFilter narrows the admin reservation listing.  Nil/empty fields
// are ignored.  Search matches customer name or phone case-insensitively
// as a substring.
type ListFilter struct {
	Category *model.ServiceCategory
	Status   *string
	From     *time.Time
	To       *time.Time
	Search   string
	Limit    int
	Offset   int
}

// List returns reservations matching the filter, newest scheduled first.
func (r *ReservationRepo) List(ctx context.Context, f ListFilter) ([]*model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE 1=1`
	args := make([]any, 0, 6)
	if f.Category != nil {
		q += ` AND category = ?`
		args = append(args, *f.Category)
	}
	if f.Status != nil {
		q += ` AND status = ?`
		args = append(args, *f.Status)
	}
	if f.From != nil {
		q += ` AND scheduled_at >= ?`
		args = append(args, f.From.Format(dbTimeLayout))
	}
	if f.To != nil {
		q += ` AND scheduled_at < ?`
		args = append(args, f.To.Format(dbTimeLayout))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q += ` AND (LOWER(customer_name) LIKE ? OR phone LIKE ?)`
		pat := "%" + strings.ToLower(s) + "%"
		args = append(args, pat, pat)
	}
	q += ` ORDER BY scheduled_at DESC`
	if f.Limit > 0 {
		q += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func collectReservations(rows *sql.Rows) ([]*model.Reservation, error) {
	items := make([]*model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, res)
	}
	return items, rows.Err()
}

// MarkVisited transitions a reservation to VISITED and records the
// post-visit fields.  Only RESERVED rows can transition; anything else
// yields ErrNotFound so callers cannot resurrect a cancelled booking.
func (r *ReservationRepo) MarkVisited(ctx context.Context, id uint64, workDone *string, nextInspectionAt *time.Time, adminMemo *string) error {
	var next any
	if nextInspectionAt != nil {
		next = nextInspectionAt.Format(dbTimeLayout)
	}
	const q = `UPDATE reservations
	           SET status = 'VISITED', work_done = ?, next_inspection_at = ?, admin_memo = ?
	           WHERE id = ? AND status = 'RESERVED'`
	result, err := r.db.ExecContext(ctx, q, workDone, next, adminMemo, id)
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

// Cancel soft-deletes a reservation: status becomes CANCELLED and the
// cancellation timestamp and optional reason are recorded.  The row is
// kept for audit history; the generated active_slot_key column nulls out
// so the slot becomes bookable again.  Returns the updated reservation,
// or ErrNotFound when the UID does not match an active RESERVED row.
func (r *ReservationRepo) Cancel(ctx context.Context, uid string, reason *string) (*model.Reservation, error) {
	const q = `UPDATE reservations
	           SET status = 'CANCELLED', cancel_reason = ?, cancelled_at = ?
	           WHERE uid = ? AND status = 'RESERVED'`
	result, err := r.db.ExecContext(ctx, q, reason, time.Now().Format(dbTimeLayout), uid)
	if err != nil {
		return nil, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return r.GetByUID(ctx, uid)
}
