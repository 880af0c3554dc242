package model

import "time"

// Reservation statuses.  A reservation is created as RESERVED and moves
// to VISITED once the customer showed up, or to CANCELLED when the
// customer or an administrator cancels it.  Cancellation is a soft state
// change: rows are never deleted so the audit history survives.
const (
	StatusReserved  = "RESERVED"
	StatusVisited   = "VISITED"
	StatusCancelled = "CANCELLED"
)

// Reservation records a customer's booking for a single service slot.
//
// Fields:
//  ID               – primary key identifier.
//  UID              – public UUID handed to the customer for lookups.
//  Category         – service line (REPAIR, TUNING, PARKING).
//  CustomerName     – customer display name.
//  Phone            – verified contact phone number.
//  ScheduledAt      – the booked slot timestamp (date + time).
//  Status           – RESERVED, VISITED or CANCELLED.
//  CarModel         – optional vehicle model.
//  CarVIN           – optional vehicle identification number.
//  CarInfo          – optional free-text vehicle description.
//  Request          – optional free-text customer request.
//  WorkDone         – work performed, filled after the visit.
//  NextInspectionAt – recommended next inspection date, if any.
//  AdminMemo        – internal note, never exposed to customers.
//  CancelReason     – reason supplied at cancellation, if any.
//  CreatedAt        – creation timestamp.
//  CancelledAt      – cancellation timestamp (nil while active).
type Reservation struct {
	ID               uint64          // reservations.id
	UID              string          // reservations.uid
	Category         ServiceCategory // reservations.category
	CustomerName     string          // reservations.customer_name
	Phone            string          // reservations.phone
	ScheduledAt      time.Time       // reservations.scheduled_at
	Status           string          // reservations.status
	CarModel         *string         // reservations.car_model (nullable)
	CarVIN           *string         // reservations.car_vin (nullable)
	CarInfo          *string         // reservations.car_info (nullable)
	Request          *string         // reservations.request (nullable)
	WorkDone         *string         // reservations.work_done (nullable)
	NextInspectionAt *time.Time      // reservations.next_inspection_at (nullable)
	AdminMemo        *string         // reservations.admin_memo (nullable)
	CancelReason     *string         // reservations.cancel_reason (nullable)
	CreatedAt        time.Time       // reservations.created_at
	CancelledAt      *time.Time      // reservations.cancelled_at (nullable)
}

// Active reports whether the reservation still occupies its slot.
func (r *Reservation) Active() bool { return r.Status != StatusCancelled }
