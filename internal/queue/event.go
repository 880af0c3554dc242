// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types carried by ReservationEvent.
const (
	EventConfirmed = "confirmed"
	EventCancelled = "cancelled"
)

// QueueName is the durable queue carrying reservation lifecycle events.
const QueueName = "reservation.events"

// ReservationEvent is published when a reservation is created or cancelled.
// It carries enough context for the notification consumer to message the
// customer without querying the primary database.
type ReservationEvent struct {
	Type        string `json:"type"` // confirmed | cancelled
	UID         string `json:"uid"`
	Category    string `json:"category"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	ScheduledAt string `json:"scheduled_at"` // "2006-01-02 15:04" local wall clock
	Reason      string `json:"reason,omitempty"`
	OccurredAt  string `json:"occurred_at"`
}
