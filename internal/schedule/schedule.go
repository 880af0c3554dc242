// Package schedule implements the time-slot availability engine.  Given a
// category's operating hours, slot interval and buffer size it generates
// the bookable slots for a calendar date and validates a requested slot
// against existing bookings.  Every booked reservation excludes the
// symmetric window [t-buffer, t+buffer] around it, where
// buffer = BufferSlots * Interval.  All comparisons use whole-instant
// precision in the deployment's local wall clock; no timezone conversion
// is performed here.
package schedule

import (
	"errors"
	"fmt"
	"iter"
	"time"
)

// Sentinel errors surfaced to handlers.  ErrPastSlot and ErrSlotTaken map
// to distinct user-facing messages; everything else is a generic failure.
var (
	ErrPastSlot  = errors.New("past time slot")
	ErrSlotTaken = errors.New("slot already taken")
)

// TimeOfDay is a wall-clock time expressed as minutes from midnight.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" (24-hour) into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return TimeOfDay(h*60 + m), nil
}

// String renders the time of day as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// On anchors the time of day onto the given calendar date, preserving the
// date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), int(t)/60, int(t)%60, 0, 0, date.Location())
}

// Schedule holds the scheduling parameters of one service category.
// Values come from the service_settings table with documented defaults
// applied when rows are absent.
type Schedule struct {
	Start       TimeOfDay     // first bookable time of day
	End         TimeOfDay     // end of operating hours (exclusive)
	Interval    time.Duration // spacing between candidate slots
	BufferSlots int           // exclusion window size in slot units
}

// Validate enforces the setting invariants: a positive interval, start
// strictly before end and a non-negative buffer.
func (s Schedule) Validate() error {
	if s.Interval <= 0 {
		return errors.New("interval must be positive")
	}
	if s.Start >= s.End {
		return errors.New("start time must be before end time")
	}
	if s.BufferSlots < 0 {
		return errors.New("buffer slots must not be negative")
	}
	return nil
}

// Buffer is the symmetric exclusion radius around a booked reservation.
func (s Schedule) Buffer() time.Duration {
	return time.Duration(s.BufferSlots) * s.Interval
}

// Window returns the inclusive exclusion window [at-buffer, at+buffer]
// that a reservation at the given time occupies.
func (s Schedule) Window(at time.Time) (time.Time, time.Time) {
	return at.Add(-s.Buffer()), at.Add(s.Buffer())
}

// Slots yields the candidate slot timestamps for the given calendar date:
// starting at date+Start and stepping by Interval while strictly before
// date+End.  The sequence is lazy and restartable; ranging over it twice
// produces the same timestamps.
func (s Schedule) Slots(date time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		end := s.End.On(date)
		for t := s.Start.On(date); t.Before(end); t = t.Add(s.Interval) {
			if !yield(t) {
				return
			}
		}
	}
}

// Aligned reports whether at falls exactly on the slot grid of its
// calendar date: at or after Start, strictly before End, and an exact
// multiple of Interval from Start.
func (s Schedule) Aligned(at time.Time) bool {
	start := s.Start.On(at)
	if at.Before(start) || !at.Before(s.End.On(at)) {
		return false
	}
	return at.Sub(start)%s.Interval == 0
}

// Available computes the ordered list of bookable slots for a date.  A
// candidate is dropped when it conflicts with any booked time (symmetric
// inclusive buffer window) or when it is at or before now.  The booked
// slice should contain active reservations only; cancelled ones must be
// filtered out by the caller.
func (s Schedule) Available(date time.Time, booked []time.Time, now time.Time) []time.Time {
	open := make([]time.Time, 0)
	for t := range s.Slots(date) {
		if !t.After(now) {
			continue
		}
		if s.conflicts(t, booked) {
			continue
		}
		open = append(open, t)
	}
	return open
}

// CheckSlot validates a requested reservation time at booking time.  It
// returns ErrPastSlot when the time is not strictly in the future and
// ErrSlotTaken when an active booking falls inside the buffer window.
// This check is best-effort user feedback; the store-level guard in the
// reservation repository is authoritative under concurrency.
func (s Schedule) CheckSlot(at time.Time, booked []time.Time, now time.Time) error {
	if !at.After(now) {
		return ErrPastSlot
	}
	if s.conflicts(at, booked) {
		return ErrSlotTaken
	}
	return nil
}

// conflicts reports whether any booked time falls within the inclusive
// window [t-buffer, t+buffer].
func (s Schedule) conflicts(t time.Time, booked []time.Time) bool {
	lo, hi := s.Window(t)
	for _, b := range booked {
		if !b.Before(lo) && !b.After(hi) {
			return true
		}
	}
	return false
}
