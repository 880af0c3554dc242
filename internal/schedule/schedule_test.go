package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTOD(t *testing.T, s string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func at(date time.Time, hhmm string) time.Time {
	tod, _ := ParseTimeOfDay(hhmm)
	return tod.On(date)
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay(9*60+30), tod)
	assert.Equal(t, "09:30", tod.String())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
	_, err = ParseTimeOfDay("nonsense")
	assert.Error(t, err)
	_, err = ParseTimeOfDay("10:61")
	assert.Error(t, err)
}

func TestScheduleValidate(t *testing.T) {
	good := Schedule{Start: mustTOD(t, "09:00"), End: mustTOD(t, "18:00"), Interval: 30 * time.Minute, BufferSlots: 1}
	assert.NoError(t, good.Validate())

	bad := good
	bad.Interval = 0
	assert.Error(t, bad.Validate())

	bad = good
	bad.Start, bad.End = bad.End, bad.Start
	assert.Error(t, bad.Validate())

	bad = good
	bad.BufferSlots = -1
	assert.Error(t, bad.Validate())
}

func TestSlotsGeneration(t *testing.T) {
	s := Schedule{Start: mustTOD(t, "09:00"), End: mustTOD(t, "11:00"), Interval: 30 * time.Minute, BufferSlots: 1}
	date := day(2030, time.March, 4)

	var got []time.Time
	for slot := range s.Slots(date) {
		got = append(got, slot)
	}
	want := []time.Time{at(date, "09:00"), at(date, "09:30"), at(date, "10:00"), at(date, "10:30")}
	assert.Equal(t, want, got, "end time is exclusive")

	// The sequence is restartable: a second pass yields the same slots.
	var again []time.Time
	for slot := range s.Slots(date) {
		again = append(again, slot)
	}
	assert.Equal(t, got, again)
}

func TestAvailableNoBookings(t *testing.T) {
	s := Schedule{Start: mustTOD(t, "09:00"), End: mustTOD(t, "11:00"), Interval: 30 * time.Minute, BufferSlots: 1}
	date := day(2030, time.March, 4)
	now := day(2029, time.December, 31)

	open := s.Available(date, nil, now)
	want := []time.Time{at(date, "09:00"), at(date, "09:30"), at(date, "10:00"), at(date, "10:30")}
	assert.Equal(t, want, open)
}

func TestAvailableDropsPastSlots(t *testing.T) {
	s := Schedule{Start: mustTOD(t, "09:00"), End: mustTOD(t, "11:00"), Interval: 30 * time.Minute, BufferSlots: 1}
	date := day(2030, time.March, 4)

	// At exactly 09:30 the 09:00 slot is past and the 09:30 slot is "same
	// moment", so both must be gone.
	now := at(date, "09:30")
	open := s.Available(date, nil, now)
	assert.Equal(t, []time.Time{at(date, "10:00"), at(date, "10:30")}, open)
}

func TestAvailableBufferExclusion(t *testing.T) {
	s := Schedule{Start: mustTOD(t, "09:00"), End: mustTOD(t, "12:00"), Interval: 30 * time.Minute, BufferSlots: 1}
	date := day(2030, time.March, 4)
	now := day(2029, time.December, 31)

	booked := []time.Time{at(date, "10:00")}
	open := s.Available(date, booked, now)

	// Buffer is ±30min: 09:30, 10:00 and 10:30 fall inside the window.
	want := []time.Time{at(date, "09:00"), at(date, "11:00"), at(date, "11:30")}
	assert.Equal(t, want, open)
}

func TestAvailableBufferIsInclusive(t *testing.T) {
	s := Schedule{Start: mustTOD(t, "09:00"), End: mustTOD(t, "12:00"), Interval: 30 * time.Minute, BufferSlots: 2}
	date := day(2030, time.March, 4)
	now := day(2029, time.December, 31)

	// Buffer radius is exactly 60min; a booking at 10:00 must exclude the
	// boundary slots 09:00 and 11:00 as well.
	booked := []time.Time{at(date, "10:00")}
	open := s.Available(date, booked, now)
	assert.Equal(t, []time.Time{at(date, "11:30")}, open)
}

func TestAvailableZeroBuffer(t *testing.T) {
	s := Schedule{Start: mustTOD(t, "09:00"), End: mustTOD(t, "10:30"), Interval: 30 * time.Minute, BufferSlots: 0}
	date := day(2030, time.March, 4)
	now := day(2029, time.December, 31)

	// With no buffer only the exact booked instant is excluded.
	booked := []time.Time{at(date, "09:30")}
	open := s.Available(date, booked, now)
	assert.Equal(t, []time.Time{at(date, "09:00"), at(date, "10:00")}, open)
}

func TestCheckSlotPastTime(t *testing.T) {
	s := Schedule{Start: mustTOD(t, "09:00"), End: mustTOD(t, "18:00"), Interval: 30 * time.Minute, BufferSlots: 1}
	date := day(2030, time.March, 4)
	now := at(date, "10:00")

	assert.ErrorIs(t, s.CheckSlot(at(date, "09:30"), nil, now), ErrPastSlot)
	// Same-moment bookings are rejected too.
	assert.ErrorIs(t, s.CheckSlot(now, nil, now), ErrPastSlot)
	assert.NoError(t, s.CheckSlot(at(date, "10:30"), nil, now))
}

func TestCheckSlotConflict(t *testing.T) {
	s := Schedule{Start: mustTOD(t, "09:00"), End: mustTOD(t, "18:00"), Interval: 30 * time.Minute, BufferSlots: 1}
	date := day(2030, time.March, 4)
	now := day(2029, time.December, 31)

	booked := []time.Time{at(date, "14:00")}
	assert.ErrorIs(t, s.CheckSlot(at(date, "13:30"), booked, now), ErrSlotTaken)
	assert.ErrorIs(t, s.CheckSlot(at(date, "14:00"), booked, now), ErrSlotTaken)
	assert.ErrorIs(t, s.CheckSlot(at(date, "14:30"), booked, now), ErrSlotTaken)
	assert.NoError(t, s.CheckSlot(at(date, "13:00"), booked, now))
	assert.NoError(t, s.CheckSlot(at(date, "15:00"), booked, now))
}

func TestBufferInvariantAcrossPairs(t *testing.T) {
	// Booking sequentially through CheckSlot never yields two active
	// bookings closer than the buffer.
	s := Schedule{Start: mustTOD(t, "09:00"), End: mustTOD(t, "18:00"), Interval: 30 * time.Minute, BufferSlots: 1}
	date := day(2030, time.March, 4)
	now := day(2029, time.December, 31)

	var booked []time.Time
	for slot := range s.Slots(date) {
		if s.CheckSlot(slot, booked, now) == nil {
			booked = append(booked, slot)
		}
	}
	require.NotEmpty(t, booked)
	buffer := s.Buffer()
	for i := range booked {
		for j := i + 1; j < len(booked); j++ {
			diff := booked[j].Sub(booked[i])
			if diff < 0 {
				diff = -diff
			}
			assert.Greater(t, diff, buffer)
		}
	}
}

func TestAligned(t *testing.T) {
	s := Schedule{Start: mustTOD(t, "09:00"), End: mustTOD(t, "11:00"), Interval: 30 * time.Minute, BufferSlots: 1}
	date := day(2030, time.March, 4)

	assert.True(t, s.Aligned(at(date, "09:00")))
	assert.True(t, s.Aligned(at(date, "10:30")))

	// off-grid, before opening, and the exclusive end
	assert.False(t, s.Aligned(at(date, "09:15")))
	assert.False(t, s.Aligned(at(date, "08:30")))
	assert.False(t, s.Aligned(at(date, "11:00")))
}

func TestWindowSymmetry(t *testing.T) {
	s := Schedule{Start: mustTOD(t, "09:00"), End: mustTOD(t, "18:00"), Interval: 20 * time.Minute, BufferSlots: 3}
	date := day(2030, time.March, 4)
	lo, hi := s.Window(at(date, "12:00"))
	assert.Equal(t, at(date, "11:00"), lo)
	assert.Equal(t, at(date, "13:00"), hi)
}
