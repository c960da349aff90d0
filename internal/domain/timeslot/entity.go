package timeslot

import (
	"time"

	"github.com/google/uuid"
)

// TimeSlot represents a bounded-capacity reservable window for a service.
// CurrentBookings is derived from time_slot_bookings rows, never stored.
type TimeSlot struct {
	ID              uuid.UUID `db:"id"`
	ServiceID       uuid.UUID `db:"service_id"`
	Date            time.Time `db:"date"`
	StartTime       string    `db:"start_time"`
	EndTime         string    `db:"end_time"`
	MaxCapacity     int       `db:"max_capacity"`
	CurrentBookings int       `db:"current_bookings"`
	CreatedAt       time.Time `db:"created_at"`
}

// IsFull returns true if the slot has no remaining capacity
func (s *TimeSlot) IsFull() bool {
	return s.CurrentBookings >= s.MaxCapacity
}

// Remaining returns the number of free capacity units
func (s *TimeSlot) Remaining() int {
	if s.CurrentBookings >= s.MaxCapacity {
		return 0
	}
	return s.MaxCapacity - s.CurrentBookings
}
