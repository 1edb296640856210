package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusActive     BookingStatus = "active"
	BookingStatusInProgress BookingStatus = "in-progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// Booking is one reservation's claim on a space for a half-open window
// [StartAt, EndAt). SeatCount always carries the real claim: for a
// whole-space booking it equals the type's total capacity.
type Booking struct {
	Base
	BookingRef      string        `db:"booking_ref"`
	UserID          uuid.UUID     `db:"user_id"`
	SpaceType       SpaceType     `db:"space_type"`
	StartAt         time.Time     `db:"start_at"`
	EndAt           time.Time     `db:"end_at"`
	DurationHours   int           `db:"duration_hours"`
	SeatCount       int           `db:"seat_count"`
	WholeSpace      bool          `db:"whole_space"`
	Amount          float64       `db:"amount"`
	Status          BookingStatus `db:"status"`
	CheckInAt       *time.Time    `db:"check_in_at"`
	CheckOutAt      *time.Time    `db:"check_out_at"`
	ExtraHours      int           `db:"extra_hours"`
	ExtraAmount     float64       `db:"extra_amount"`
	ExtraPaymentRef *string       `db:"extra_payment_ref"`
}

// CountsAgainstCapacity reports whether this booking currently holds seats.
func (b *Booking) CountsAgainstCapacity() bool {
	return b.Status == BookingStatusActive || b.Status == BookingStatusInProgress
}

// Terminal reports whether the booking reached a final state.
func (b *Booking) Terminal() bool {
	return b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled
}

// CanCancel reports whether a user cancellation is still allowed: only an
// active booking that was never checked in.
func (b *Booking) CanCancel() bool {
	return b.Status == BookingStatusActive && b.CheckInAt == nil
}
