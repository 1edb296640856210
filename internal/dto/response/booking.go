package response

import (
	"time"

	"coworking-booking/internal/data/entity"
)

type BookingResponse struct {
	ID            string               `json:"id"`
	BookingRef    string               `json:"booking_ref"`
	UserID        string               `json:"user_id"`
	SpaceType     entity.SpaceType     `json:"space_type"`
	StartAt       time.Time            `json:"start_at"`
	EndAt         time.Time            `json:"end_at"`
	DurationHours int                  `json:"duration_hours"`
	SeatCount     int                  `json:"seat_count"`
	WholeSpace    bool                 `json:"whole_space"`
	Amount        float64              `json:"amount"`
	Status        entity.BookingStatus `json:"status"`
	CheckInAt     *time.Time           `json:"check_in_at,omitempty"`
	CheckOutAt    *time.Time           `json:"check_out_at,omitempty"`
	ExtraHours    int                  `json:"extra_hours,omitempty"`
	ExtraAmount   float64              `json:"extra_amount,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID.String(),
		BookingRef:    b.BookingRef,
		UserID:        b.UserID.String(),
		SpaceType:     b.SpaceType,
		StartAt:       b.StartAt,
		EndAt:         b.EndAt,
		DurationHours: b.DurationHours,
		SeatCount:     b.SeatCount,
		WholeSpace:    b.WholeSpace,
		Amount:        b.Amount,
		Status:        b.Status,
		CheckInAt:     b.CheckInAt,
		CheckOutAt:    b.CheckOutAt,
		ExtraHours:    b.ExtraHours,
		ExtraAmount:   b.ExtraAmount,
		CreatedAt:     b.CreatedAt,
	}
}

// TimeStatusResponse mirrors the dashboard countdown: remaining time while
// the booked duration lasts, accumulating extra time once it is exceeded.
type TimeStatusResponse struct {
	BookingRef       string               `json:"booking_ref"`
	Status           entity.BookingStatus `json:"status"`
	CheckedIn        bool                 `json:"checked_in"`
	RemainingSeconds int64                `json:"remaining_seconds"`
	ExtraSeconds     int64                `json:"extra_seconds"`
	ExtraAmountDue   float64              `json:"extra_amount_due"`
}
