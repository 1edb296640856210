package request

import (
	"fmt"
	"time"

	"coworking-booking/pkg/utils"
)

// CreateBookingRequest accepts the window either as two instants (RFC3339
// or epoch milliseconds) or as the original form fields: date, start_time
// and duration_hours.
type CreateBookingRequest struct {
	SpaceType      string        `json:"space_type" validate:"required,oneof=Co-working Conference"`
	Start          utils.Instant `json:"start"`
	End            utils.Instant `json:"end"`
	Date           string        `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime      string        `json:"start_time" validate:"omitempty,datetime=15:04"`
	DurationHours  int           `json:"duration_hours" validate:"omitempty,min=1,max=8"`
	NumberOfSeats  int           `json:"number_of_seats" validate:"omitempty,min=1"`
	BookWholeSpace bool          `json:"book_whole_space"`
	Location       string        `json:"location"`
}

// Window resolves the requested [start, end) window from whichever
// representation the caller used.
func (r *CreateBookingRequest) Window() (time.Time, time.Time, error) {
	if !r.Start.IsZero() && !r.End.IsZero() {
		return r.Start.Time, r.End.Time, nil
	}

	if r.Date != "" && r.StartTime != "" && r.DurationHours > 0 {
		start, err := utils.CombineDateTime(r.Date, r.StartTime)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return start, start.Add(time.Duration(r.DurationHours) * time.Hour), nil
	}

	return time.Time{}, time.Time{}, fmt.Errorf("booking window missing: provide start/end or date, start_time and duration_hours")
}

type CheckOutRequest struct {
	// Reference of the settled extra-time payment. Required whenever the
	// checkout owes extra hours.
	ExtraPaymentRef string `json:"extra_payment_ref" validate:"omitempty,min=4"`
}
