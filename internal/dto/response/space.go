package response

import (
	"time"

	"coworking-booking/internal/data/entity"
)

type AvailabilityResponse struct {
	SpaceType           entity.SpaceType `json:"space_type"`
	AvailableSeats      int              `json:"available_seats"`
	Capacity            int              `json:"capacity"`
	WholeSpaceAvailable bool             `json:"whole_space_available"`
	WindowStart         time.Time        `json:"window_start"`
	WindowEnd           time.Time        `json:"window_end"`
}

type SpaceStatsResponse struct {
	SpaceType      entity.SpaceType `json:"space_type"`
	AvailableSpace int              `json:"available_space"`
	BookedSpace    int              `json:"booked_space"`
	TotalSpace     int              `json:"total_space"`
	UpdatedAt      *time.Time       `json:"updated_at,omitempty"`
}
