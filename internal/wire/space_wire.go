package wire

import (
	"coworking-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireSpace(r chi.Router, spaceHandler *adaptor.SpaceHandler) {
	// Availability is public: the booking form shows it before login.
	r.Get("/api/spaces/availability", spaceHandler.GetAvailability)
	r.Get("/api/spaces/stats", spaceHandler.GetStats)
	r.Get("/api/spaces/counters", spaceHandler.GetCounters)
}
