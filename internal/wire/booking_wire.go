package wire

import (
	"coworking-booking/internal/adaptor"
	"coworking-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, log *zap.Logger) {
	// All booking routes require the identity headers set by the upstream
	// auth gateway.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity(log))

		// POST /api/booking - Create new booking
		r.Post("/api/booking", bookingHandler.CreateBooking)

		// GET /api/user/bookings - View booking history (user's own bookings)
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)

		r.Route("/api/booking/{ref}", func(r chi.Router) {
			// GET /api/booking/{ref} - View one booking
			r.Get("/", bookingHandler.GetBookingByRef)

			// GET /api/booking/{ref}/time - Countdown / extra-time status
			r.Get("/time", bookingHandler.GetTimeStatus)

			// POST /api/booking/{ref}/checkin - Start the stay
			r.Post("/checkin", bookingHandler.CheckIn)

			// POST /api/booking/{ref}/checkout - End the stay, settling extra time
			r.Post("/checkout", bookingHandler.CheckOut)

			// PUT /api/booking/{ref}/cancel - Cancel before check-in
			r.Put("/cancel", bookingHandler.CancelBooking)
		})
	})
}
