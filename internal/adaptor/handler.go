package adaptor

import (
	"coworking-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Space   *SpaceHandler
	Booking *BookingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Space:   NewSpaceHandler(service.Space, log),
		Booking: NewBookingHandler(service.Booking, log),
	}
}
