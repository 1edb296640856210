package usecase

import (
	"coworking-booking/internal/data/entity"
	"coworking-booking/internal/data/repository"
	"coworking-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Space   SpaceService
	Booking BookingService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	catalog := entity.NewCatalog(
		entity.SpaceRates{
			TotalSpace:         config.Spaces.Coworking.TotalSpace,
			PricePerSeatHour:   config.Spaces.Coworking.PricePerSeatHour,
			WholeSpaceDiscount: config.Spaces.Coworking.WholeSpaceDiscount,
		},
		entity.SpaceRates{
			TotalSpace:         config.Spaces.Conference.TotalSpace,
			PricePerSeatHour:   config.Spaces.Conference.PricePerSeatHour,
			WholeSpaceDiscount: config.Spaces.Conference.WholeSpaceDiscount,
		},
	)

	return &Service{
		Space:   NewSpaceService(repo, catalog, log),
		Booking: NewBookingService(repo, catalog, config.Booking, log),
	}
}
