package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"coworking-booking/internal/data/entity"
	"coworking-booking/internal/data/repository"
	"coworking-booking/internal/dto/request"
	"coworking-booking/internal/dto/response"
	"coworking-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RoleAdmin = "admin"

type BookingService interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBookingByRef(ctx context.Context, userID uuid.UUID, role, ref string) (*response.BookingResponse, error)

	// TimeStatus reports the countdown for an ongoing booking: remaining
	// booked time, or accumulated extra time once the booked window ran out.
	TimeStatus(ctx context.Context, userID uuid.UUID, role, ref string) (*response.TimeStatusResponse, error)

	CheckIn(ctx context.Context, userID uuid.UUID, role, ref string) (*response.BookingResponse, error)
	CheckOut(ctx context.Context, userID uuid.UUID, role, ref string, req *request.CheckOutRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, userID uuid.UUID, role, ref string) (*response.BookingResponse, error)
}

type bookingService struct {
	repo    *repository.Repository
	catalog *entity.Catalog
	rules   utils.BookingConfig
	log     *zap.Logger
	nowFn   func() time.Time
}

func NewBookingService(repo *repository.Repository, catalog *entity.Catalog, rules utils.BookingConfig, log *zap.Logger) BookingService {
	return &bookingService{
		repo:    repo,
		catalog: catalog,
		rules:   rules,
		log:     log.With(zap.String("service", "booking")),
		nowFn:   time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	spaceType, err := entity.ParseSpaceType(req.SpaceType)
	if err != nil {
		return nil, denyInvalidWindow(err.Error())
	}

	start, end, err := req.Window()
	if err != nil {
		return nil, denyInvalidWindow(err.Error())
	}

	now := s.nowFn()
	if start.Before(now) {
		return nil, denyInvalidWindow("booking window starts in the past")
	}
	if !utils.WithinBusinessHours(start, end, s.rules.OpenHour, s.rules.CloseHour) {
		return nil, denyInvalidWindow(fmt.Sprintf(
			"booking window must fall between %02d:00 and %02d:00 of one day",
			s.rules.OpenHour, s.rules.CloseHour,
		))
	}

	window := end.Sub(start)
	durationHours := int(window / time.Hour)
	if window != time.Duration(durationHours)*time.Hour || durationHours < 1 {
		return nil, denyInvalidWindow("booking duration must be a whole number of hours")
	}

	capacity, err := s.catalog.Capacity(spaceType)
	if err != nil {
		return nil, err
	}

	seats := req.NumberOfSeats
	if req.BookWholeSpace {
		// A whole-space booking claims every seat so the capacity sum stays
		// honest in both SQL and Go.
		seats = capacity
	}
	if seats < 1 {
		return nil, denyInvalidWindow("number_of_seats is required unless booking the whole space")
	}
	if seats > capacity {
		return nil, denyInsufficientCapacity(fmt.Sprintf(
			"%s has only %d seats", spaceType, capacity,
		))
	}

	amount, err := s.catalog.Price(spaceType, seats, req.BookWholeSpace, durationHours)
	if err != nil {
		return nil, err
	}
	amount = math.Round(amount*100) / 100

	booking := &entity.Booking{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:        userID,
		SpaceType:     spaceType,
		StartAt:       start,
		EndAt:         end,
		DurationHours: durationHours,
		SeatCount:     seats,
		WholeSpace:    req.BookWholeSpace,
		Amount:        amount,
		Status:        entity.BookingStatusActive,
	}

	err = s.repo.Booking.TryBook(ctx, booking, capacity)
	switch {
	case errors.Is(err, repository.ErrInsufficientCapacity):
		return nil, denyInsufficientCapacity(fmt.Sprintf(
			"not enough free seats in %s for the requested window", spaceType,
		))
	case errors.Is(err, repository.ErrTxConflict):
		return nil, ErrStoreConflict
	case err != nil:
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("space_type", string(spaceType)),
		)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_ref", booking.BookingRef),
		zap.String("space_type", string(spaceType)),
		zap.Int("seat_count", seats),
		zap.Bool("whole_space", booking.WholeSpace),
		zap.Float64("amount", amount),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindByUserID(ctx, userID, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	items := make([]response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, response.BookingToResponse(b))
	}

	return response.NewPaginatedResponse(items, page.Page, page.Limit(), total), nil
}

// findOwned loads a booking by reference and enforces ownership. Admins may
// operate on any booking.
func (s *bookingService) findOwned(ctx context.Context, userID uuid.UUID, role, ref string) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrNotFound
	}
	if booking.UserID != userID && role != RoleAdmin {
		return nil, ErrForbidden
	}
	return booking, nil
}

func (s *bookingService) GetBookingByRef(ctx context.Context, userID uuid.UUID, role, ref string) (*response.BookingResponse, error) {
	booking, err := s.findOwned(ctx, userID, role, ref)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// extraTime computes billable overtime at the given instant. The booked
// duration runs from check-in; overruns inside the grace period cost nothing,
// beyond it every started hour is billed at the space's seat-hour rate.
func (s *bookingService) extraTime(b *entity.Booking, now time.Time) (int, float64, error) {
	if b.CheckInAt == nil {
		return 0, 0, nil
	}

	deadline := b.CheckInAt.Add(time.Duration(b.DurationHours) * time.Hour)
	over := now.Sub(deadline)
	if over <= time.Duration(s.rules.GraceMinutes)*time.Minute {
		return 0, 0, nil
	}

	rates, err := s.catalog.Rates(b.SpaceType)
	if err != nil {
		return 0, 0, err
	}

	extraHours := int(math.Ceil(over.Minutes() / 60))
	return extraHours, float64(extraHours) * rates.PricePerSeatHour, nil
}

func (s *bookingService) TimeStatus(ctx context.Context, userID uuid.UUID, role, ref string) (*response.TimeStatusResponse, error) {
	booking, err := s.findOwned(ctx, userID, role, ref)
	if err != nil {
		return nil, err
	}

	status := &response.TimeStatusResponse{
		BookingRef: booking.BookingRef,
		Status:     booking.Status,
		CheckedIn:  booking.CheckInAt != nil,
	}

	if booking.Terminal() {
		status.ExtraAmountDue = 0
		return status, nil
	}

	bookedSeconds := int64(booking.DurationHours) * 3600
	if booking.CheckInAt == nil {
		status.RemainingSeconds = bookedSeconds
		return status, nil
	}

	now := s.nowFn()
	deadline := booking.CheckInAt.Add(time.Duration(booking.DurationHours) * time.Hour)
	if now.Before(deadline) {
		status.RemainingSeconds = int64(deadline.Sub(now).Seconds())
		return status, nil
	}

	status.ExtraSeconds = int64(now.Sub(deadline).Seconds())
	_, due, err := s.extraTime(booking, now)
	if err != nil {
		return nil, err
	}
	status.ExtraAmountDue = due

	return status, nil
}

func (s *bookingService) CheckIn(ctx context.Context, userID uuid.UUID, role, ref string) (*response.BookingResponse, error) {
	booking, err := s.findOwned(ctx, userID, role, ref)
	if err != nil {
		return nil, err
	}

	if booking.Status != entity.BookingStatusActive {
		return nil, ErrInvalidTransition
	}

	now := s.nowFn()
	err = s.repo.Booking.CheckIn(ctx, booking.ID, now)
	if errors.Is(err, repository.ErrStateConflict) {
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, fmt.Errorf("check in booking %s: %w", ref, err)
	}

	s.log.Info("Booking checked in", zap.String("booking_ref", ref))

	booking.Status = entity.BookingStatusInProgress
	booking.CheckInAt = &now
	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) CheckOut(ctx context.Context, userID uuid.UUID, role, ref string, req *request.CheckOutRequest) (*response.BookingResponse, error) {
	booking, err := s.findOwned(ctx, userID, role, ref)
	if err != nil {
		return nil, err
	}

	if booking.Status != entity.BookingStatusInProgress {
		return nil, ErrInvalidTransition
	}

	now := s.nowFn()
	extraHours, extraAmount, err := s.extraTime(booking, now)
	if err != nil {
		return nil, err
	}

	var extraPaymentRef *string
	if extraAmount > 0 {
		if req.ExtraPaymentRef == "" {
			return nil, ErrExtraPaymentRequired
		}
		ref := req.ExtraPaymentRef
		// Cash is settled at the front desk; record an opaque token instead
		// of the literal method name.
		if ref == "cash" {
			ref = "CASH-" + utils.GenerateSettlementToken()
		}
		extraPaymentRef = &ref
	}

	err = s.repo.Booking.Complete(ctx, booking.ID, now, extraHours, extraAmount, extraPaymentRef)
	if errors.Is(err, repository.ErrStateConflict) {
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, fmt.Errorf("check out booking %s: %w", ref, err)
	}

	s.log.Info("Booking checked out",
		zap.String("booking_ref", ref),
		zap.Int("extra_hours", extraHours),
		zap.Float64("extra_amount", extraAmount),
	)

	booking.Status = entity.BookingStatusCompleted
	booking.CheckOutAt = &now
	booking.ExtraHours = extraHours
	booking.ExtraAmount = extraAmount
	booking.ExtraPaymentRef = extraPaymentRef
	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, userID uuid.UUID, role, ref string) (*response.BookingResponse, error) {
	booking, err := s.findOwned(ctx, userID, role, ref)
	if err != nil {
		return nil, err
	}

	// Cancelling a booking that already reached a final state is a no-op, so
	// retried cancel requests stay harmless.
	if booking.Terminal() {
		resp := response.BookingToResponse(booking)
		return &resp, nil
	}

	if !booking.CanCancel() {
		return nil, ErrInvalidTransition
	}

	err = s.repo.Booking.Cancel(ctx, booking.ID)
	if errors.Is(err, repository.ErrStateConflict) {
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, fmt.Errorf("cancel booking %s: %w", ref, err)
	}

	s.log.Info("Booking cancelled", zap.String("booking_ref", ref))

	booking.Status = entity.BookingStatusCancelled
	resp := response.BookingToResponse(booking)
	return &resp, nil
}
