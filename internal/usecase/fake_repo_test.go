package usecase

import (
	"context"
	"sync"
	"time"

	"coworking-booking/internal/data/entity"
	"coworking-booking/internal/data/repository"
	"coworking-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// fakeBookingRepo is an in-memory BookingRepository. A single mutex plays
// the role of the database transaction: capacity re-check and insert happen
// under one critical section, like the real repository does under the
// counter row lock.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings []entity.Booking
	seq      int64
}

func (f *fakeBookingRepo) TryBook(ctx context.Context, booking *entity.Booking, capacity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	booked := 0
	for _, b := range f.bookings {
		if b.SpaceType != booking.SpaceType || !b.CountsAgainstCapacity() {
			continue
		}
		if !utils.Overlaps(booking.StartAt, booking.EndAt, b.StartAt, b.EndAt) {
			continue
		}
		booked += b.SeatCount
	}

	if booking.WholeSpace {
		if booked != 0 {
			return repository.ErrInsufficientCapacity
		}
	} else if capacity-booked < booking.SeatCount {
		return repository.ErrInsufficientCapacity
	}

	f.seq++
	booking.BookingRef = utils.GenerateBookingRef(booking.CreatedAt, f.seq)
	f.bookings = append(f.bookings, *booking)
	return nil
}

func (f *fakeBookingRepo) FindByRef(ctx context.Context, ref string) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.bookings {
		if b.BookingRef == ref {
			found := b
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindOverlapping(ctx context.Context, spaceType entity.SpaceType, start, end time.Time) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*entity.Booking
	for _, b := range f.bookings {
		if b.SpaceType != spaceType || !b.CountsAgainstCapacity() {
			continue
		}
		if !b.StartAt.Before(end) {
			continue
		}
		found := b
		result = append(result, &found)
	}
	return result, nil
}

func (f *fakeBookingRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var owned []*entity.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			found := b
			owned = append(owned, &found)
		}
	}

	if offset >= len(owned) {
		return nil, nil
	}
	owned = owned[offset:]
	if limit < len(owned) {
		owned = owned[:limit]
	}
	return owned, nil
}

func (f *fakeBookingRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, b := range f.bookings {
		if b.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeBookingRepo) CheckIn(ctx context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.bookings {
		if f.bookings[i].ID != id {
			continue
		}
		if f.bookings[i].Status != entity.BookingStatusActive {
			return repository.ErrStateConflict
		}
		f.bookings[i].Status = entity.BookingStatusInProgress
		f.bookings[i].CheckInAt = &at
		return nil
	}
	return repository.ErrStateConflict
}

func (f *fakeBookingRepo) Complete(ctx context.Context, id uuid.UUID, at time.Time, extraHours int, extraAmount float64, extraPaymentRef *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.bookings {
		if f.bookings[i].ID != id {
			continue
		}
		if f.bookings[i].Status != entity.BookingStatusInProgress {
			return repository.ErrStateConflict
		}
		f.bookings[i].Status = entity.BookingStatusCompleted
		f.bookings[i].CheckOutAt = &at
		f.bookings[i].ExtraHours = extraHours
		f.bookings[i].ExtraAmount = extraAmount
		f.bookings[i].ExtraPaymentRef = extraPaymentRef
		return nil
	}
	return repository.ErrStateConflict
}

func (f *fakeBookingRepo) Cancel(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.bookings {
		if f.bookings[i].ID != id {
			continue
		}
		if f.bookings[i].Status != entity.BookingStatusActive || f.bookings[i].CheckInAt != nil {
			return repository.ErrStateConflict
		}
		f.bookings[i].Status = entity.BookingStatusCancelled
		return nil
	}
	return repository.ErrStateConflict
}

type mockSpaceRepo struct {
	mock.Mock
}

func (m *mockSpaceRepo) EnsureCounters(ctx context.Context, stats []entity.SpaceStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

func (m *mockSpaceRepo) GetStats(ctx context.Context, spaceType entity.SpaceType) (*entity.SpaceStats, error) {
	args := m.Called(ctx, spaceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SpaceStats), args.Error(1)
}

func (m *mockSpaceRepo) RebuildCounters(ctx context.Context, spaceType entity.SpaceType) error {
	args := m.Called(ctx, spaceType)
	return args.Error(0)
}

func testCatalog() *entity.Catalog {
	return entity.NewCatalog(
		entity.SpaceRates{TotalSpace: 20, PricePerSeatHour: 300, WholeSpaceDiscount: 1000},
		entity.SpaceRates{TotalSpace: 10, PricePerSeatHour: 500, WholeSpaceDiscount: 1000},
	)
}

func testRules() utils.BookingConfig {
	return utils.BookingConfig{OpenHour: 10, CloseHour: 17, GraceMinutes: 10}
}

// newTestServices wires the services against the in-memory repository with a
// controllable clock.
func newTestServices(clock *time.Time) (BookingService, SpaceService, *fakeBookingRepo, *mockSpaceRepo) {
	fakeBooking := &fakeBookingRepo{}
	mockSpace := &mockSpaceRepo{}
	repo := &repository.Repository{Booking: fakeBooking, Space: mockSpace}
	log := zap.NewNop()
	catalog := testCatalog()

	booking := NewBookingService(repo, catalog, testRules(), log)
	booking.(*bookingService).nowFn = func() time.Time { return *clock }

	space := NewSpaceService(repo, catalog, log)
	space.(*spaceService).nowFn = func() time.Time { return *clock }

	return booking, space, fakeBooking, mockSpace
}
