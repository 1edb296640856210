package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"coworking-booking/internal/data/entity"
	"coworking-booking/internal/dto/request"
	"coworking-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBooking(t *testing.T) {
	clock := time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)
	booking, _, _, _ := newTestServices(&clock)
	ctx := context.Background()
	userID := uuid.New()

	t.Run("per seat booking", func(t *testing.T) {
		resp, err := booking.CreateBooking(ctx, userID, &request.CreateBookingRequest{
			SpaceType:     "Co-working",
			Date:          "2026-09-14",
			StartTime:     "10:00",
			DurationHours: 2,
			NumberOfSeats: 3,
		})
		require.NoError(t, err)

		assert.Equal(t, "GURU-SP-20260914-001", resp.BookingRef)
		assert.Equal(t, entity.BookingStatusActive, resp.Status)
		assert.Equal(t, 3, resp.SeatCount)
		assert.Equal(t, 2, resp.DurationHours)
		assert.Equal(t, 1800.0, resp.Amount)
		assert.Equal(t, userID.String(), resp.UserID)
	})

	t.Run("whole space claims full capacity", func(t *testing.T) {
		resp, err := booking.CreateBooking(ctx, userID, &request.CreateBookingRequest{
			SpaceType:      "Conference",
			Date:           "2026-09-14",
			StartTime:      "13:00",
			DurationHours:  1,
			BookWholeSpace: true,
		})
		require.NoError(t, err)

		assert.True(t, resp.WholeSpace)
		assert.Equal(t, 10, resp.SeatCount)
		// 10 seats x 1 hour x 500 - 1000 discount
		assert.Equal(t, 4000.0, resp.Amount)
	})

	t.Run("explicit instants", func(t *testing.T) {
		start := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
		resp, err := booking.CreateBooking(ctx, userID, &request.CreateBookingRequest{
			SpaceType:     "Co-working",
			Start:         instantOf(start),
			End:           instantOf(start.Add(3 * time.Hour)),
			NumberOfSeats: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, 3, resp.DurationHours)
		assert.Equal(t, 900.0, resp.Amount)
	})
}

func instantOf(t time.Time) utils.Instant {
	return utils.Instant{Time: t}
}

func TestCreateBookingRejections(t *testing.T) {
	clock := time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)
	booking, _, _, _ := newTestServices(&clock)
	ctx := context.Background()
	userID := uuid.New()

	base := func() *request.CreateBookingRequest {
		return &request.CreateBookingRequest{
			SpaceType:     "Co-working",
			Date:          "2026-09-14",
			StartTime:     "10:00",
			DurationHours: 2,
			NumberOfSeats: 3,
		}
	}

	t.Run("window in the past", func(t *testing.T) {
		req := base()
		req.Date = "2026-09-13"
		_, err := booking.CreateBooking(ctx, userID, req)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("before opening", func(t *testing.T) {
		req := base()
		req.StartTime = "09:00"
		_, err := booking.CreateBooking(ctx, userID, req)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("past closing", func(t *testing.T) {
		req := base()
		req.StartTime = "16:00"
		req.DurationHours = 2
		_, err := booking.CreateBooking(ctx, userID, req)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("missing window", func(t *testing.T) {
		req := base()
		req.Date = ""
		_, err := booking.CreateBooking(ctx, userID, req)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("missing seats", func(t *testing.T) {
		req := base()
		req.NumberOfSeats = 0
		_, err := booking.CreateBooking(ctx, userID, req)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("more seats than capacity", func(t *testing.T) {
		req := base()
		req.NumberOfSeats = 21
		_, err := booking.CreateBooking(ctx, userID, req)
		assert.ErrorIs(t, err, ErrInsufficientCapacity)
	})

	t.Run("fractional duration", func(t *testing.T) {
		start := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
		req := &request.CreateBookingRequest{
			SpaceType:     "Co-working",
			Start:         instantOf(start),
			End:           instantOf(start.Add(90 * time.Minute)),
			NumberOfSeats: 1,
		}
		_, err := booking.CreateBooking(ctx, userID, req)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("overbooked window", func(t *testing.T) {
		req := base()
		req.NumberOfSeats = 18
		_, err := booking.CreateBooking(ctx, userID, req)
		require.NoError(t, err)

		req = base()
		req.NumberOfSeats = 3
		_, err = booking.CreateBooking(ctx, userID, req)
		assert.ErrorIs(t, err, ErrInsufficientCapacity)

		// A later window is unaffected.
		req = base()
		req.StartTime = "13:00"
		req.NumberOfSeats = 3
		_, err = booking.CreateBooking(ctx, userID, req)
		assert.NoError(t, err)
	})

	t.Run("whole space denied once any seat is held", func(t *testing.T) {
		req := base()
		req.StartTime = "15:00"
		req.DurationHours = 1
		req.NumberOfSeats = 1
		_, err := booking.CreateBooking(ctx, userID, req)
		require.NoError(t, err)

		req = base()
		req.StartTime = "15:00"
		req.DurationHours = 1
		req.NumberOfSeats = 0
		req.BookWholeSpace = true
		_, err = booking.CreateBooking(ctx, userID, req)
		assert.ErrorIs(t, err, ErrInsufficientCapacity)
	})
}

func TestCreateBookingConcurrent(t *testing.T) {
	clock := time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)
	booking, _, _, _ := newTestServices(&clock)
	ctx := context.Background()

	const callers = 30 // capacity is 20

	var wg sync.WaitGroup
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = booking.CreateBooking(ctx, uuid.New(), &request.CreateBookingRequest{
				SpaceType:     "Co-working",
				Date:          "2026-09-14",
				StartTime:     "10:00",
				DurationHours: 2,
				NumberOfSeats: 1,
			})
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, err := range errs {
		if err == nil {
			admitted++
			continue
		}
		assert.ErrorIs(t, err, ErrInsufficientCapacity)
	}
	assert.Equal(t, 20, admitted, "admissions must never exceed capacity")
}

func TestBookingLifecycle(t *testing.T) {
	clock := time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)
	booking, _, _, _ := newTestServices(&clock)
	ctx := context.Background()
	userID := uuid.New()

	create := func(startTime string) string {
		resp, err := booking.CreateBooking(ctx, userID, &request.CreateBookingRequest{
			SpaceType:     "Co-working",
			Date:          "2026-09-14",
			StartTime:     startTime,
			DurationHours: 2,
			NumberOfSeats: 2,
		})
		require.NoError(t, err)
		return resp.BookingRef
	}

	t.Run("check in then check out on time", func(t *testing.T) {
		ref := create("10:00")

		clock = time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
		resp, err := booking.CheckIn(ctx, userID, "customer", ref)
		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusInProgress, resp.Status)
		require.NotNil(t, resp.CheckInAt)

		// Double check-in is rejected.
		_, err = booking.CheckIn(ctx, userID, "customer", ref)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		// Five minutes over, still inside the grace period.
		clock = time.Date(2026, 9, 14, 12, 5, 0, 0, time.UTC)
		resp, err = booking.CheckOut(ctx, userID, "customer", ref, &request.CheckOutRequest{})
		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusCompleted, resp.Status)
		assert.Equal(t, 0, resp.ExtraHours)
		assert.Equal(t, 0.0, resp.ExtraAmount)
	})

	t.Run("overtime requires settled payment", func(t *testing.T) {
		clock = time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)
		ref := create("13:00")

		clock = time.Date(2026, 9, 14, 13, 0, 0, 0, time.UTC)
		_, err := booking.CheckIn(ctx, userID, "customer", ref)
		require.NoError(t, err)

		// Thirty minutes over the booked window.
		clock = time.Date(2026, 9, 14, 15, 30, 0, 0, time.UTC)

		status, err := booking.TimeStatus(ctx, userID, "customer", ref)
		require.NoError(t, err)
		assert.Equal(t, int64(1800), status.ExtraSeconds)
		assert.Equal(t, 300.0, status.ExtraAmountDue)

		_, err = booking.CheckOut(ctx, userID, "customer", ref, &request.CheckOutRequest{})
		assert.ErrorIs(t, err, ErrExtraPaymentRequired)

		resp, err := booking.CheckOut(ctx, userID, "customer", ref, &request.CheckOutRequest{
			ExtraPaymentRef: "PAY-1234",
		})
		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusCompleted, resp.Status)
		assert.Equal(t, 1, resp.ExtraHours)
		assert.Equal(t, 300.0, resp.ExtraAmount)
	})

	t.Run("cancel before check in is allowed and idempotent", func(t *testing.T) {
		clock = time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)
		ref := create("10:00")

		resp, err := booking.CancelBooking(ctx, userID, "customer", ref)
		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusCancelled, resp.Status)

		// Retried cancel is a no-op, not an error.
		resp, err = booking.CancelBooking(ctx, userID, "customer", ref)
		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusCancelled, resp.Status)
	})

	t.Run("cancel after check in is rejected", func(t *testing.T) {
		clock = time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)
		ref := create("10:00")

		clock = time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
		_, err := booking.CheckIn(ctx, userID, "customer", ref)
		require.NoError(t, err)

		_, err = booking.CancelBooking(ctx, userID, "customer", ref)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("cancelled seats are released", func(t *testing.T) {
		clock = time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)
		resp, err := booking.CreateBooking(ctx, userID, &request.CreateBookingRequest{
			SpaceType:     "Conference",
			Date:          "2026-09-14",
			StartTime:     "10:00",
			DurationHours: 2,
			NumberOfSeats: 10,
		})
		require.NoError(t, err)

		// The room is full now.
		_, err = booking.CreateBooking(ctx, userID, &request.CreateBookingRequest{
			SpaceType:     "Conference",
			Date:          "2026-09-14",
			StartTime:     "10:00",
			DurationHours: 2,
			NumberOfSeats: 1,
		})
		assert.ErrorIs(t, err, ErrInsufficientCapacity)

		_, err = booking.CancelBooking(ctx, userID, "customer", resp.BookingRef)
		require.NoError(t, err)

		_, err = booking.CreateBooking(ctx, userID, &request.CreateBookingRequest{
			SpaceType:     "Conference",
			Date:          "2026-09-14",
			StartTime:     "10:00",
			DurationHours: 2,
			NumberOfSeats: 1,
		})
		assert.NoError(t, err)
	})
}

func TestCheckOutCashSettlement(t *testing.T) {
	clock := time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)
	booking, _, fake, _ := newTestServices(&clock)
	ctx := context.Background()
	userID := uuid.New()

	resp, err := booking.CreateBooking(ctx, userID, &request.CreateBookingRequest{
		SpaceType:     "Co-working",
		Date:          "2026-09-14",
		StartTime:     "10:00",
		DurationHours: 2,
		NumberOfSeats: 1,
	})
	require.NoError(t, err)
	ref := resp.BookingRef

	clock = time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	_, err = booking.CheckIn(ctx, userID, "customer", ref)
	require.NoError(t, err)

	clock = time.Date(2026, 9, 14, 12, 30, 0, 0, time.UTC)
	_, err = booking.CheckOut(ctx, userID, "customer", ref, &request.CheckOutRequest{
		ExtraPaymentRef: "cash",
	})
	require.NoError(t, err)

	stored, err := fake.FindByRef(ctx, ref)
	require.NoError(t, err)
	require.NotNil(t, stored.ExtraPaymentRef)
	assert.True(t, strings.HasPrefix(*stored.ExtraPaymentRef, "CASH-"),
		"cash settlements are recorded as opaque tokens, got %q", *stored.ExtraPaymentRef)
}

func TestTimeStatus(t *testing.T) {
	clock := time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)
	booking, _, _, _ := newTestServices(&clock)
	ctx := context.Background()
	userID := uuid.New()

	resp, err := booking.CreateBooking(ctx, userID, &request.CreateBookingRequest{
		SpaceType:     "Co-working",
		Date:          "2026-09-14",
		StartTime:     "10:00",
		DurationHours: 2,
		NumberOfSeats: 1,
	})
	require.NoError(t, err)
	ref := resp.BookingRef

	// Before check-in the full booked duration remains.
	status, err := booking.TimeStatus(ctx, userID, "customer", ref)
	require.NoError(t, err)
	assert.False(t, status.CheckedIn)
	assert.Equal(t, int64(7200), status.RemainingSeconds)
	assert.Equal(t, int64(0), status.ExtraSeconds)

	clock = time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	_, err = booking.CheckIn(ctx, userID, "customer", ref)
	require.NoError(t, err)

	clock = time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC)
	status, err = booking.TimeStatus(ctx, userID, "customer", ref)
	require.NoError(t, err)
	assert.True(t, status.CheckedIn)
	assert.Equal(t, int64(5400), status.RemainingSeconds)

	// Five minutes over: extra time shown, nothing billed yet.
	clock = time.Date(2026, 9, 14, 12, 5, 0, 0, time.UTC)
	status, err = booking.TimeStatus(ctx, userID, "customer", ref)
	require.NoError(t, err)
	assert.Equal(t, int64(0), status.RemainingSeconds)
	assert.Equal(t, int64(300), status.ExtraSeconds)
	assert.Equal(t, 0.0, status.ExtraAmountDue)
}

func TestBookingOwnership(t *testing.T) {
	clock := time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)
	booking, _, _, _ := newTestServices(&clock)
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	resp, err := booking.CreateBooking(ctx, owner, &request.CreateBookingRequest{
		SpaceType:     "Co-working",
		Date:          "2026-09-14",
		StartTime:     "10:00",
		DurationHours: 2,
		NumberOfSeats: 1,
	})
	require.NoError(t, err)
	ref := resp.BookingRef

	_, err = booking.GetBookingByRef(ctx, owner, "customer", ref)
	assert.NoError(t, err)

	_, err = booking.GetBookingByRef(ctx, stranger, "customer", ref)
	assert.ErrorIs(t, err, ErrForbidden)

	// Admins may inspect any booking.
	_, err = booking.GetBookingByRef(ctx, stranger, RoleAdmin, ref)
	assert.NoError(t, err)

	_, err = booking.GetBookingByRef(ctx, owner, "customer", "GURU-SP-20260914-999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetUserBookings(t *testing.T) {
	clock := time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)
	booking, _, _, _ := newTestServices(&clock)
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := booking.CreateBooking(ctx, userID, &request.CreateBookingRequest{
			SpaceType:     "Co-working",
			Date:          "2026-09-14",
			StartTime:     "10:00",
			DurationHours: 2,
			NumberOfSeats: 1,
		})
		require.NoError(t, err)
	}

	page, err := booking.GetUserBookings(ctx, userID, request.PaginatedRequest{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)

	page, err = booking.GetUserBookings(ctx, userID, request.PaginatedRequest{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
}
