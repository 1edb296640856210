package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coworking-booking/internal/data/entity"
	"coworking-booking/pkg/database"
	"coworking-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type BookingRepository interface {
	// TryBook is the only operation that inserts a booking. It re-checks
	// capacity and inserts inside one transaction so that two concurrent
	// callers cannot jointly exceed the space's capacity.
	TryBook(ctx context.Context, booking *entity.Booking, capacity int) error

	FindByRef(ctx context.Context, ref string) (*entity.Booking, error)
	FindOverlapping(ctx context.Context, spaceType entity.SpaceType, start, end time.Time) ([]*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)

	// Guarded lifecycle transitions. Each update matches the expected
	// current state in SQL, so a concurrent transition surfaces as
	// ErrStateConflict instead of silently clobbering.
	CheckIn(ctx context.Context, id uuid.UUID, at time.Time) error
	Complete(ctx context.Context, id uuid.UUID, at time.Time, extraHours int, extraAmount float64, extraPaymentRef *string) error
	Cancel(ctx context.Context, id uuid.UUID) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, booking_ref, user_id, space_type, start_at, end_at, duration_hours,
	seat_count, whole_space, amount, status, check_in_at, check_out_at,
	extra_hours, extra_amount, extra_payment_ref, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.BookingRef,
		&b.UserID,
		&b.SpaceType,
		&b.StartAt,
		&b.EndAt,
		&b.DurationHours,
		&b.SeatCount,
		&b.WholeSpace,
		&b.Amount,
		&b.Status,
		&b.CheckInAt,
		&b.CheckOutAt,
		&b.ExtraHours,
		&b.ExtraAmount,
		&b.ExtraPaymentRef,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) TryBook(ctx context.Context, booking *entity.Booking, capacity int) error {
	err := r.tryBookOnce(ctx, booking, capacity)
	if err == nil || !isRetryableTxError(err) {
		return err
	}

	// One bounded retry for lost races, then surface the conflict.
	r.log.Warn("Booking transaction conflict, retrying once",
		zap.Error(err),
		zap.String("space_type", string(booking.SpaceType)),
	)

	err = r.tryBookOnce(ctx, booking, capacity)
	if err != nil && isRetryableTxError(err) {
		return ErrTxConflict
	}
	return err
}

func (r *bookingRepository) tryBookOnce(ctx context.Context, booking *entity.Booking, capacity int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin booking transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the space's counter row. This serializes admissions per space
	// type; disjoint types stay fully parallel.
	var totalSpace int
	err = tx.QueryRow(ctx,
		`SELECT total_space FROM space_counters WHERE space_type = $1 FOR UPDATE`,
		booking.SpaceType,
	).Scan(&totalSpace)
	if err != nil {
		return fmt.Errorf("lock space counter for %s: %w", booking.SpaceType, err)
	}

	// Authoritative re-count of committed seats overlapping [start, end).
	// Whole-space bookings were stored with seat_count = capacity, so a
	// plain sum is the full claim.
	var bookedSeats int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(seat_count), 0)
		 FROM bookings
		 WHERE space_type = $1
		   AND status IN ('active', 'in-progress')
		   AND start_at < $3
		   AND end_at > $2`,
		booking.SpaceType, booking.StartAt, booking.EndAt,
	).Scan(&bookedSeats)
	if err != nil {
		return fmt.Errorf("count booked seats for %s: %w", booking.SpaceType, err)
	}

	if booking.WholeSpace {
		if bookedSeats != 0 {
			return ErrInsufficientCapacity
		}
	} else if capacity-bookedSeats < booking.SeatCount {
		return ErrInsufficientCapacity
	}

	// Today's sequence number for the human-readable reference. The unique
	// index on booking_ref catches the rare cross-type collision, which the
	// retry then resolves.
	var sequence int64
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) + 1 FROM bookings WHERE created_at >= date_trunc('day', now())`,
	).Scan(&sequence)
	if err != nil {
		return fmt.Errorf("next booking sequence: %w", err)
	}
	booking.BookingRef = utils.GenerateBookingRef(booking.CreatedAt, sequence)

	_, err = tx.Exec(ctx,
		`INSERT INTO bookings (id, booking_ref, user_id, space_type, start_at, end_at, duration_hours,
			seat_count, whole_space, amount, status, extra_hours, extra_amount, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 0, 0, $12, $13)`,
		booking.ID,
		booking.BookingRef,
		booking.UserID,
		booking.SpaceType,
		booking.StartAt,
		booking.EndAt,
		booking.DurationHours,
		booking.SeatCount,
		booking.WholeSpace,
		booking.Amount,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking %s: %w", booking.BookingRef, err)
	}

	if err := refreshCounters(ctx, tx, booking.SpaceType); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit booking %s: %w", booking.BookingRef, err)
	}

	return nil
}

// refreshCounters recomputes the cached counter row from the bookings that
// occupy seats right now. The cache is never authoritative; this keeps it
// from drifting.
func refreshCounters(ctx context.Context, tx pgx.Tx, spaceType entity.SpaceType) error {
	_, err := tx.Exec(ctx,
		`UPDATE space_counters sc
		 SET booked_space = b.booked,
		     available_space = sc.total_space - b.booked,
		     updated_at = now()
		 FROM (
		     SELECT COALESCE(SUM(seat_count), 0) AS booked
		     FROM bookings
		     WHERE space_type = $1
		       AND status IN ('active', 'in-progress')
		       AND start_at <= now()
		       AND end_at > now()
		 ) b
		 WHERE sc.space_type = $1`,
		spaceType,
	)
	if err != nil {
		return fmt.Errorf("refresh counters for %s: %w", spaceType, err)
	}
	return nil
}

func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", "40P01", "23505": // serialization failure, deadlock, duplicate ref
		return true
	}
	return false
}

func (r *bookingRepository) FindByRef(ctx context.Context, ref string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_ref = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, ref))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ref",
			zap.Error(err),
			zap.String("booking_ref", ref),
		)
		return nil, fmt.Errorf("find booking by ref %s: %w", ref, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindOverlapping(ctx context.Context, spaceType entity.SpaceType, start, end time.Time) ([]*entity.Booking, error) {
	// Broad prefilter on start_at; the caller applies the exact half-open
	// overlap check so the predicate lives in one place.
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE space_type = $1
		  AND status IN ('active', 'in-progress')
		  AND start_at < $2
		ORDER BY start_at
	`

	rows, err := r.db.Query(ctx, query, spaceType, end)
	if err != nil {
		r.log.Error("Failed to find overlapping bookings",
			zap.Error(err),
			zap.String("space_type", string(spaceType)),
			zap.Time("start", start),
			zap.Time("end", end),
		)
		return nil, fmt.Errorf("find overlapping bookings for %s: %w", spaceType, err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) CheckIn(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE bookings
		SET status = 'in-progress', check_in_at = $2, updated_at = now()
		WHERE id = $1 AND status = 'active'
	`

	result, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		r.log.Error("Failed to check in booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("check in booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrStateConflict
	}

	return nil
}

func (r *bookingRepository) Complete(ctx context.Context, id uuid.UUID, at time.Time, extraHours int, extraAmount float64, extraPaymentRef *string) error {
	query := `
		UPDATE bookings
		SET status = 'completed', check_out_at = $2, extra_hours = $3,
		    extra_amount = $4, extra_payment_ref = $5, updated_at = now()
		WHERE id = $1 AND status = 'in-progress'
	`

	result, err := r.db.Exec(ctx, query, id, at, extraHours, extraAmount, extraPaymentRef)
	if err != nil {
		r.log.Error("Failed to complete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("complete booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrStateConflict
	}

	return nil
}

func (r *bookingRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE bookings
		SET status = 'cancelled', updated_at = now()
		WHERE id = $1 AND status = 'active' AND check_in_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("cancel booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrStateConflict
	}

	return nil
}
