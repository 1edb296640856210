package usecase

import (
	"context"
	"fmt"
	"time"

	"coworking-booking/internal/data/entity"
	"coworking-booking/internal/data/repository"
	"coworking-booking/internal/dto/response"
	"coworking-booking/pkg/utils"

	"go.uber.org/zap"
)

type SpaceService interface {
	// Availability is the advisory, read-only check the UI shows before
	// submitting. The authoritative decision is re-made at write time.
	Availability(ctx context.Context, spaceType string, start, end time.Time) (*response.AvailabilityResponse, error)

	AvailableSeats(ctx context.Context, spaceType entity.SpaceType, start, end time.Time) (int, error)
	WholeSpaceAvailable(ctx context.Context, spaceType entity.SpaceType, start, end time.Time) (bool, error)

	// AllSpaceStats reports per-type occupancy for the dashboard. An empty
	// window defaults to today's full day.
	AllSpaceStats(ctx context.Context, start, end time.Time) ([]response.SpaceStatsResponse, error)

	// CounterSnapshot returns the cached counter rows as last refreshed.
	// Diagnostic only; live availability comes from AvailableSeats.
	CounterSnapshot(ctx context.Context) ([]response.SpaceStatsResponse, error)

	// EnsureCounters seeds the counter cache rows from the catalog and
	// reconciles them against the current bookings.
	EnsureCounters(ctx context.Context) error
}

type spaceService struct {
	repo    *repository.Repository
	catalog *entity.Catalog
	log     *zap.Logger
	nowFn   func() time.Time
}

func NewSpaceService(repo *repository.Repository, catalog *entity.Catalog, log *zap.Logger) SpaceService {
	return &spaceService{
		repo:    repo,
		catalog: catalog,
		log:     log.With(zap.String("service", "space")),
		nowFn:   time.Now,
	}
}

func (s *spaceService) AvailableSeats(ctx context.Context, spaceType entity.SpaceType, start, end time.Time) (int, error) {
	if start.IsZero() || end.IsZero() {
		start, end = utils.DefaultDayWindow(s.nowFn())
	}

	capacity, err := s.catalog.Capacity(spaceType)
	if err != nil {
		return 0, err
	}

	bookings, err := s.repo.Booking.FindOverlapping(ctx, spaceType, start, end)
	if err != nil {
		return 0, fmt.Errorf("fetch overlapping bookings: %w", err)
	}

	booked := 0
	for _, b := range bookings {
		if !utils.Overlaps(start, end, b.StartAt, b.EndAt) {
			continue
		}
		booked += b.SeatCount
	}

	available := capacity - booked
	if available < 0 {
		// The admission transaction should make this impossible; never
		// report a negative count to callers.
		s.log.Error("Availability went negative",
			zap.String("space_type", string(spaceType)),
			zap.Int("capacity", capacity),
			zap.Int("booked", booked),
		)
		available = 0
	}

	return available, nil
}

func (s *spaceService) WholeSpaceAvailable(ctx context.Context, spaceType entity.SpaceType, start, end time.Time) (bool, error) {
	available, err := s.AvailableSeats(ctx, spaceType, start, end)
	if err != nil {
		return false, err
	}

	capacity, err := s.catalog.Capacity(spaceType)
	if err != nil {
		return false, err
	}

	return available == capacity, nil
}

func (s *spaceService) Availability(ctx context.Context, spaceType string, start, end time.Time) (*response.AvailabilityResponse, error) {
	parsed, err := entity.ParseSpaceType(spaceType)
	if err != nil {
		return nil, fmt.Errorf("invalid space type: %w", err)
	}

	if start.IsZero() || end.IsZero() {
		start, end = utils.DefaultDayWindow(s.nowFn())
	}

	available, err := s.AvailableSeats(ctx, parsed, start, end)
	if err != nil {
		return nil, err
	}

	capacity, err := s.catalog.Capacity(parsed)
	if err != nil {
		return nil, err
	}

	return &response.AvailabilityResponse{
		SpaceType:           parsed,
		AvailableSeats:      available,
		Capacity:            capacity,
		WholeSpaceAvailable: available == capacity,
		WindowStart:         start,
		WindowEnd:           end,
	}, nil
}

func (s *spaceService) AllSpaceStats(ctx context.Context, start, end time.Time) ([]response.SpaceStatsResponse, error) {
	if start.IsZero() || end.IsZero() {
		start, end = utils.DefaultDayWindow(s.nowFn())
	}

	stats := make([]response.SpaceStatsResponse, 0, len(s.catalog.Types()))
	for _, spaceType := range s.catalog.Types() {
		capacity, err := s.catalog.Capacity(spaceType)
		if err != nil {
			return nil, err
		}

		available, err := s.AvailableSeats(ctx, spaceType, start, end)
		if err != nil {
			s.log.Error("Failed to get stats for space type",
				zap.Error(err),
				zap.String("space_type", string(spaceType)),
			)
			return nil, err
		}

		stats = append(stats, response.SpaceStatsResponse{
			SpaceType:      spaceType,
			AvailableSpace: available,
			BookedSpace:    capacity - available,
			TotalSpace:     capacity,
		})
	}

	return stats, nil
}

func (s *spaceService) EnsureCounters(ctx context.Context) error {
	seed := make([]entity.SpaceStats, 0, len(s.catalog.Types()))
	for _, spaceType := range s.catalog.Types() {
		capacity, err := s.catalog.Capacity(spaceType)
		if err != nil {
			return err
		}
		seed = append(seed, entity.SpaceStats{
			SpaceType:      spaceType,
			AvailableSpace: capacity,
			BookedSpace:    0,
			TotalSpace:     capacity,
		})
	}

	if err := s.repo.Space.EnsureCounters(ctx, seed); err != nil {
		return fmt.Errorf("ensure space counters: %w", err)
	}

	// The cache may be stale after a restart; rebuild it from the bookings.
	for _, spaceType := range s.catalog.Types() {
		if err := s.repo.Space.RebuildCounters(ctx, spaceType); err != nil {
			return fmt.Errorf("rebuild counters for %s: %w", spaceType, err)
		}
	}

	s.log.Info("Space counters ensured", zap.Int("space_types", len(seed)))
	return nil
}

func (s *spaceService) CounterSnapshot(ctx context.Context) ([]response.SpaceStatsResponse, error) {
	snapshot := make([]response.SpaceStatsResponse, 0, len(s.catalog.Types()))
	for _, spaceType := range s.catalog.Types() {
		stats, err := s.repo.Space.GetStats(ctx, spaceType)
		if err != nil {
			return nil, err
		}
		if stats == nil {
			continue
		}
		updatedAt := stats.UpdatedAt
		snapshot = append(snapshot, response.SpaceStatsResponse{
			SpaceType:      stats.SpaceType,
			AvailableSpace: stats.AvailableSpace,
			BookedSpace:    stats.BookedSpace,
			TotalSpace:     stats.TotalSpace,
			UpdatedAt:      &updatedAt,
		})
	}
	return snapshot, nil
}
