package repository

import (
	"context"
	"fmt"

	"coworking-booking/internal/data/entity"
	"coworking-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SpaceRepository interface {
	// EnsureCounters seeds (or re-seeds) the per-type counter rows from the
	// catalog. Called once at startup.
	EnsureCounters(ctx context.Context, stats []entity.SpaceStats) error

	GetStats(ctx context.Context, spaceType entity.SpaceType) (*entity.SpaceStats, error)

	// RebuildCounters recomputes a counter row from the bookings occupying
	// seats right now. Counters are a cache, never a source of truth.
	RebuildCounters(ctx context.Context, spaceType entity.SpaceType) error
}

type spaceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSpaceRepository(db database.PgxIface, log *zap.Logger) SpaceRepository {
	return &spaceRepository{
		db:  db,
		log: log.With(zap.String("repository", "space")),
	}
}

func (r *spaceRepository) EnsureCounters(ctx context.Context, stats []entity.SpaceStats) error {
	query := `
		INSERT INTO space_counters (space_type, available_space, booked_space, total_space, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (space_type)
		DO UPDATE SET total_space = EXCLUDED.total_space, updated_at = now()
	`

	for _, s := range stats {
		_, err := r.db.Exec(ctx, query, s.SpaceType, s.AvailableSpace, s.BookedSpace, s.TotalSpace)
		if err != nil {
			r.log.Error("Failed to ensure space counter",
				zap.Error(err),
				zap.String("space_type", string(s.SpaceType)),
			)
			return fmt.Errorf("ensure counter for %s: %w", s.SpaceType, err)
		}
	}

	return nil
}

func (r *spaceRepository) GetStats(ctx context.Context, spaceType entity.SpaceType) (*entity.SpaceStats, error) {
	query := `
		SELECT space_type, available_space, booked_space, total_space, updated_at
		FROM space_counters
		WHERE space_type = $1
	`

	var stats entity.SpaceStats
	err := r.db.QueryRow(ctx, query, spaceType).Scan(
		&stats.SpaceType,
		&stats.AvailableSpace,
		&stats.BookedSpace,
		&stats.TotalSpace,
		&stats.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to get space stats",
			zap.Error(err),
			zap.String("space_type", string(spaceType)),
		)
		return nil, fmt.Errorf("get stats for %s: %w", spaceType, err)
	}

	return &stats, nil
}

func (r *spaceRepository) RebuildCounters(ctx context.Context, spaceType entity.SpaceType) error {
	query := `
		UPDATE space_counters sc
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
		WHERE sc.space_type = $1
	`

	_, err := r.db.Exec(ctx, query, spaceType)
	if err != nil {
		r.log.Error("Failed to rebuild space counters",
			zap.Error(err),
			zap.String("space_type", string(spaceType)),
		)
		return fmt.Errorf("rebuild counters for %s: %w", spaceType, err)
	}

	return nil
}
