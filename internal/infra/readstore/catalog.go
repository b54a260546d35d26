package readstore

import (
	"context"

	"tour-booking/internal/domain/tour"
	"tour-booking/internal/infra"
	"tour-booking/internal/infra/db"
	"tour-booking/internal/infra/repository/converter"
	"tour-booking/internal/pkg/civil"
	"tour-booking/internal/pkg/pgconv"
	"tour-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

const (
	tourByIDSQL     = `SELECT ` + converter.TourColumns + ` FROM tours t WHERE t.id = $1`
	toursByIDsSQL   = `SELECT ` + converter.TourColumns + ` FROM tours t WHERE t.id = ANY($1) ORDER BY t.name, t.id`
	scheduleByIDSQL = `SELECT ` + converter.ScheduleColumns + ` FROM tour_schedules s WHERE s.id = $1`

	schedulesInRangeSQL = `SELECT ` + converter.ScheduleColumns + `
FROM tour_schedules s
WHERE s.tour_id = ANY($1) AND s.date BETWEEN $2 AND $3
ORDER BY s.date, s.start_time, s.id`
)

type CatalogReadStore struct {
	db db.DBTX
}

func NewCatalogReadStore(dbtx db.DBTX) *CatalogReadStore {
	return &CatalogReadStore{db: dbtx}
}

var _ queries.CatalogReadStore = (*CatalogReadStore)(nil)

func (s *CatalogReadStore) FindTour(ctx context.Context, id uuid.UUID) (*tour.Tour, error) {
	t, err := converter.ScanTour(s.db.QueryRow(ctx, tourByIDSQL, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("tour not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find tour by ID", err)
	}
	return t, nil
}

// FindTours silently skips unknown ids.
func (s *CatalogReadStore) FindTours(ctx context.Context, ids []uuid.UUID) ([]*tour.Tour, error) {
	rows, err := s.db.Query(ctx, toursByIDsSQL, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find tours", err)
	}
	defer rows.Close()

	var out []*tour.Tour
	for rows.Next() {
		t, err := converter.ScanTour(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan tour", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate tours", err)
	}
	return out, nil
}

func (s *CatalogReadStore) FindSchedule(ctx context.Context, id uuid.UUID) (*tour.Schedule, error) {
	sc, err := converter.ScanSchedule(s.db.QueryRow(ctx, scheduleByIDSQL, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("schedule not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find schedule by ID", err)
	}
	return sc, nil
}

func (s *CatalogReadStore) FindSchedules(ctx context.Context, tourIDs []uuid.UUID, from, to civil.Date) ([]*tour.Schedule, error) {
	rows, err := s.db.Query(ctx, schedulesInRangeSQL, tourIDs, pgconv.DateToPgtype(from), pgconv.DateToPgtype(to))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find schedules", err)
	}
	defer rows.Close()

	var out []*tour.Schedule
	for rows.Next() {
		sc, err := converter.ScanSchedule(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan schedule", err)
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate schedules", err)
	}
	return out, nil
}
