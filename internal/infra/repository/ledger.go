package repository

import (
	"context"

	"tour-booking/internal/domain/tour"
	"tour-booking/internal/infra"
	"tour-booking/internal/infra/db"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// Each ledger write is one conditional UPDATE. The status expressions follow
// tour.DeriveStatus: cancelled and completed never change, otherwise the
// schedule is full exactly when booked reaches available.
const (
	reserveSpotsSQL = `
UPDATE tour_schedules SET
	booked_spots = booked_spots + $2,
	status = CASE WHEN booked_spots + $2 >= available_spots THEN 'full' ELSE 'available' END,
	updated_at = now()
WHERE id = $1
	AND status IN ('available', 'full')
	AND booked_spots + $2 <= available_spots
RETURNING available_spots, booked_spots, status`

	releaseSpotsSQL = `
UPDATE tour_schedules SET
	booked_spots = GREATEST(booked_spots - $2, 0),
	status = CASE
		WHEN status IN ('cancelled', 'completed') THEN status
		WHEN GREATEST(booked_spots - $2, 0) >= available_spots THEN 'full'
		ELSE 'available'
	END,
	updated_at = now()
WHERE id = $1
RETURNING available_spots, booked_spots, status`

	completeScheduleSQL = `
UPDATE tour_schedules SET status = 'completed', updated_at = now()
WHERE id = $1 AND status <> 'cancelled'
RETURNING available_spots, booked_spots, status`

	scheduleCountsSQL = `SELECT available_spots, booked_spots, status FROM tour_schedules WHERE id = $1`
)

type SpotLedger struct {
	db db.DBTX
}

func NewSpotLedger(dbtx db.DBTX) *SpotLedger {
	return &SpotLedger{db: dbtx}
}

var _ shared.SpotLedger = (*SpotLedger)(nil)

func (l *SpotLedger) Reserve(ctx context.Context, scheduleID uuid.UUID, n int) (shared.SpotCounts, error) {
	counts, ok, err := l.write(ctx, reserveSpotsSQL, scheduleID, n)
	if err != nil || ok {
		return counts, err
	}

	// Nothing matched: report why.
	current, err := l.counts(ctx, scheduleID)
	if err != nil {
		return shared.SpotCounts{}, err
	}
	if current.Status.IsSticky() {
		return shared.SpotCounts{}, errs.Statef("schedule is %s", current.Status)
	}
	return shared.SpotCounts{}, errs.Capacity(n, max(current.AvailableSpots-current.BookedSpots, 0))
}

func (l *SpotLedger) Release(ctx context.Context, scheduleID uuid.UUID, n int) (shared.SpotCounts, error) {
	counts, ok, err := l.write(ctx, releaseSpotsSQL, scheduleID, n)
	if err != nil {
		return counts, err
	}
	if !ok {
		return shared.SpotCounts{}, errs.NotFoundf("schedule %s not found", scheduleID)
	}
	return counts, nil
}

func (l *SpotLedger) Complete(ctx context.Context, scheduleID uuid.UUID) (shared.SpotCounts, error) {
	counts, ok, err := l.write(ctx, completeScheduleSQL, scheduleID)
	if err != nil || ok {
		return counts, err
	}
	if _, err := l.counts(ctx, scheduleID); err != nil {
		return shared.SpotCounts{}, err
	}
	return shared.SpotCounts{}, errs.Statef("schedule is cancelled")
}

func (l *SpotLedger) write(ctx context.Context, query string, args ...any) (shared.SpotCounts, bool, error) {
	rows, err := l.db.Query(ctx, query, args...)
	if err != nil {
		return shared.SpotCounts{}, false, infra.WrapRepoErr("failed to update schedule spots", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return shared.SpotCounts{}, false, infra.WrapRepoErr("failed to update schedule spots", err)
		}
		return shared.SpotCounts{}, false, nil
	}
	counts, err := scanCounts(rows)
	if err != nil {
		return shared.SpotCounts{}, false, infra.WrapRepoErr("failed to scan schedule spots", err)
	}
	return counts, true, nil
}

func (l *SpotLedger) counts(ctx context.Context, scheduleID uuid.UUID) (shared.SpotCounts, error) {
	counts, err := scanCounts(l.db.QueryRow(ctx, scheduleCountsSQL, scheduleID))
	if err != nil {
		return shared.SpotCounts{}, infra.WrapRepoErr("failed to read schedule spots", err)
	}
	return counts, nil
}

func scanCounts(row interface{ Scan(dest ...any) error }) (shared.SpotCounts, error) {
	var available, booked int32
	var status string
	if err := row.Scan(&available, &booked, &status); err != nil {
		return shared.SpotCounts{}, err
	}
	return shared.SpotCounts{
		AvailableSpots: int(available),
		BookedSpots:    int(booked),
		Status:         tour.ScheduleStatus(status),
	}, nil
}
