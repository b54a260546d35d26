package converter

import (
	"tour-booking/internal/domain/money"
	"tour-booking/internal/domain/tour"
	"tour-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Scanner is implemented by pgx.Row and pgx.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

const TourColumns = `t.id, t.name, t.min_participants, t.max_participants, t.price_per_person_cents, t.currency, t.is_active`

func ScanTour(row Scanner) (*tour.Tour, error) {
	var (
		id             uuid.UUID
		name, currency string
		minP, maxP     int32
		priceCents     int64
		isActive       bool
	)
	if err := row.Scan(&id, &name, &minP, &maxP, &priceCents, &currency, &isActive); err != nil {
		return nil, err
	}
	return tour.ReconstructTour(id, name, int(minP), int(maxP), money.FromCents(priceCents), currency, isActive), nil
}

const ScheduleColumns = `s.id, s.tour_id, s.date, s.start_time, s.end_time, s.available_spots, s.booked_spots, s.status, s.price_override_cents`

func ScanSchedule(row Scanner) (*tour.Schedule, error) {
	var (
		id, tourID        uuid.UUID
		date              pgtype.Date
		start, end        pgtype.Time
		available, booked int32
		status            string
		override          pgtype.Int8
	)
	if err := row.Scan(&id, &tourID, &date, &start, &end, &available, &booked, &status, &override); err != nil {
		return nil, err
	}
	return tour.ReconstructSchedule(
		id, tourID,
		pgconv.DateFromPgtype(date),
		pgconv.TimeOfDayFromPgtype(start), pgconv.TimeOfDayFromPgtype(end),
		int(available), int(booked),
		tour.ScheduleStatus(status),
		pgconv.MoneyPtrFromPgtype(override),
	), nil
}
