package queries

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tour-booking/internal/domain/tour"
	"tour-booking/internal/pkg/civil"
	"tour-booking/internal/pkg/clock"
	"tour-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	DefaultNextLimit = 10
	MaxNextLimit     = 50
)

// CatalogReadStore reads tours and schedules. Missing tours and schedules are
// reported as errors matching errs.ErrNotFound.
type CatalogReadStore interface {
	FindTour(ctx context.Context, id uuid.UUID) (*tour.Tour, error)
	FindTours(ctx context.Context, ids []uuid.UUID) ([]*tour.Tour, error)
	FindSchedule(ctx context.Context, id uuid.UUID) (*tour.Schedule, error)
	FindSchedules(ctx context.Context, tourIDs []uuid.UUID, from, to civil.Date) ([]*tour.Schedule, error)
}

type AvailabilityLimits struct {
	Location         *time.Location
	MaxRangeDays     int
	HorizonMonths    int
	MaxToursPerQuery int
}

func DefaultAvailabilityLimits() AvailabilityLimits {
	return AvailabilityLimits{
		Location:         time.UTC,
		MaxRangeDays:     90,
		HorizonMonths:    12,
		MaxToursPerQuery: 20,
	}
}

type AvailabilityQueries interface {
	ByDate(ctx context.Context, tourID uuid.UUID, date civil.Date) (*DateAvailability, error)
	ByRange(ctx context.Context, tourID uuid.UUID, from, to civil.Date) (*RangeAvailability, error)
	ByMultipleTours(ctx context.Context, tourIDs []uuid.UUID, date civil.Date) (*MultiTourAvailability, error)
	NextAvailable(ctx context.Context, tourID uuid.UUID, limit int) (*NextAvailability, error)
	SpotsCheck(ctx context.Context, tourID, scheduleID uuid.UUID, spotsNeeded int) (*SpotsCheck, error)
	Calendar(ctx context.Context, tourID uuid.UUID, year, month int) (*CalendarView, error)
}

type availabilityQueriesImpl struct {
	store  CatalogReadStore
	clock  clock.Clock
	limits AvailabilityLimits
}

func NewAvailabilityQueries(store CatalogReadStore, clk clock.Clock, limits AvailabilityLimits) AvailabilityQueries {
	return &availabilityQueriesImpl{store: store, clock: clk, limits: limits}
}

func (q *availabilityQueriesImpl) today() civil.Date {
	return civil.Today(q.clock.Now(), q.limits.Location)
}

func (q *availabilityQueriesImpl) ByDate(ctx context.Context, tourID uuid.UUID, date civil.Date) (*DateAvailability, error) {
	today := q.today()
	if !date.After(today) {
		return nil, errs.Validation("date", "Date must be after today")
	}

	t, err := q.store.FindTour(ctx, tourID)
	if err != nil {
		return nil, err
	}
	schedules, err := q.store.FindSchedules(ctx, []uuid.UUID{tourID}, date, date)
	if err != nil {
		return nil, err
	}

	day := toDateAvailability(tourID, tour.SummarizeDay(t, date, schedules, today))
	return &day, nil
}

func (q *availabilityQueriesImpl) ByRange(ctx context.Context, tourID uuid.UUID, from, to civil.Date) (*RangeAvailability, error) {
	today := q.today()
	v := errs.NewValidationError()
	if !from.After(today) {
		v.Add("from", "Start date must be after today")
	}
	switch span := to.DaysSince(from); {
	case span < 0:
		v.Add("to", "End date must not be before the start date")
	case span > q.limits.MaxRangeDays:
		v.Add("to", fmt.Sprintf("Date range cannot exceed %d days", q.limits.MaxRangeDays))
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	t, err := q.store.FindTour(ctx, tourID)
	if err != nil {
		return nil, err
	}
	schedules, err := q.store.FindSchedules(ctx, []uuid.UUID{tourID}, from, to)
	if err != nil {
		return nil, err
	}

	out := &RangeAvailability{TourID: tourID, From: from, To: to}
	for _, d := range tour.SummarizeRange(t, from, to, schedules, today) {
		out.Days = append(out.Days, toDateAvailability(tourID, d))
		out.Summary.TotalDays++
		if d.IsAvailable {
			out.Summary.AvailableDays++
		}
		out.Summary.TotalSpots += d.TotalAvailableSpots
	}
	return out, nil
}

func (q *availabilityQueriesImpl) ByMultipleTours(ctx context.Context, tourIDs []uuid.UUID, date civil.Date) (*MultiTourAvailability, error) {
	today := q.today()
	ids := dedupe(tourIDs)

	v := errs.NewValidationError()
	switch {
	case len(ids) == 0:
		v.Add("tour_ids", "At least one tour id is required")
	case len(ids) > q.limits.MaxToursPerQuery:
		v.Add("tour_ids", fmt.Sprintf("At most %d tours can be queried at once", q.limits.MaxToursPerQuery))
	}
	if !date.After(today) {
		v.Add("date", "Date must be after today")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	tours, err := q.store.FindTours(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*tour.Tour, len(tours))
	for _, t := range tours {
		byID[t.ID()] = t
	}
	var unknown []string
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			unknown = append(unknown, id.String())
		}
	}
	if len(unknown) > 0 {
		return nil, errs.Validation("tour_ids", "Unknown tour ids: "+strings.Join(unknown, ", "))
	}

	schedules, err := q.store.FindSchedules(ctx, ids, date, date)
	if err != nil {
		return nil, err
	}
	byTour := make(map[uuid.UUID][]*tour.Schedule, len(ids))
	for _, s := range schedules {
		byTour[s.TourID()] = append(byTour[s.TourID()], s)
	}

	out := &MultiTourAvailability{Date: date, Tours: make([]TourAvailability, 0, len(ids))}
	for _, id := range ids {
		t := byID[id]
		day := tour.SummarizeDay(t, date, byTour[id], today)
		out.Tours = append(out.Tours, TourAvailability{
			TourID:              id,
			TourName:            t.Name(),
			IsAvailable:         day.IsAvailable,
			SchedulesCount:      len(day.Slots),
			TotalAvailableSpots: day.TotalAvailableSpots,
		})
		out.Summary.TotalTours++
		if day.IsAvailable {
			out.Summary.AvailableTours++
		}
		out.Summary.TotalAvailableSpots += day.TotalAvailableSpots
	}
	return out, nil
}

// NextAvailable scans from tomorrow up to the configured horizon.
func (q *availabilityQueriesImpl) NextAvailable(ctx context.Context, tourID uuid.UUID, limit int) (*NextAvailability, error) {
	limit = min(max(limit, 1), MaxNextLimit)
	today := q.today()

	t, err := q.store.FindTour(ctx, tourID)
	if err != nil {
		return nil, err
	}
	schedules, err := q.store.FindSchedules(ctx, []uuid.UUID{tourID}, today.AddDays(1), today.AddMonths(q.limits.HorizonMonths))
	if err != nil {
		return nil, err
	}

	out := &NextAvailability{TourID: tourID, Dates: make([]NextDateView, 0, limit)}
	for _, d := range tour.NextAvailableDates(t, schedules, today, limit) {
		out.Dates = append(out.Dates, NextDateView(d))
	}
	return out, nil
}

// SpotsCheck answers whether a group fits without reserving anything.
func (q *availabilityQueriesImpl) SpotsCheck(ctx context.Context, tourID, scheduleID uuid.UUID, spotsNeeded int) (*SpotsCheck, error) {
	if spotsNeeded < 1 {
		return nil, errs.Validation("spots", "At least one spot must be requested")
	}
	today := q.today()

	s, err := q.store.FindSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if s.TourID() != tourID {
		return nil, errs.NotFoundf("schedule %s does not belong to tour %s", scheduleID, tourID)
	}
	t, err := q.store.FindTour(ctx, tourID)
	if err != nil {
		return nil, err
	}

	price := s.EffectivePrice(t.PricePerPerson())
	return &SpotsCheck{
		TourID:         tourID,
		ScheduleID:     scheduleID,
		SpotsNeeded:    spotsNeeded,
		CanBook:        t.IsActive() && s.IsBookable(today) && spotsNeeded <= s.Remaining(),
		AvailableSpots: s.Remaining(),
		PricePerPerson: price,
		TotalPrice:     price.Times(spotsNeeded),
	}, nil
}

func (q *availabilityQueriesImpl) Calendar(ctx context.Context, tourID uuid.UUID, year, month int) (*CalendarView, error) {
	today := q.today()
	v := errs.NewValidationError()
	if month < 1 || month > 12 {
		v.Add("month", "Month must be between 1 and 12")
	}
	if year < today.Year-1 || year > today.Year+2 {
		v.Add("year", fmt.Sprintf("Year must be between %d and %d", today.Year-1, today.Year+2))
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	t, err := q.store.FindTour(ctx, tourID)
	if err != nil {
		return nil, err
	}
	first := civil.NewDate(year, time.Month(month), 1)
	last := civil.NewDate(year, time.Month(month), civil.DaysInMonth(year, time.Month(month)))
	schedules, err := q.store.FindSchedules(ctx, []uuid.UUID{tourID}, first, last)
	if err != nil {
		return nil, err
	}

	out := &CalendarView{TourID: tourID, Year: year, Month: month}
	for _, d := range tour.BuildCalendar(t, year, time.Month(month), schedules, today) {
		out.Days = append(out.Days, CalendarDayView(d))
	}
	return out, nil
}

func toDateAvailability(tourID uuid.UUID, d tour.DayAvailability) DateAvailability {
	slots := make([]SlotView, 0, len(d.Slots))
	for _, s := range d.Slots {
		slots = append(slots, SlotView{
			ScheduleID:     s.ScheduleID,
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			AvailableSpots: s.AvailableSpots,
			PricePerPerson: s.Price,
		})
	}
	return DateAvailability{
		TourID:              tourID,
		Date:                d.Date,
		IsAvailable:         d.IsAvailable,
		Schedules:           slots,
		TotalAvailableSpots: d.TotalAvailableSpots,
	}
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
