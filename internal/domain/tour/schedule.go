package tour

import (
	"time"

	"tour-booking/internal/domain/money"
	"tour-booking/internal/pkg/civil"

	"github.com/google/uuid"
)

type ScheduleStatus string

const (
	ScheduleAvailable ScheduleStatus = "available"
	ScheduleFull      ScheduleStatus = "full"
	ScheduleCancelled ScheduleStatus = "cancelled"
	ScheduleCompleted ScheduleStatus = "completed"
)

func (s ScheduleStatus) String() string {
	return string(s)
}

func (s ScheduleStatus) IsValid() bool {
	switch s {
	case ScheduleAvailable, ScheduleFull, ScheduleCancelled, ScheduleCompleted:
		return true
	default:
		return false
	}
}

// IsOpen reports whether the ledger may still move spots on the schedule.
func (s ScheduleStatus) IsOpen() bool {
	return s == ScheduleAvailable || s == ScheduleFull
}

// IsSticky statuses are never recomputed from the spot counts.
func (s ScheduleStatus) IsSticky() bool {
	return s == ScheduleCancelled || s == ScheduleCompleted
}

// DeriveStatus is the single rule the ledger applies after every change.
func DeriveStatus(current ScheduleStatus, available, booked int) ScheduleStatus {
	if current.IsSticky() {
		return current
	}
	if booked >= available {
		return ScheduleFull
	}
	return ScheduleAvailable
}

type Schedule struct {
	id             uuid.UUID
	tourID         uuid.UUID
	date           civil.Date
	startTime      civil.TimeOfDay
	endTime        civil.TimeOfDay
	availableSpots int
	bookedSpots    int
	status         ScheduleStatus
	priceOverride  *money.Money
}

func ReconstructSchedule(
	id, tourID uuid.UUID,
	date civil.Date,
	startTime, endTime civil.TimeOfDay,
	availableSpots, bookedSpots int,
	status ScheduleStatus,
	priceOverride *money.Money,
) *Schedule {
	return &Schedule{
		id:             id,
		tourID:         tourID,
		date:           date,
		startTime:      startTime,
		endTime:        endTime,
		availableSpots: availableSpots,
		bookedSpots:    bookedSpots,
		status:         status,
		priceOverride:  priceOverride,
	}
}

func (s *Schedule) ID() uuid.UUID                { return s.id }
func (s *Schedule) TourID() uuid.UUID            { return s.tourID }
func (s *Schedule) Date() civil.Date             { return s.date }
func (s *Schedule) StartTime() civil.TimeOfDay   { return s.startTime }
func (s *Schedule) EndTime() civil.TimeOfDay     { return s.endTime }
func (s *Schedule) AvailableSpots() int          { return s.availableSpots }
func (s *Schedule) BookedSpots() int             { return s.bookedSpots }
func (s *Schedule) Status() ScheduleStatus       { return s.status }
func (s *Schedule) PriceOverride() *money.Money  { return s.priceOverride }

func (s *Schedule) Remaining() int {
	r := s.availableSpots - s.bookedSpots
	if r < 0 {
		return 0
	}
	return r
}

func (s *Schedule) EffectivePrice(tourPrice money.Money) money.Money {
	if s.priceOverride != nil {
		return *s.priceOverride
	}
	return tourPrice
}

func (s *Schedule) StartsAt(loc *time.Location) time.Time {
	return s.startTime.On(s.date, loc)
}

// EndsAt rolls over to the next day when the end time is not after the start.
func (s *Schedule) EndsAt(loc *time.Location) time.Time {
	end := s.endTime.On(s.date, loc)
	if !s.startTime.Before(s.endTime) {
		end = s.endTime.On(s.date.AddDays(1), loc)
	}
	return end
}

// IsBookable is true for a future, available schedule with spots left.
func (s *Schedule) IsBookable(today civil.Date) bool {
	return s.status == ScheduleAvailable && s.Remaining() > 0 && s.date.After(today)
}
