//go:build unit || e2e

package builder

import (
	"time"

	"tour-booking/internal/domain/money"
	"tour-booking/internal/domain/tour"
	"tour-booking/internal/pkg/civil"

	"github.com/google/uuid"
)

// Now is the reference instant shared by builders so that schedule dates and
// cutoff windows are deterministic in tests.
var Now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

type TourBuilder struct {
	ID              uuid.UUID
	Name            string
	MinParticipants int
	MaxParticipants int
	PricePerPerson  money.Money
	Currency        string
	IsActive        bool
}

func NewTourBuilder() *TourBuilder {
	return &TourBuilder{
		ID:              uuid.New(),
		Name:            "Machu Picchu Full Day",
		MinParticipants: 1,
		MaxParticipants: 20,
		PricePerPerson:  money.FromCents(15000),
		Currency:        "PEN",
		IsActive:        true,
	}
}

func (b *TourBuilder) With(mutate func(*TourBuilder)) *TourBuilder {
	mutate(b)
	return b
}

func (b *TourBuilder) BuildDomain() *tour.Tour {
	return tour.ReconstructTour(b.ID, b.Name, b.MinParticipants, b.MaxParticipants, b.PricePerPerson, b.Currency, b.IsActive)
}

func (b *TourBuilder) WithID(id uuid.UUID) *TourBuilder {
	b.ID = id
	return b
}

func (b *TourBuilder) WithGroupSize(minParticipants, maxParticipants int) *TourBuilder {
	b.MinParticipants = minParticipants
	b.MaxParticipants = maxParticipants
	return b
}

func (b *TourBuilder) WithPrice(cents int64) *TourBuilder {
	b.PricePerPerson = money.FromCents(cents)
	return b
}

func (b *TourBuilder) Inactive() *TourBuilder {
	b.IsActive = false
	return b
}

type ScheduleBuilder struct {
	ID             uuid.UUID
	TourID         uuid.UUID
	Date           civil.Date
	StartTime      civil.TimeOfDay
	EndTime        civil.TimeOfDay
	AvailableSpots int
	BookedSpots    int
	Status         tour.ScheduleStatus
	PriceOverride  *money.Money
}

// NewScheduleBuilder departs one week after Now at 09:00.
func NewScheduleBuilder(tourID uuid.UUID) *ScheduleBuilder {
	return &ScheduleBuilder{
		ID:             uuid.New(),
		TourID:         tourID,
		Date:           civil.DateOf(Now).AddDays(7),
		StartTime:      civil.NewTimeOfDay(9, 0),
		EndTime:        civil.NewTimeOfDay(13, 0),
		AvailableSpots: 10,
		BookedSpots:    0,
		Status:         tour.ScheduleAvailable,
	}
}

func (b *ScheduleBuilder) With(mutate func(*ScheduleBuilder)) *ScheduleBuilder {
	mutate(b)
	return b
}

func (b *ScheduleBuilder) BuildDomain() *tour.Schedule {
	return tour.ReconstructSchedule(b.ID, b.TourID, b.Date, b.StartTime, b.EndTime,
		b.AvailableSpots, b.BookedSpots, b.Status, b.PriceOverride)
}

// StartsAt is the departure instant in UTC, the zone of the default policy.
func (b *ScheduleBuilder) StartsAt() time.Time {
	return b.StartTime.On(b.Date, time.UTC)
}

func (b *ScheduleBuilder) WithDate(d civil.Date) *ScheduleBuilder {
	b.Date = d
	return b
}

func (b *ScheduleBuilder) OnDay(offset int) *ScheduleBuilder {
	b.Date = civil.DateOf(Now).AddDays(offset)
	return b
}

func (b *ScheduleBuilder) WithStart(hour, minute int) *ScheduleBuilder {
	b.StartTime = civil.NewTimeOfDay(hour, minute)
	return b
}

func (b *ScheduleBuilder) WithSpots(available, booked int) *ScheduleBuilder {
	b.AvailableSpots = available
	b.BookedSpots = booked
	b.Status = tour.DeriveStatus(b.Status, available, booked)
	return b
}

func (b *ScheduleBuilder) WithStatus(status tour.ScheduleStatus) *ScheduleBuilder {
	b.Status = status
	return b
}

func (b *ScheduleBuilder) WithPriceOverride(cents int64) *ScheduleBuilder {
	m := money.FromCents(cents)
	b.PriceOverride = &m
	return b
}
