package tour

import (
	"fmt"

	"tour-booking/internal/domain/money"
	"tour-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

// Tour is the read-only catalog view the booking engine needs.
type Tour struct {
	id              uuid.UUID
	name            string
	minParticipants int
	maxParticipants int
	pricePerPerson  money.Money
	currency        string
	isActive        bool
}

func ReconstructTour(id uuid.UUID, name string, minParticipants, maxParticipants int, pricePerPerson money.Money, currency string, isActive bool) *Tour {
	return &Tour{
		id:              id,
		name:            name,
		minParticipants: minParticipants,
		maxParticipants: maxParticipants,
		pricePerPerson:  pricePerPerson,
		currency:        currency,
		isActive:        isActive,
	}
}

func (t *Tour) ID() uuid.UUID               { return t.id }
func (t *Tour) Name() string                { return t.name }
func (t *Tour) MinParticipants() int        { return t.minParticipants }
func (t *Tour) MaxParticipants() int        { return t.maxParticipants }
func (t *Tour) PricePerPerson() money.Money { return t.pricePerPerson }
func (t *Tour) Currency() string            { return t.currency }
func (t *Tour) IsActive() bool              { return t.isActive }

// CheckGroupSize enforces min <= n <= max.
func (t *Tour) CheckGroupSize(n int) error {
	if n < t.minParticipants || n > t.maxParticipants {
		return errs.Validation("participants_count",
			fmt.Sprintf("Participants must be between %d and %d", t.minParticipants, t.maxParticipants))
	}
	return nil
}
