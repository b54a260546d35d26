package booking

import (
	"tour-booking/internal/domain/money"
	"tour-booking/internal/domain/tour"
)

type Quote struct {
	PricePerPerson   money.Money
	TotalAmount      money.Money
	CommissionRate   money.Rate
	CommissionAmount money.Money
}

type PriceCalculator interface {
	Quote(t *tour.Tour, s *tour.Schedule, participants int, rate money.Rate) Quote
}

// DefaultPriceCalculator charges the schedule override if present, otherwise
// the tour price, per participant. Commission is a share of the total.
type DefaultPriceCalculator struct{}

func NewDefaultPriceCalculator() *DefaultPriceCalculator {
	return &DefaultPriceCalculator{}
}

func (DefaultPriceCalculator) Quote(t *tour.Tour, s *tour.Schedule, participants int, rate money.Rate) Quote {
	price := s.EffectivePrice(t.PricePerPerson())
	return QuoteFor(price, participants, rate)
}

func QuoteFor(pricePerPerson money.Money, participants int, rate money.Rate) Quote {
	total := pricePerPerson.Times(participants)
	return Quote{
		PricePerPerson:   pricePerPerson,
		TotalAmount:      total,
		CommissionRate:   rate,
		CommissionAmount: total.Percent(rate),
	}
}
