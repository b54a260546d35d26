package booking

import (
	"time"

	"tour-booking/internal/domain/money"
)

// Policy holds the configurable business rules of the booking lifecycle.
type Policy struct {
	Location            *time.Location
	CancellationCutoff  time.Duration
	LargeGroupThreshold int
	DocumentTypes       []string
	DefaultCommission   money.Rate
}

func DefaultPolicy() Policy {
	rate, _ := money.NewRate(10)
	return Policy{
		Location:            time.UTC,
		CancellationCutoff:  24 * time.Hour,
		LargeGroupThreshold: 10,
		DocumentTypes:       []string{"dni", "passport", "ce", "other"},
		DefaultCommission:   rate,
	}
}

// WithinCutoff reports whether now is too close to the departure for changes.
func (p Policy) WithinCutoff(now, startsAt time.Time) bool {
	return !now.Before(startsAt.Add(-p.CancellationCutoff))
}
