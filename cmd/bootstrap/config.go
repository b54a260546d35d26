package bootstrap

import (
	"tour-booking/internal/domain/booking"
	"tour-booking/internal/domain/money"
	"tour-booking/internal/pkg/config"
	"tour-booking/internal/pkg/errs"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		NewBookingPolicy,
	),
)

func NewBookingPolicy(cfg config.Config) (booking.Policy, error) {
	loc, err := cfg.Booking.Location()
	if err != nil {
		return booking.Policy{}, err
	}
	rate, err := money.NewRate(cfg.Booking.DefaultCommissionRate)
	if err != nil {
		return booking.Policy{}, errs.Wrap(err, "default commission rate")
	}
	return booking.Policy{
		Location:            loc,
		CancellationCutoff:  cfg.Booking.CancellationCutoff,
		LargeGroupThreshold: cfg.Booking.LargeGroupThreshold,
		DocumentTypes:       cfg.Booking.DocumentTypes,
		DefaultCommission:   rate,
	}, nil
}
