package components

import (
	"tour-booking/internal/domain/booking"
	"tour-booking/internal/pkg/clock"
	"tour-booking/internal/pkg/config"
	"tour-booking/internal/usecase/commands"
	"tour-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		booking.NewDefaultPriceCalculator,
		fx.As(new(booking.PriceCalculator)),
	),
	fx.Annotate(
		func(cfg config.Config) *booking.ShortReferenceGenerator {
			return booking.NewShortReferenceGenerator(cfg.Booking.ReferencePrefix)
		},
		fx.As(new(booking.ReferenceGenerator)),
	),
	func(cfg config.Config, policy booking.Policy) queries.AvailabilityLimits {
		return queries.AvailabilityLimits{
			Location:         policy.Location,
			MaxRangeDays:     cfg.Booking.MaxRangeDays,
			HorizonMonths:    cfg.Booking.HorizonMonths,
			MaxToursPerQuery: cfg.Booking.MaxToursPerQuery,
		}
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingUseCase,
		commands.NewPaymentUseCase,
		commands.NewScheduleUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewAvailabilityQueries,
		func(store queries.BookingReadStore, clk clock.Clock, policy booking.Policy) queries.BookingQueries {
			return queries.NewBookingQueries(store, clk, policy.Location)
		},
		queries.NewPaymentQueries,
	),
)
