package components

import (
	"tour-booking/internal/infra/db"
	"tour-booking/internal/infra/gateway"
	"tour-booking/internal/infra/readstore"
	"tour-booking/internal/infra/uow"
	"tour-booking/internal/pkg/config"
	"tour-booking/internal/usecase/queries"
	"tour-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	writeModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			readstore.NewCatalogReadStore,
			fx.As(new(queries.CatalogReadStore)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
		fx.Annotate(
			readstore.NewPaymentReadStore,
			fx.As(new(queries.PaymentReadStore)),
		),
	),
)

var writeModule = fx.Module("persistence/write",
	fx.Provide(
		// UnitOfWork
		uow.NewPostgresUoW,
		// Payment gateway
		fx.Annotate(
			func(cfg config.Config) *gateway.Simulated {
				return gateway.NewSimulated(cfg.Payment.DeclinedCards)
			},
			fx.As(new(shared.PaymentGateway)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
