package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"tour-booking/internal/infra/messaging"
	"tour-booking/internal/infra/repository"
	"tour-booking/internal/pkg/clock"
	"tour-booking/internal/pkg/config"
	"tour-booking/internal/pkg/metrics"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

const idempotencyPurgeInterval = 10 * time.Minute

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		NewPublisher,
		fx.Annotate(
			messaging.NewPostgresOutbox,
			fx.As(new(messaging.Outbox)),
		),
		func(outbox messaging.Outbox, pub message.Publisher, clk clock.Clock, m *metrics.Metrics, cfg config.Config) *messaging.Relay {
			return messaging.NewRelay(outbox, pub, clk, m, cfg.Outbox)
		},
	),
	fx.Invoke(runWorkers),
)

func NewPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (message.Publisher, error) {
	pub, cleanup, err := messaging.NewPublisher(cfg.Redis, messaging.NewSlogAdapter(logger))
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})
	return pub, nil
}

// runWorkers starts the outbox relay and the idempotency key janitor. Both
// stop when the application shuts down.
func runWorkers(lc fx.Lifecycle, cfg config.Config, relay *messaging.Relay, pool *pgxpool.Pool, clk clock.Clock, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	var g *errgroup.Group

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			g, ctx = errgroup.WithContext(ctx)
			if cfg.Outbox.Enabled {
				g.Go(func() error { return relay.Run(ctx) })
			}
			g.Go(func() error {
				return purgeExpiredKeys(ctx, repository.NewIdempotencyRepository(pool), clk, logger)
			})
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			if g == nil {
				return nil
			}
			return g.Wait()
		},
	})
}

func purgeExpiredKeys(ctx context.Context, repo *repository.IdempotencyRepository, clk clock.Clock, logger *slog.Logger) error {
	ticker := time.NewTicker(idempotencyPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx, clk.Now())
			if err != nil {
				logger.Error("failed to purge idempotency keys", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("purged expired idempotency keys", "count", n)
			}
		}
	}
}
