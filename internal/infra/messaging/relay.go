package messaging

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tour-booking/internal/infra/repository"
	"tour-booking/internal/pkg/clock"
	"tour-booking/internal/pkg/config"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/pkg/metrics"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const maxRetryDelay = time.Hour

// OutboxBatch is the set of operations available while due jobs are locked.
type OutboxBatch interface {
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]repository.NotificationJob, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string, maxAttempts int, retryAt time.Time) error
}

// Outbox runs fn in a transaction that holds the claimed rows.
type Outbox interface {
	InBatch(ctx context.Context, fn func(ctx context.Context, batch OutboxBatch) error) error
}

type PostgresOutbox struct {
	pool *pgxpool.Pool
}

func NewPostgresOutbox(pool *pgxpool.Pool) *PostgresOutbox {
	return &PostgresOutbox{pool: pool}
}

func (o *PostgresOutbox) InBatch(ctx context.Context, fn func(ctx context.Context, batch OutboxBatch) error) error {
	return pgx.BeginFunc(ctx, o.pool, func(tx pgx.Tx) error {
		return fn(ctx, repository.NewNotificationRepository(tx))
	})
}

// Relay forwards queued notification jobs to the broker. Each job becomes one
// message on the job's topic with its kind in the "type" metadata.
type Relay struct {
	outbox    Outbox
	publisher message.Publisher
	clock     clock.Clock
	metrics   *metrics.Metrics
	cfg       config.OutboxConfig
}

func NewRelay(outbox Outbox, publisher message.Publisher, clk clock.Clock, m *metrics.Metrics, cfg config.OutboxConfig) *Relay {
	return &Relay{
		outbox:    outbox,
		publisher: publisher,
		clock:     clk,
		metrics:   m,
		cfg:       cfg,
	}
}

// Run polls until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	slog.Info("outbox relay started", "interval", r.cfg.PollInterval.String())
	for {
		if _, err := r.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("outbox relay iteration failed", "error", err)
		}

		select {
		case <-ctx.Done():
			slog.Info("outbox relay stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce drains one batch and returns how many jobs were published.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	now := r.clock.Now()
	sent := 0

	err := r.outbox.InBatch(ctx, func(ctx context.Context, batch OutboxBatch) error {
		jobs, err := batch.ClaimDue(ctx, now, r.cfg.BatchSize)
		if err != nil {
			return err
		}

		for _, job := range jobs {
			if pubErr := r.publish(job); pubErr != nil {
				slog.Warn("failed to publish notification",
					"job_id", job.ID.String(),
					"kind", job.Kind,
					"attempt", job.Attempts+1,
					"error", pubErr.Error())
				r.metrics.OutboxMessage("failed")

				retryAt := now.Add(r.backoff(job.Attempts))
				if err := batch.MarkFailed(ctx, job.ID, pubErr.Error(), r.cfg.MaxAttempts, retryAt); err != nil {
					return err
				}
				continue
			}

			if err := batch.MarkSent(ctx, job.ID); err != nil {
				return err
			}
			r.metrics.OutboxMessage("sent")
			sent++
		}
		return nil
	})
	if err != nil {
		return 0, errs.Wrap(err, "drain outbox")
	}
	return sent, nil
}

func (r *Relay) publish(job repository.NotificationJob) error {
	msg := message.NewMessage(watermill.NewUUID(), job.Payload)
	msg.Metadata.Set("type", job.Kind)
	msg.Metadata.Set("job_id", job.ID.String())
	return r.publisher.Publish(job.Topic, msg)
}

// backoff doubles the poll interval per previous attempt.
func (r *Relay) backoff(attempts int) time.Duration {
	d := r.cfg.PollInterval
	for i := 0; i < attempts && d < maxRetryDelay; i++ {
		d *= 2
	}
	return min(d, maxRetryDelay)
}
