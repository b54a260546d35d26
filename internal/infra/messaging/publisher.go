package messaging

import (
	"context"
	"log/slog"
	"time"

	"tour-booking/internal/pkg/config"
	"tour-booking/internal/pkg/errs"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

// NewPublisher returns a Redis Streams publisher when an address is
// configured, otherwise an in-process channel. The cleanup closes whatever
// was opened.
func NewPublisher(cfg config.RedisConfig, logger watermill.LoggerAdapter) (message.Publisher, func(), error) {
	if cfg.Addr == "" {
		slog.Info("REDIS_ADDR not set, publishing events in-process")
		pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, logger)
		return pubSub, func() { _ = pubSub.Close() }, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, errs.Wrap(err, "failed to ping redis")
	}

	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: rdb,
	}, logger)
	if err != nil {
		_ = rdb.Close()
		return nil, nil, errs.Wrap(err, "failed to create redis stream publisher")
	}

	cleanup := func() {
		slog.Info("closing event publisher")
		if err := publisher.Close(); err != nil {
			slog.Warn("failed to close publisher", "error", err)
		}
		if err := rdb.Close(); err != nil {
			slog.Warn("failed to close redis client", "error", err)
		}
	}
	return publisher, cleanup, nil
}
