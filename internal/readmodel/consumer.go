package readmodel

import (
	"context"
	"log/slog"
	"time"

	"creator-ledger/internal/core/domain"
)

// EventSource is the slice of the escrow engine the consumer needs.
type EventSource interface {
	Events(ctx context.Context, afterSeq uint64, limit int) ([]domain.Event, error)
}

// Consumer polls the ledger event stream and folds new events into a Cache.
// It tracks its own offset via Cache.LastSeq, so restarting mid-stream only
// replays events the cache already ignores.
type Consumer struct {
	source   EventSource
	cache    *Cache
	logger   *slog.Logger
	interval time.Duration
	batch    int
}

func NewConsumer(source EventSource, cache *Cache, logger *slog.Logger, interval time.Duration) *Consumer {
	return &Consumer{source: source, cache: cache, logger: logger, interval: interval, batch: 100}
}

// Run polls until ctx is cancelled. Source errors are logged and retried on
// the next tick; a malformed event stops the consumer, since skipping it
// would desynchronize every later budget figure.
func (c *Consumer) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := c.drain(ctx); err != nil {
				return err
			}
		}
	}
}

// drain applies every event currently past the offset, batch by batch.
func (c *Consumer) drain(ctx context.Context) error {
	for {
		events, err := c.source.Events(ctx, c.cache.LastSeq(), c.batch)
		if err != nil {
			c.logger.Warn("event poll failed", slog.Any("error", err))
			return nil
		}
		if len(events) == 0 {
			return nil
		}
		for _, evt := range events {
			if err := c.cache.Apply(evt); err != nil {
				return err
			}
		}
	}
}
