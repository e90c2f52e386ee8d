package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/polylinkapp/polylink/internal/app/model"
	"go.uber.org/zap"
)

// CacheSyncConsumer consumes link events from JetStream and keeps this
// replica's cache and path filter coherent with writes made elsewhere.
type CacheSyncConsumer struct {
	js     nats.JetStreamContext
	logger *zap.Logger
	cache  *LinkCache
	filter *PathFilter
}

// NewCacheSyncConsumer creates a consumer over the given JetStream context.
func NewCacheSyncConsumer(js nats.JetStreamContext, logger *zap.Logger, cache *LinkCache, filter *PathFilter) *CacheSyncConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheSyncConsumer{js: js, logger: logger, cache: cache, filter: filter}
}

// Start ensures the stream and durable consumer exist and begins consuming.
func (c *CacheSyncConsumer) Start() error {
	if _, err := c.js.StreamInfo(model.LinkStreamName); err != nil {
		_, err = c.js.AddStream(&nats.StreamConfig{
			Name:     model.LinkStreamName,
			Subjects: []string{model.LinkStreamSubject},
			MaxBytes: model.LinkStreamMaxBytes,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
	}

	if _, err := c.js.ConsumerInfo(model.LinkStreamName, model.LinkConsumerName); err != nil {
		_, err = c.js.AddConsumer(model.LinkStreamName, &nats.ConsumerConfig{
			Durable:   model.LinkConsumerName,
			AckPolicy: nats.AckExplicitPolicy,
		})
		if err != nil {
			return fmt.Errorf("failed to create consumer: %w", err)
		}
	}

	sub, err := c.js.PullSubscribe(model.LinkStreamSubject, model.LinkConsumerName)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	go c.consume(sub)
	return nil
}

func (c *CacheSyncConsumer) consume(sub *nats.Subscription) {
	ctx := context.Background()
	for {
		msgs, err := sub.Fetch(10, nats.MaxWait(5*time.Second))
		if err != nil && err != nats.ErrTimeout {
			c.logger.Error("failed to fetch link events", zap.Error(err))
			continue
		}

		for _, msg := range msgs {
			var event model.LinkEvent
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				c.logger.Error("failed to unmarshal link event", zap.Error(err))
				msg.Nak()
				continue
			}

			c.apply(ctx, event)
			msg.Ack()
		}
	}
}

func (c *CacheSyncConsumer) apply(ctx context.Context, event model.LinkEvent) {
	switch event.Type {
	case model.LinkEventCreated:
		if c.filter != nil {
			c.filter.Add(event.Path)
		}
	case model.LinkEventUpdated:
		if c.cache != nil {
			if err := c.cache.Invalidate(ctx, event.Path); err != nil {
				c.logger.Error("failed to invalidate cached link",
					zap.Error(err),
					zap.String("path", event.Path))
				return
			}
		}
	default:
		c.logger.Warn("ignoring unknown link event type",
			zap.String("type", event.Type),
			zap.String("path", event.Path))
		return
	}

	c.logger.Debug("applied link event",
		zap.String("id", event.ID),
		zap.String("type", event.Type),
		zap.String("path", event.Path))
}
