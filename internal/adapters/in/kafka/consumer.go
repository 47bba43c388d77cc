// Package kafka feeds order changes read from a Kafka topic into the
// fulfillment core.
package kafka

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"cafe/internal/adapters/feed"
	"cafe/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// messageReader abstracts kafka.Reader for tests.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer forwards every decodable order change to sink and commits the
// offset afterwards. Undecodable messages are logged and skipped.
type Consumer struct {
	reader messageReader
	sink   ports.OrderEventPublisher
	logger *slog.Logger
}

func NewConsumer(brokers []string, topic, group string, sink ports.OrderEventPublisher, logger *slog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: group,
	})
	return NewConsumerWith(r, sink, logger)
}

// NewConsumerWith wraps an existing reader.
func NewConsumerWith(r messageReader, sink ports.OrderEventPublisher, logger *slog.Logger) *Consumer {
	return &Consumer{
		reader: r,
		sink:   sink,
		logger: logger,
	}
}

// Run blocks until ctx is done or the reader fails.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		if eventType := headerValue(msg.Headers, feed.EventTypeHeader); eventType != "" && eventType != feed.EventType {
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		event, err := feed.Decode(msg.Value)
		if err != nil {
			c.logger.Error("skip undecodable order change",
				"partition", msg.Partition, "offset", msg.Offset, "err", err)
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		if err = c.sink.Publish(ctx, event); err != nil {
			c.logger.Error("order change handler failed", "order_id", event.OrderID.String(), "err", err)
		}
		if err = c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.logger.Warn("commit offset", "offset", msg.Offset, "err", err)
		}
	}
}

func headerValue(h []kafka.Header, key string) string {
	for _, hh := range h {
		if strings.EqualFold(hh.Key, key) {
			return string(hh.Value)
		}
	}
	return ""
}
