// Package kafka publishes committed order changes to a Kafka topic.
package kafka

import (
	"context"
	"fmt"
	"strings"

	"cafe/internal/adapters/feed"
	"cafe/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// messageWriter abstracts kafka.Writer for tests.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes one message per change, keyed by order id so that changes
// of the same order land on the same partition.
type Publisher struct {
	writer messageWriter
}

// NewPublisher creates a synchronous writer. brokers is a comma-separated list
// of host:port.
func NewPublisher(brokers string, topic string) *Publisher {
	return &Publisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(splitBrokers(brokers)...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}}
}

// NewPublisherWith wraps an existing writer.
func NewPublisherWith(w messageWriter) *Publisher {
	return &Publisher{writer: w}
}

func (p *Publisher) Publish(ctx context.Context, events ...ports.OrderChanged) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		value, err := feed.Encode(event)
		if err != nil {
			return fmt.Errorf("encode order change: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(event.OrderID.String()),
			Value: value,
			Headers: []kafka.Header{
				{Key: feed.EventTypeHeader, Value: []byte(feed.EventType)},
			},
		})
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func splitBrokers(list string) []string {
	var brokers []string
	for _, b := range strings.Split(list, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
