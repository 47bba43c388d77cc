// Package feed is the wire format of order change notifications shared by the
// Kafka topic and the PostgreSQL NOTIFY channel.
package feed

import (
	"encoding/json"
	"fmt"
	"time"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/ports"
)

const (
	// EventTypeHeader names the Kafka header carrying EventType.
	EventTypeHeader = "event_type"
	EventType       = "order-changed"
)

type message struct {
	OrderID    string    `json:"order_id,omitempty"`
	Kind       string    `json:"kind"`
	Status     string    `json:"status,omitempty"`
	Version    int64     `json:"version"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Encode renders an event as JSON.
func Encode(event ports.OrderChanged) ([]byte, error) {
	msg := message{
		Kind:       string(event.Kind),
		Version:    event.Version,
		OccurredAt: event.OccurredAt.UTC(),
	}
	if event.Kind != ports.OrderResync {
		msg.OrderID = event.OrderID.String()
		msg.Status = event.Status.String()
	}
	return json.Marshal(msg)
}

// Decode parses an event produced by Encode.
func Decode(raw []byte) (ports.OrderChanged, error) {
	var msg message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return ports.OrderChanged{}, fmt.Errorf("decode order change: %w", err)
	}

	event := ports.OrderChanged{
		Kind:       ports.OrderChangeKind(msg.Kind),
		Version:    msg.Version,
		OccurredAt: msg.OccurredAt,
	}
	switch event.Kind {
	case ports.OrderResync:
		return event, nil
	case ports.OrderCreated, ports.OrderUpdated, ports.OrderDeleted:
	default:
		return ports.OrderChanged{}, fmt.Errorf("decode order change: unknown kind %q", msg.Kind)
	}

	id, err := kernel.UUIDFromString(msg.OrderID)
	if err != nil {
		return ports.OrderChanged{}, fmt.Errorf("decode order change: %w", err)
	}
	status, err := order.ParseStatus(msg.Status)
	if err != nil {
		return ports.OrderChanged{}, fmt.Errorf("decode order change: %w", err)
	}
	event.OrderID = id
	event.Status = status
	return event, nil
}

// Resync is the event a feed emits after it may have dropped notifications.
func Resync(at time.Time) ports.OrderChanged {
	return ports.OrderChanged{Kind: ports.OrderResync, OccurredAt: at.UTC()}
}
