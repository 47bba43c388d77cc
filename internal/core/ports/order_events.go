package ports

import (
	"context"
	"time"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/domain/model/stats"
)

// OrderChangeKind describes what happened to an order.
type OrderChangeKind string

const (
	OrderCreated OrderChangeKind = "created"
	OrderUpdated OrderChangeKind = "updated"
	OrderDeleted OrderChangeKind = "deleted"
	// OrderResync carries no order. Feeds emit it after they may have missed events.
	OrderResync OrderChangeKind = "resync"
)

// OrderChanged is the change notification emitted after a committed write.
// Delivery is at least once and unordered; consumers treat it as a hint to
// re-read the order set.
type OrderChanged struct {
	OrderID    kernel.UUID
	Kind       OrderChangeKind
	Status     order.Status
	Version    int64
	OccurredAt time.Time
}

// NewOrderChanged describes the committed state of o.
func NewOrderChanged(kind OrderChangeKind, o *order.Order, at time.Time) OrderChanged {
	return OrderChanged{
		OrderID:    o.ID(),
		Kind:       kind,
		Status:     o.Status(),
		Version:    o.Version(),
		OccurredAt: at.UTC(),
	}
}

// OrderEventPublisher delivers change notifications to a feed.
type OrderEventPublisher interface {
	Publish(ctx context.Context, events ...OrderChanged) error
}

// StatsProvider exposes the latest fully computed statistics.
type StatsProvider interface {
	Latest() stats.AggregateStats
}
