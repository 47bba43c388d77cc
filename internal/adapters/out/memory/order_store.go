// Package memory holds the in-process adapters: a versioned order store with
// unit of work support, the product catalog and the courier directory.
//
// The order store keeps deep copies of every order. Writes are buffered by a
// unit of work and applied under the store mutex at Commit, each one a
// compare-and-set on the stored version. Change events are published after the
// mutex is released.
package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"cafe/internal/core/application/aggregation"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/domain/services"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/errs"
)

// OrderStore is the in-memory order store.
type OrderStore struct {
	mu       sync.RWMutex
	orders   map[string]*order.Order
	sequence uint64

	publisher ports.OrderEventPublisher
	logger    *slog.Logger
}

// NewOrderStore creates an empty store. publisher may be nil.
func NewOrderStore(publisher ports.OrderEventPublisher, logger *slog.Logger) *OrderStore {
	return &OrderStore{
		orders:    make(map[string]*order.Order),
		publisher: publisher,
		logger:    logger,
	}
}

// SetPublisher replaces the change event publisher. It is meant for wiring at
// startup, before the store serves requests.
func (s *OrderStore) SetPublisher(publisher ports.OrderEventPublisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publisher = publisher
}

// Create starts a new unit of work.
func (s *OrderStore) Create() ports.UnitOfWork {
	return &UnitOfWork{store: s}
}

func (s *OrderStore) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.orders[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderID", id.String())
	}
	return stored.Clone(), nil
}

func (s *OrderStore) List(_ context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*order.Order, 0, len(s.orders))
	for _, stored := range s.orders {
		if filter.Matches(stored) {
			result = append(result, stored.Clone())
		}
	}
	return services.SortSnapshot(result), nil
}

// Snapshot returns every order together with the store sequence, which
// increases with every committed unit of work.
func (s *OrderStore) Snapshot(_ context.Context) (aggregation.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]*order.Order, 0, len(s.orders))
	for _, stored := range s.orders {
		orders = append(orders, stored.Clone())
	}
	return aggregation.Snapshot{Orders: services.SortSnapshot(orders), Sequence: s.sequence}, nil
}

// apply validates every buffered write against the stored versions and then
// applies all of them, or none.
func (s *OrderStore) apply(ops []writeOp, at time.Time) ([]ports.OrderChanged, ports.OrderEventPublisher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, op := range ops {
		if err := s.check(op); err != nil {
			return nil, nil, err
		}
	}

	events := make([]ports.OrderChanged, 0, len(ops))
	for _, op := range ops {
		key := op.aggregate.ID().String()
		switch op.kind {
		case ports.OrderCreated:
			op.aggregate.CommitVersion(1)
			s.orders[key] = op.aggregate.Clone()
		case ports.OrderUpdated:
			op.aggregate.CommitVersion(op.aggregate.Version() + 1)
			s.orders[key] = op.aggregate.Clone()
		case ports.OrderDeleted:
			delete(s.orders, key)
		}
		events = append(events, ports.NewOrderChanged(op.kind, op.aggregate, at))
	}
	if len(ops) > 0 {
		s.sequence++
	}
	return events, s.publisher, nil
}

func (s *OrderStore) check(op writeOp) error {
	key := op.aggregate.ID().String()
	stored, exists := s.orders[key]

	if op.kind == ports.OrderCreated {
		if exists {
			return errs.NewConflictError(errs.ConflictAlreadyExists, "orderID", key)
		}
		return nil
	}

	if !exists {
		return errs.NewObjectNotFoundError("orderID", key)
	}
	if stored.Version() != op.aggregate.Version() {
		return errs.NewConflictError(errs.ConflictVersionMismatch, "orderID", key)
	}
	return nil
}

func (s *OrderStore) publish(ctx context.Context, publisher ports.OrderEventPublisher, events []ports.OrderChanged) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish order changes",
			slog.Int("events", len(events)),
			slog.String("error", err.Error()))
	}
}
