package memory

import (
	"context"
	"errors"
	"time"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/ports"
)

var ErrNoActiveTransaction = errors.New("no active transaction")

type writeOp struct {
	kind      ports.OrderChangeKind
	aggregate *order.Order
}

// UnitOfWork buffers writes until Commit. Reads go straight to the store and
// see committed state only.
type UnitOfWork struct {
	store  *OrderStore
	ops    []writeOp
	active bool
}

func (uow *UnitOfWork) Begin(_ context.Context) error {
	if uow.active {
		return nil
	}
	uow.active = true
	uow.ops = nil
	return nil
}

// Commit applies the buffered writes atomically, then publishes one change
// event per write. A failed commit changes nothing.
func (uow *UnitOfWork) Commit(ctx context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}
	ops := uow.ops
	uow.active = false
	uow.ops = nil

	events, publisher, err := uow.store.apply(ops, time.Now())
	if err != nil {
		return err
	}
	uow.store.publish(ctx, publisher, events)
	return nil
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}
	uow.active = false
	uow.ops = nil
	return nil
}

func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: uow}
}

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.uow.store.Get(ctx, id)
}

func (r *orderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	return r.uow.store.List(ctx, filter)
}

func (r *orderRepository) Add(_ context.Context, aggregate *order.Order) error {
	return r.track(ports.OrderCreated, aggregate)
}

// Update fails fast when the stored version already moved on. The check is
// repeated at Commit.
func (r *orderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if err := r.precheck(aggregate); err != nil {
		return err
	}
	return r.track(ports.OrderUpdated, aggregate)
}

func (r *orderRepository) Delete(_ context.Context, aggregate *order.Order) error {
	if err := r.precheck(aggregate); err != nil {
		return err
	}
	return r.track(ports.OrderDeleted, aggregate)
}

func (r *orderRepository) precheck(aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	r.uow.store.mu.RLock()
	defer r.uow.store.mu.RUnlock()
	return r.uow.store.check(writeOp{kind: ports.OrderUpdated, aggregate: aggregate})
}

func (r *orderRepository) track(kind ports.OrderChangeKind, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if !r.uow.active {
		return ErrNoActiveTransaction
	}
	r.uow.ops = append(r.uow.ops, writeOp{kind: kind, aggregate: aggregate})
	return nil
}
