// Package postgres provides the GORM-based Unit of Work for the order store.
// A unit of work maintains the list of orders changed by a business
// transaction and publishes their change notifications once the transaction
// commits.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db, publisher, logger)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency:
//   - Each UnitOfWork instance holds its own transaction; goroutines must not share one
//   - Lost updates are prevented by the version condition on every write, not by row locks
//   - Notifications are published after commit, so a failed transaction publishes nothing
package postgres

import (
	"context"
	"log/slog"
	"time"

	"cafe/internal/adapters/out/postgres/orderrepo"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Each business operation gets a fresh unit of work isolated from other
// concurrent operations.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	publisher ports.OrderEventPublisher
	logger    *slog.Logger
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
// publisher may be nil when nothing consumes change notifications.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db, publisher, logger)
func NewGormUnitOfWorkFactory(
	db *gorm.DB,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) *GormUnitOfWorkFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &GormUnitOfWorkFactory{
		db:        db,
		publisher: publisher,
		logger:    logger,
	}
}

// Create produces a new UnitOfWork instance with empty change tracking.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:        f.db,
		publisher: f.publisher,
		logger:    f.logger,
		changes:   make([]ports.OrderChanged, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and the change
// notifications of the orders written in it.
type GormUnitOfWork struct {
	db        *gorm.DB
	tx        *gorm.DB
	publisher ports.OrderEventPublisher
	logger    *slog.Logger
	changes   []ports.OrderChanged
}

// Begin initiates a new database transaction for the unit of work.
// Multiple calls to Begin on the same instance do not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	uow.changes = uow.changes[:0]
	return nil
}

// Commit finalizes the transaction and then publishes the tracked changes.
// A publish failure is logged and does not fail the commit: the write is
// already durable and feeds are at least once via periodic resync.
//
// Returns error if no active transaction exists or if the commit operation fails.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.changes = uow.changes[:0]
		return err
	}

	uow.publish(ctx)
	return nil
}

// Rollback discards all changes made within the current transaction.
// After rollback, the transaction is closed and cannot be reused.
//
// Returns error if no active transaction exists or if the rollback operation fails.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.changes = uow.changes[:0]
	return err
}

// OrderRepository provides access to order persistence within the unit of work.
// Operations execute within the current transaction if one is active,
// otherwise they use the main database connection.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return orderrepo.NewGormOrderRepository(db, uow)
}

// TrackChange records a written order. Repositories call it after every
// successful write; the notification is built from the committed version.
func (uow *GormUnitOfWork) TrackChange(kind ports.OrderChangeKind, aggregate *order.Order) {
	uow.changes = append(uow.changes, ports.NewOrderChanged(kind, aggregate, time.Now()))
}

func (uow *GormUnitOfWork) publish(ctx context.Context) {
	if len(uow.changes) == 0 {
		return
	}

	events := make([]ports.OrderChanged, len(uow.changes))
	copy(events, uow.changes)
	uow.changes = uow.changes[:0]

	if uow.publisher == nil {
		return
	}
	if err := uow.publisher.Publish(ctx, events...); err != nil {
		uow.logger.WarnContext(ctx, "publish order changes",
			slog.Int("events", len(events)),
			slog.String("error", err.Error()))
	}
}
