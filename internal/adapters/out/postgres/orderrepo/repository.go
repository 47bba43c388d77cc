package orderrepo

import (
	"context"
	"errors"
	"strings"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
//
// Update and Delete are conditioned on the version the aggregate was read at:
//
//	UPDATE orders SET ..., version = version + 1 WHERE id = ? AND version = ?
//
// Zero affected rows means the order is gone or another writer got there
// first. The database must be opened with TranslateError so duplicate keys
// surface as gorm.ErrDuplicatedKey.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker changeTracker
}

// changeTracker collects the changes to publish once the transaction commits.
type changeTracker interface {
	TrackChange(kind ports.OrderChangeKind, aggregate *order.Order)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker changeTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order at version 1.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = 1
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause(errs.ConflictAlreadyExists, "orderID", aggregate.ID().String(), err)
		}
		return err
	}

	aggregate.CommitVersion(dto.Version)
	r.tracker.TrackChange(ports.OrderCreated, aggregate)
	return nil
}

// Update writes status and courier fields if the stored version is unchanged.
// Lines, customer and location never change after creation.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"status":       dto.Status,
			"courier_id":   dto.CourierID,
			"courier_name": dto.CourierName,
			"version":      dto.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.missedWrite(ctx, aggregate.ID())
	}

	aggregate.CommitVersion(dto.Version + 1)
	r.tracker.TrackChange(ports.OrderUpdated, aggregate)
	return nil
}

// Delete removes the order if the stored version is unchanged.
func (r *GormOrderRepository) Delete(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND version = ?", aggregate.ID().Bytes(), aggregate.Version()).
		Delete(&OrderDTO{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.missedWrite(ctx, aggregate.ID())
	}

	r.tracker.TrackChange(ports.OrderDeleted, aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderID", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List retrieves matching orders, oldest first.
func (r *GormOrderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	query := r.db.WithContext(ctx).Order("created_at ASC, id ASC")
	if filter.Status != order.Unknown {
		query = query.Where("status = ?", int(filter.Status))
	}
	if filter.Type != order.UnknownType {
		query = query.Where("type = ?", int(filter.Type))
	}
	if filter.Query != "" {
		pattern := "%" + likeEscaper.Replace(filter.Query) + "%"
		query = query.Where(
			"(customer_name ILIKE ? OR location_address ILIKE ? OR location_city ILIKE ?)",
			pattern, pattern, pattern,
		)
	}

	var dtos []OrderDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// missedWrite tells a vanished order from a lost version race.
func (r *GormOrderRepository) missedWrite(ctx context.Context, id kernel.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("orderID", id.String())
	}
	return errs.NewConflictError(errs.ConflictVersionMismatch, "orderID", id.String())
}
