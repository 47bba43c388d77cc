// Package ports defines the contracts between the fulfillment core and the
// adapters that store orders, resolve collaborators and carry change events.
package ports

import (
	"context"
	"strings"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
)

// OrderFilter narrows List. Zero fields match everything.
type OrderFilter struct {
	Status order.Status
	Type   order.Type

	// Query is a case-insensitive substring of the customer name or of the
	// delivery address or city.
	Query string
}

// Matches reports whether o passes the filter.
func (f OrderFilter) Matches(o *order.Order) bool {
	if f.Status != order.Unknown && o.Status() != f.Status {
		return false
	}
	if f.Type != order.UnknownType && o.Type() != f.Type {
		return false
	}
	if f.Query != "" && !matchesQuery(o, strings.ToLower(f.Query)) {
		return false
	}
	return true
}

func matchesQuery(o *order.Order, query string) bool {
	if strings.Contains(strings.ToLower(o.CustomerName()), query) {
		return true
	}
	loc := o.DeliveryLocation()
	if loc == nil {
		return false
	}
	return strings.Contains(strings.ToLower(loc.Address()), query) ||
		strings.Contains(strings.ToLower(loc.City()), query)
}

// OrderReader is the read side of the order store.
type OrderReader interface {
	// Get returns the order or an ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// List returns matching orders in snapshot order: createdAt ascending, then id.
	List(ctx context.Context, filter OrderFilter) ([]*order.Order, error)
}

// OrderRepository is the write side of the order store. Every write is a
// compare-and-set on the version the aggregate was read at; a lost race yields
// a ConflictError with reason version_mismatch and changes nothing. After a
// successful write the store calls CommitVersion on the aggregate.
type OrderRepository interface {
	OrderReader

	// Add inserts a new order at version 1.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the order if the stored version still equals aggregate.Version().
	Update(ctx context.Context, aggregate *order.Order) error

	// Delete removes the order if the stored version still equals aggregate.Version().
	Delete(ctx context.Context, aggregate *order.Order) error
}
