package queries

import (
	"context"
	"errors"
	"strings"

	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery retrieves orders, optionally narrowed to one status, one
// order type and a free-text search. The delivery board asks for Pending
// delivery orders.
//
// Example:
//
//	query := NewListOrdersQuery(order.Pending, order.Delivery, "")
//	handler := NewListOrdersQueryHandler(store)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list orders: %w", err)
//	}
type ListOrdersQuery struct {
	filter ports.OrderFilter
	guard  guard.ConstructorGuard
}

// NewListOrdersQuery creates the query. order.Unknown, order.UnknownType and
// an empty search mean no filter on that field. Surrounding whitespace in
// search is ignored.
func NewListOrdersQuery(status order.Status, orderType order.Type, search string) ListOrdersQuery {
	return ListOrdersQuery{
		filter: ports.OrderFilter{Status: status, Type: orderType, Query: strings.TrimSpace(search)},
		guard:  guard.NewConstructorGuard(),
	}
}

// Validate ensures the query was created through the constructor.
// Returns ErrListOrdersQueryIsNotConstructed if validation fails.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

type ListOrdersQueryHandler struct {
	orders ports.OrderReader
}

func NewListOrdersQueryHandler(orders ports.OrderReader) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{orders: orders}
}

// Handle returns matching orders, oldest first.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.orders.List(ctx, query.filter)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, NewOrderView(o))
	}
	return views, nil
}
