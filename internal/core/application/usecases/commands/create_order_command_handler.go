package commands

import (
	"context"
	"errors"
	"fmt"

	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/domain/services"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/errs"
)

// CreateOrderCommandHandler places new orders. Lines are priced from the
// catalog, so the client never supplies prices or totals.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, catalog, services.NewAuthorizationPolicy())
//	created, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	// created.Status() == order.Pending
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.Catalog
	policy     services.AuthorizationPolicy
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	catalog ports.Catalog,
	policy services.AuthorizationPolicy,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		policy:     policy,
	}
}

// Handle authorizes the actor, prices every line and stores the order as Pending.
// Unknown products are validation errors.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := h.policy.Authorize(cmd.Actor(), services.CreateOrderAction(), nil); err != nil {
		return nil, err
	}

	items, err := h.priceLines(ctx, cmd.Lines())
	if err != nil {
		return nil, err
	}

	created, err := order.NewOrder(cmd.OrderID(), cmd.CustomerName(), cmd.OrderType(), items, cmd.DeliveryLocation(), nowUTC())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}

func (h CreateOrderCommandHandler) priceLines(ctx context.Context, lines []DraftLine) ([]order.LineItem, error) {
	items := make([]order.LineItem, 0, len(lines))
	for i, line := range lines {
		product, err := h.catalog.GetProduct(ctx, line.ProductID)
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("lineItems[%d].productId", i), err)
		}
		if err != nil {
			return nil, err
		}

		item, err := order.NewLineItem(product.ID(), product.Name(), product.Category(), product.Price(), line.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
