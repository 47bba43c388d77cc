package commands

import (
	"context"
	"errors"

	"cafe/internal/core/domain/model/actor"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/guard"
)

var ErrDuplicateOrderCommandIsNotConstructed = errors.New(
	"DuplicateOrderCommand must be created via NewDuplicateOrderCommand constructor",
)

// DuplicateOrderCommand places a new order with the same customer, type,
// location and lines as an existing one.
type DuplicateOrderCommand struct {
	actor         actor.Actor
	sourceOrderID kernel.UUID
	newOrderID    kernel.UUID

	guard guard.ConstructorGuard
}

func NewDuplicateOrderCommand(who actor.Actor, sourceOrderID kernel.UUID, newOrderID kernel.UUID) (DuplicateOrderCommand, error) {
	if err := errors.Join(who.Validate(), sourceOrderID.Validate(), newOrderID.Validate()); err != nil {
		return DuplicateOrderCommand{}, err
	}

	return DuplicateOrderCommand{
		actor:         who,
		sourceOrderID: sourceOrderID,
		newOrderID:    newOrderID,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c DuplicateOrderCommand) Validate() error {
	return c.guard.Validate(ErrDuplicateOrderCommandIsNotConstructed)
}

// DuplicateOrderCommandHandler re-prices the copied lines from the current
// catalog. The copy starts Pending with no courier regardless of the source.
type DuplicateOrderCommandHandler struct {
	orders  ports.OrderReader
	creator CreateOrderCommandHandler
}

func NewDuplicateOrderCommandHandler(orders ports.OrderReader, creator CreateOrderCommandHandler) DuplicateOrderCommandHandler {
	return DuplicateOrderCommandHandler{
		orders:  orders,
		creator: creator,
	}
}

func (h DuplicateOrderCommandHandler) Handle(ctx context.Context, cmd DuplicateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	source, err := h.orders.Get(ctx, cmd.sourceOrderID)
	if err != nil {
		return nil, err
	}

	items := source.LineItems()
	lines := make([]DraftLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, DraftLine{ProductID: item.ProductID(), Quantity: item.Quantity()})
	}

	create, err := NewCreateOrderCommand(
		cmd.actor,
		cmd.newOrderID,
		source.CustomerName(),
		source.Type(),
		lines,
		source.DeliveryLocation(),
	)
	if err != nil {
		return nil, err
	}

	return h.creator.Handle(ctx, create)
}
