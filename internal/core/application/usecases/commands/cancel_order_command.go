package commands

import (
	"context"
	"errors"

	"cafe/internal/core/domain/model/actor"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand cancels a Pending or Processing order.
type CancelOrderCommand struct {
	actor   actor.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCancelOrderCommand(who actor.Actor, orderID kernel.UUID) (CancelOrderCommand, error) {
	if err := errors.Join(who.Validate(), orderID.Validate()); err != nil {
		return CancelOrderCommand{}, err
	}

	return CancelOrderCommand{
		actor:   who,
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

// CancelOrderCommandHandler is a status change to Cancelled with the same
// checks and errors.
type CancelOrderCommandHandler struct {
	statusHandler ChangeOrderStatusCommandHandler
}

func NewCancelOrderCommandHandler(statusHandler ChangeOrderStatusCommandHandler) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{statusHandler: statusHandler}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	change, err := NewChangeOrderStatusCommand(cmd.actor, cmd.orderID, order.Cancelled)
	if err != nil {
		return nil, err
	}

	return h.statusHandler.Handle(ctx, change)
}
