package commands

import (
	"errors"

	"cafe/internal/core/domain/model/actor"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand moves an order along one edge of the status graph.
type ChangeOrderStatusCommand struct {
	actor   actor.Actor
	orderID kernel.UUID
	to      order.Status

	guard guard.ConstructorGuard
}

func NewChangeOrderStatusCommand(who actor.Actor, orderID kernel.UUID, to order.Status) (ChangeOrderStatusCommand, error) {
	if err := errors.Join(who.Validate(), orderID.Validate(), to.Validate()); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return ChangeOrderStatusCommand{
		actor:   who,
		orderID: orderID,
		to:      to,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) Actor() actor.Actor {
	return c.actor
}

func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ChangeOrderStatusCommand) To() order.Status {
	return c.to
}
