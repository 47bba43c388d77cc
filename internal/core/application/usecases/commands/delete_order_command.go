package commands

import (
	"context"
	"errors"

	"cafe/internal/core/domain/model/actor"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/services"
	"cafe/internal/pkg/guard"
)

var ErrDeleteOrderCommandIsNotConstructed = errors.New(
	"DeleteOrderCommand must be created via NewDeleteOrderCommand constructor",
)

// DeleteOrderCommand hard-deletes a Pending or Cancelled order. Admin only.
type DeleteOrderCommand struct {
	actor   actor.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeleteOrderCommand(who actor.Actor, orderID kernel.UUID) (DeleteOrderCommand, error) {
	if err := errors.Join(who.Validate(), orderID.Validate()); err != nil {
		return DeleteOrderCommand{}, err
	}

	return DeleteOrderCommand{
		actor:   who,
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c DeleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrDeleteOrderCommandIsNotConstructed)
}

type DeleteOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     services.AuthorizationPolicy
}

func NewDeleteOrderCommandHandler(uowFactory OrderUoWFactory, policy services.AuthorizationPolicy) DeleteOrderCommandHandler {
	return DeleteOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

func (h DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.orderID)
	if err != nil {
		return err
	}

	if err = h.policy.Authorize(cmd.actor, services.DeleteOrderAction(), o); err != nil {
		return err
	}

	if err = o.ValidateDeletion(); err != nil {
		return err
	}

	if err = repo.Delete(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
