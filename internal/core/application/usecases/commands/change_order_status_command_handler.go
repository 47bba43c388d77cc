package commands

import (
	"context"

	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/domain/services"
)

// ChangeOrderStatusCommandHandler applies status changes.
//
// The status graph is checked before permissions: an impossible transition is a
// validation error for every role, a possible one that the role may not perform
// is PermissionDenied. The write is a compare-and-set on the version read, so a
// concurrent change surfaces as a version_mismatch ConflictError.
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     services.AuthorizationPolicy
}

func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	policy services.AuthorizationPolicy,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = o.Status().ValidateTransition(cmd.To()); err != nil {
		return nil, err
	}

	if err = h.policy.Authorize(cmd.Actor(), services.ChangeStatusAction(cmd.To()), o); err != nil {
		return nil, err
	}

	if err = o.ChangeStatus(cmd.To()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
