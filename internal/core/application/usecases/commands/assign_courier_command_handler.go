package commands

import (
	"context"
	"errors"
	"time"

	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/domain/services"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/errs"
)

const (
	// DefaultAssignAttempts bounds how often a claim is retried after losing a
	// version race to an unrelated write.
	DefaultAssignAttempts = 3

	// DefaultAssignTimeout bounds the whole claim including retries.
	DefaultAssignTimeout = 2 * time.Second
)

// AssignCourierCommandHandler claims orders for couriers. A claim is a
// compare-and-set on the order version, so of any number of concurrent claims
// for the same order exactly one succeeds and the others get a ConflictError
// with reason already_assigned.
//
// Example:
//
//	handler := NewAssignCourierCommandHandler(uowFactory, couriers, services.NewAuthorizationPolicy())
//	updated, err := handler.Handle(ctx, cmd)
//	switch {
//	case errs.IsConflictReason(err, errs.ConflictAlreadyAssigned):
//	    log.Println("Order already claimed")
//	case errors.Is(err, errs.ErrPermissionDenied):
//	    log.Println("Couriers may only claim for themselves")
//	case err != nil:
//	    log.Printf("Assignment failed: %v", err)
//	}
type AssignCourierCommandHandler struct {
	uowFactory  OrderUoWFactory
	couriers    ports.CourierDirectory
	policy      services.AuthorizationPolicy
	maxAttempts int
	timeout     time.Duration
}

// NewAssignCourierCommandHandler creates a handler with DefaultAssignAttempts
// and DefaultAssignTimeout.
func NewAssignCourierCommandHandler(
	uowFactory OrderUoWFactory,
	couriers ports.CourierDirectory,
	policy services.AuthorizationPolicy,
) AssignCourierCommandHandler {
	return AssignCourierCommandHandler{
		uowFactory:  uowFactory,
		couriers:    couriers,
		policy:      policy,
		maxAttempts: DefaultAssignAttempts,
		timeout:     DefaultAssignTimeout,
	}
}

// Handle resolves the courier and claims the order.
//
// Returns:
//   - the updated order, now Processing and holding the courier
//   - ValueIsInvalidError when the courier is unknown or the order is not claimable
//   - ConflictError (already_assigned) when another courier holds the order
//   - ConflictError (version_mismatch) when every attempt lost a version race
//   - UnavailableError when the deadline expires
func (h AssignCourierCommandHandler) Handle(ctx context.Context, cmd AssignCourierCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	claimant, err := h.couriers.Get(ctx, cmd.CourierID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, errs.NewValueIsInvalidErrorWithCause("courierId", err)
	}
	if err != nil {
		return nil, h.wrapDeadline(ctx, err)
	}

	for attempt := 1; ; attempt++ {
		updated, err := h.tryAssign(ctx, cmd, claimant.Name())
		if err == nil {
			return updated, nil
		}
		if !errs.IsConflictReason(err, errs.ConflictVersionMismatch) || attempt >= h.maxAttempts {
			return nil, h.wrapDeadline(ctx, err)
		}
		if ctx.Err() != nil {
			return nil, h.wrapDeadline(ctx, err)
		}
	}
}

func (h AssignCourierCommandHandler) tryAssign(
	ctx context.Context,
	cmd AssignCourierCommand,
	courierName string,
) (*order.Order, error) {
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

	if err = o.ValidateAssignment(); err != nil {
		return nil, err
	}

	if err = h.policy.Authorize(cmd.Actor(), services.AssignCourierAction(cmd.CourierID()), o); err != nil {
		return nil, err
	}

	if err = o.AssignCourier(cmd.CourierID(), courierName); err != nil {
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

// wrapDeadline reports an expired claim as Unavailable unless err is already a
// definitive outcome. A lost version race is not definitive.
func (h AssignCourierCommandHandler) wrapDeadline(ctx context.Context, err error) error {
	if ctx.Err() == nil || isDefinitive(err) {
		return err
	}
	return errs.NewUnavailableErrorWithCause("assign courier", err)
}

func isDefinitive(err error) bool {
	switch {
	case errs.IsConflictReason(err, errs.ConflictVersionMismatch):
		return false
	case errors.Is(err, errs.ErrConflict),
		errors.Is(err, errs.ErrValidation),
		errors.Is(err, errs.ErrPermissionDenied),
		errors.Is(err, errs.ErrObjectNotFound):
		return true
	}
	return false
}
