package commands

import (
	"context"
	"fmt"

	"cafe/internal/core/domain/model/loyalty"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/domain/services"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/errs"
)

// AccruePointsCommandHandler adds points to a balance, opening the account
// on first use.
type AccruePointsCommandHandler struct {
	loyalty ports.LoyaltyRepository
	policy  services.AuthorizationPolicy
}

func NewAccruePointsCommandHandler(repo ports.LoyaltyRepository, policy services.AuthorizationPolicy) AccruePointsCommandHandler {
	return AccruePointsCommandHandler{loyalty: repo, policy: policy}
}

func (h AccruePointsCommandHandler) Handle(ctx context.Context, cmd AdjustPointsCommand) (*loyalty.Account, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := h.policy.Authorize(cmd.actor, services.AdjustLoyaltyAction(), nil); err != nil {
		return nil, err
	}
	return h.loyalty.Accrue(ctx, cmd.customerID, cmd.points, nowUTC())
}

// RedeemPointsCommandHandler takes points from a balance. The balance never
// goes negative: a redemption larger than the balance fails with
// InsufficientBalanceError and changes nothing.
type RedeemPointsCommandHandler struct {
	loyalty ports.LoyaltyRepository
	policy  services.AuthorizationPolicy
}

func NewRedeemPointsCommandHandler(repo ports.LoyaltyRepository, policy services.AuthorizationPolicy) RedeemPointsCommandHandler {
	return RedeemPointsCommandHandler{loyalty: repo, policy: policy}
}

func (h RedeemPointsCommandHandler) Handle(ctx context.Context, cmd AdjustPointsCommand) (*loyalty.Account, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := h.policy.Authorize(cmd.actor, services.AdjustLoyaltyAction(), nil); err != nil {
		return nil, err
	}
	return h.loyalty.Redeem(ctx, cmd.customerID, cmd.points, nowUTC())
}

// AccrualResult reports what an order accrual did.
type AccrualResult struct {
	Account *loyalty.Account
	Points  int64
	// Applied is false when the order had already been credited.
	Applied bool
}

// AccrueOrderPointsCommandHandler credits a completed order to its customer's
// account at most once per order.
type AccrueOrderPointsCommandHandler struct {
	orders  ports.OrderReader
	loyalty ports.LoyaltyRepository
	policy  services.AuthorizationPolicy
}

func NewAccrueOrderPointsCommandHandler(
	orders ports.OrderReader,
	repo ports.LoyaltyRepository,
	policy services.AuthorizationPolicy,
) AccrueOrderPointsCommandHandler {
	return AccrueOrderPointsCommandHandler{orders: orders, loyalty: repo, policy: policy}
}

func (h AccrueOrderPointsCommandHandler) Handle(ctx context.Context, cmd AccrueOrderPointsCommand) (AccrualResult, error) {
	if err := cmd.Validate(); err != nil {
		return AccrualResult{}, err
	}
	if err := h.policy.Authorize(cmd.actor, services.AdjustLoyaltyAction(), nil); err != nil {
		return AccrualResult{}, err
	}

	o, err := h.orders.Get(ctx, cmd.orderID)
	if err != nil {
		return AccrualResult{}, err
	}
	if o.Status() != order.Completed {
		return AccrualResult{}, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s orders do not earn points", o.Status().String()),
		)
	}

	program, err := h.loyalty.GetProgram(ctx)
	if err != nil {
		return AccrualResult{}, err
	}

	points := program.PointsFor(o.Total())
	entry, err := loyalty.NewAccrualEntry(o.ID(), o.LoyaltyCustomerID(), points, nowUTC())
	if err != nil {
		return AccrualResult{}, err
	}

	account, applied, err := h.loyalty.AccrueOnce(ctx, entry)
	if err != nil {
		return AccrualResult{}, err
	}

	return AccrualResult{Account: account, Points: points, Applied: applied}, nil
}

// UpdateLoyaltyProgramCommandHandler stores a new program. Admin only.
type UpdateLoyaltyProgramCommandHandler struct {
	loyalty ports.LoyaltyRepository
	policy  services.AuthorizationPolicy
}

func NewUpdateLoyaltyProgramCommandHandler(
	repo ports.LoyaltyRepository,
	policy services.AuthorizationPolicy,
) UpdateLoyaltyProgramCommandHandler {
	return UpdateLoyaltyProgramCommandHandler{loyalty: repo, policy: policy}
}

func (h UpdateLoyaltyProgramCommandHandler) Handle(ctx context.Context, cmd UpdateLoyaltyProgramCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := h.policy.Authorize(cmd.actor, services.UpdateProgramAction(), nil); err != nil {
		return err
	}
	return h.loyalty.SaveProgram(ctx, cmd.program)
}
