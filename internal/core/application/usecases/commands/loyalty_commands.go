package commands

import (
	"errors"

	"cafe/internal/core/domain/model/actor"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/loyalty"
	"cafe/internal/pkg/guard"
)

var (
	ErrAdjustPointsCommandIsNotConstructed = errors.New(
		"AdjustPointsCommand must be created via NewAccruePointsCommand or NewRedeemPointsCommand constructor",
	)
	ErrAccrueOrderPointsCommandIsNotConstructed = errors.New(
		"AccrueOrderPointsCommand must be created via NewAccrueOrderPointsCommand constructor",
	)
	ErrUpdateLoyaltyProgramCommandIsNotConstructed = errors.New(
		"UpdateLoyaltyProgramCommand must be created via NewUpdateLoyaltyProgramCommand constructor",
	)
)

// AdjustPointsCommand changes a loyalty balance by a positive number of points.
// Whether the points are added or taken is decided by the handler it is sent to.
type AdjustPointsCommand struct {
	actor      actor.Actor
	customerID string
	points     int64

	guard guard.ConstructorGuard
}

// NewAccruePointsCommand builds a manual accrual.
func NewAccruePointsCommand(who actor.Actor, customerID string, points int64) (AdjustPointsCommand, error) {
	return newAdjustPointsCommand(who, customerID, points)
}

// NewRedeemPointsCommand builds a redemption.
func NewRedeemPointsCommand(who actor.Actor, customerID string, points int64) (AdjustPointsCommand, error) {
	return newAdjustPointsCommand(who, customerID, points)
}

func newAdjustPointsCommand(who actor.Actor, customerID string, points int64) (AdjustPointsCommand, error) {
	normalized, idErr := loyalty.NormalizeCustomerID(customerID)
	if err := errors.Join(who.Validate(), idErr, loyalty.ValidatePoints(points)); err != nil {
		return AdjustPointsCommand{}, err
	}

	return AdjustPointsCommand{
		actor:      who,
		customerID: normalized,
		points:     points,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AdjustPointsCommand) Validate() error {
	return c.guard.Validate(ErrAdjustPointsCommandIsNotConstructed)
}

func (c AdjustPointsCommand) CustomerID() string {
	return c.customerID
}

func (c AdjustPointsCommand) Points() int64 {
	return c.points
}

// AccrueOrderPointsCommand credits the points earned by a completed order.
type AccrueOrderPointsCommand struct {
	actor   actor.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAccrueOrderPointsCommand(who actor.Actor, orderID kernel.UUID) (AccrueOrderPointsCommand, error) {
	if err := errors.Join(who.Validate(), orderID.Validate()); err != nil {
		return AccrueOrderPointsCommand{}, err
	}

	return AccrueOrderPointsCommand{
		actor:   who,
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AccrueOrderPointsCommand) Validate() error {
	return c.guard.Validate(ErrAccrueOrderPointsCommandIsNotConstructed)
}

// UpdateLoyaltyProgramCommand replaces the earning rate and reward tiers.
type UpdateLoyaltyProgramCommand struct {
	actor   actor.Actor
	program loyalty.Program

	guard guard.ConstructorGuard
}

func NewUpdateLoyaltyProgramCommand(who actor.Actor, program loyalty.Program) (UpdateLoyaltyProgramCommand, error) {
	if err := errors.Join(who.Validate(), program.Validate()); err != nil {
		return UpdateLoyaltyProgramCommand{}, err
	}

	return UpdateLoyaltyProgramCommand{
		actor:   who,
		program: program,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateLoyaltyProgramCommand) Validate() error {
	return c.guard.Validate(ErrUpdateLoyaltyProgramCommandIsNotConstructed)
}
