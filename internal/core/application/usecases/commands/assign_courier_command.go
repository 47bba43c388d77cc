package commands

import (
	"errors"

	"cafe/internal/core/domain/model/actor"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/pkg/guard"
)

var ErrAssignCourierCommandIsNotConstructed = errors.New(
	"AssignCourierCommand must be created via NewAssignCourierCommand constructor",
)

// AssignCourierCommand claims a pending delivery order for a courier.
//
// Example:
//
//	cmd, err := NewAssignCourierCommand(courierActor, orderID, courierActor.ID())
//	handler := NewAssignCourierCommandHandler(uowFactory, couriers, policy)
//	updated, err := handler.Handle(ctx, cmd)
//	if errs.IsConflictReason(err, errs.ConflictAlreadyAssigned) {
//	    log.Printf("order %s was claimed by someone else", orderID)
//	}
type AssignCourierCommand struct {
	actor     actor.Actor
	orderID   kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignCourierCommand creates a command to claim orderID for courierID.
func NewAssignCourierCommand(who actor.Actor, orderID kernel.UUID, courierID kernel.UUID) (AssignCourierCommand, error) {
	if err := errors.Join(who.Validate(), orderID.Validate(), courierID.Validate()); err != nil {
		return AssignCourierCommand{}, err
	}

	return AssignCourierCommand{
		actor:     who,
		orderID:   orderID,
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignCourierCommandIsNotConstructed if validation fails.
func (c AssignCourierCommand) Validate() error {
	return c.guard.Validate(
		ErrAssignCourierCommandIsNotConstructed,
	)
}

func (c AssignCourierCommand) Actor() actor.Actor {
	return c.actor
}

func (c AssignCourierCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AssignCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}
