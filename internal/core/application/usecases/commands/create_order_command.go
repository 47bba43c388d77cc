package commands

import (
	"errors"
	"fmt"
	"strings"

	"cafe/internal/core/domain/model/actor"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/pkg/errs"
	"cafe/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// DraftLine is a line as entered at the counter: a product and a quantity.
// Names and prices are resolved from the catalog by the handler.
type DraftLine struct {
	ProductID string
	Quantity  int
}

// CreateOrderCommand represents a request to place a new order.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(cashier, kernel.NewUUID(), "Ada", order.Pickup,
//	    []DraftLine{{ProductID: "P1", Quantity: 2}}, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	actor        actor.Actor
	orderID      kernel.UUID
	customerName string
	orderType    order.Type
	lines        []DraftLine
	location     *kernel.DeliveryLocation

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the shape of the request. Whether products
// exist and whether the location matches the order type is checked by the handler.
func NewCreateOrderCommand(
	who actor.Actor,
	orderID kernel.UUID,
	customerName string,
	orderType order.Type,
	lines []DraftLine,
	location *kernel.DeliveryLocation,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		location: location,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(who),
		cmd.setOrderID(orderID),
		cmd.setCustomerName(customerName),
		cmd.setOrderType(orderType),
		cmd.setLines(lines),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Actor() actor.Actor {
	return c.actor
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) CustomerName() string {
	return c.customerName
}

func (c CreateOrderCommand) OrderType() order.Type {
	return c.orderType
}

// Lines returns a copy of the draft lines.
func (c CreateOrderCommand) Lines() []DraftLine {
	lines := make([]DraftLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c CreateOrderCommand) DeliveryLocation() *kernel.DeliveryLocation {
	return c.location
}

func (c *CreateOrderCommand) setActor(who actor.Actor) error {
	if err := who.Validate(); err != nil {
		return err
	}
	c.actor = who
	return nil
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("customerName")
	}

	c.customerName = name
	return nil
}

func (c *CreateOrderCommand) setOrderType(orderType order.Type) error {
	if err := orderType.Validate(); err != nil {
		return err
	}

	c.orderType = orderType
	return nil
}

func (c *CreateOrderCommand) setLines(lines []DraftLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("lineItems")
	}

	var lineErrs []error
	for i, line := range lines {
		if strings.TrimSpace(line.ProductID) == "" {
			lineErrs = append(lineErrs, errs.NewValueIsRequiredError(fmt.Sprintf("lineItems[%d].productId", i)))
		}
		if line.Quantity < order.MinQuantity || line.Quantity > order.MaxQuantity {
			lineErrs = append(lineErrs, errs.NewValueIsOutOfRangeError(
				fmt.Sprintf("lineItems[%d].quantity", i), line.Quantity, order.MinQuantity, order.MaxQuantity))
		}
	}
	if err := errors.Join(lineErrs...); err != nil {
		return err
	}

	c.lines = make([]DraftLine, len(lines))
	copy(c.lines, lines)
	return nil
}
