package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root of the fulfillment core. It owns the priced lines,
// the derived total, the lifecycle status and the courier claim.
//
// Order follows these invariants:
//   - Has a valid identifier, a customer name and at least one line item
//   - total equals the sum of line subtotals and is never set from outside
//   - Delivery orders have a delivery location; pickup orders have none
//   - A courier is only ever set on a delivery order that has left Pending
//   - Status changes follow the Status state machine
//
// version is the optimistic concurrency token. New orders start at 0; the store
// assigns 1 on insert and increments it on every committed update.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// customerName is who the order is for
	customerName string

	// orderType is pickup or delivery
	orderType Type

	// lineItems are the priced product lines in the order they were entered
	lineItems []LineItem

	// total is the recomputed sum of line subtotals
	total kernel.Money

	// status is the current lifecycle state
	status Status

	// location is the delivery address, nil for pickup orders
	location *kernel.DeliveryLocation

	// courierID and courierName identify the courier who claimed the order
	courierID   *kernel.UUID
	courierName string

	// createdAt is set once at creation, in UTC
	createdAt time.Time

	version int64

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a Pending order without a courier. The total is computed from
// the lines.
//
// Parameters:
//   - id: unique identifier for the order
//   - customerName: required, trimmed
//   - orderType: Pickup or Delivery
//   - lineItems: at least one line built with NewLineItem
//   - location: required for Delivery, must be nil for Pickup
//   - createdAt: creation time, stored in UTC
//
// Returns:
//   - *Order: the created order if all validations pass
//   - error: joined validation errors otherwise
//
// Example:
//
//	latte, _ := order.NewLineItem("P1", "Latte", "coffee", price, 2)
//	o, err := order.NewOrder(kernel.NewUUID(), "Ada", order.Pickup, []order.LineItem{latte}, nil, time.Now())
func NewOrder(
	id kernel.UUID,
	customerName string,
	orderType Type,
	lineItems []LineItem,
	location *kernel.DeliveryLocation,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerName(customerName),
		o.setFulfillment(orderType, location),
		o.setLineItems(lineItems),
		o.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order from storage. It applies the same validation as
// NewOrder plus the courier invariants, and recomputes the total from the lines.
func RestoreOrder(
	id kernel.UUID,
	customerName string,
	orderType Type,
	lineItems []LineItem,
	location *kernel.DeliveryLocation,
	status Status,
	courierID *kernel.UUID,
	courierName string,
	createdAt time.Time,
	version int64,
) (*Order, error) {
	o, err := NewOrder(id, customerName, orderType, lineItems, location, createdAt)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}
	o.status = status
	o.version = version

	if courierID != nil {
		if err = errors.Join(courierID.Validate(), o.validateCanHaveCourier()); err != nil {
			return nil, err
		}
		if status == Pending {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"status is invalid",
				fmt.Errorf("%s is not a valid status to have a courier", status.String()),
			)
		}
		claimedBy := *courierID
		o.courierID = &claimedBy
		o.courierName = courierName
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerName() string {
	return o.customerName
}

// LoyaltyCustomerID is the loyalty account the order accrues points to. Orders
// correlate to accounts by customer name.
func (o *Order) LoyaltyCustomerID() string {
	return o.customerName
}

func (o *Order) Type() Type {
	return o.orderType
}

// LineItems returns a copy of the order lines.
func (o *Order) LineItems() []LineItem {
	items := make([]LineItem, len(o.lineItems))
	copy(items, o.lineItems)
	return items
}

func (o *Order) Total() kernel.Money {
	return o.total
}

func (o *Order) Status() Status {
	return o.status
}

// DeliveryLocation returns the delivery address, or nil for pickup orders.
func (o *Order) DeliveryLocation() *kernel.DeliveryLocation {
	return o.location
}

// CourierID returns the claiming courier, or nil when unclaimed.
func (o *Order) CourierID() *kernel.UUID {
	return o.courierID
}

func (o *Order) CourierName() string {
	return o.courierName
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) Version() int64 {
	return o.version
}

// CommitVersion records the version the store assigned to the order after a
// successful write. Only repositories call it.
func (o *Order) CommitVersion(version int64) {
	o.version = version
}

// ValidateAssignment checks, without side effects, whether the order can be
// claimed by a courier now.
//
// Returns:
//   - a ConflictError with reason already_assigned if a courier holds the order
//   - a validation error for pickup orders or when the order is not Pending
//   - nil otherwise
func (o *Order) ValidateAssignment() error {
	if o.courierID != nil {
		return errs.NewConflictError(errs.ConflictAlreadyAssigned, "order", o.id.String())
	}
	if err := o.validateCanHaveCourier(); err != nil {
		return err
	}
	return o.status.ValidateTransition(Processing)
}

// AssignCourier records the courier claim and moves the order from Pending to
// Processing in a single step.
//
// Example:
//
//	if err := o.AssignCourier(courierID, "Sam"); err != nil {
//	    // already claimed, pickup order, or not Pending
//	}
func (o *Order) AssignCourier(courierID kernel.UUID, courierName string) error {
	if err := o.ValidateAssignment(); err != nil {
		return err
	}
	if err := courierID.Validate(); err != nil {
		return err
	}
	courierName = strings.TrimSpace(courierName)
	if courierName == "" {
		return errs.NewValueIsRequiredError("courierName")
	}

	o.courierID = &courierID
	o.courierName = courierName
	o.status = Processing
	return nil
}

// ChangeStatus moves the order along one edge of the state machine.
func (o *Order) ChangeStatus(to Status) error {
	next, err := o.status.TransitionTo(to)
	if err != nil {
		return err
	}

	o.status = next
	return nil
}

// Cancel is ChangeStatus(Cancelled).
func (o *Order) Cancel() error {
	return o.ChangeStatus(Cancelled)
}

// ValidateDeletion allows hard deletes of Pending and Cancelled orders only, so
// completed sales never disappear from the statistics.
func (o *Order) ValidateDeletion() error {
	if o.status != Pending && o.status != Cancelled {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s orders cannot be deleted", o.status.String()),
		)
	}
	return nil
}

// Clone returns a deep copy that shares no mutable state with o.
func (o *Order) Clone() *Order {
	c := *o
	c.lineItems = o.LineItems()
	if o.location != nil {
		loc := *o.location
		c.location = &loc
	}
	if o.courierID != nil {
		id := *o.courierID
		c.courierID = &id
	}
	return &c
}

func (o *Order) validateCanHaveCourier() error {
	if o.orderType != Delivery {
		return errs.NewValueIsInvalidErrorWithCause(
			"orderType",
			fmt.Errorf("%s orders cannot have a courier", o.orderType.String()),
		)
	}
	return nil
}

func (o *Order) recomputeTotal() {
	total := kernel.ZeroMoney()
	for _, item := range o.lineItems {
		total = total.Add(item.Subtotal())
	}
	o.total = total
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("customerName")
	}
	o.customerName = name
	return nil
}

// setFulfillment enforces that a location is present exactly for delivery orders.
func (o *Order) setFulfillment(orderType Type, location *kernel.DeliveryLocation) error {
	if err := orderType.Validate(); err != nil {
		return err
	}
	o.orderType = orderType

	switch {
	case orderType == Delivery && location == nil:
		return errs.NewValueIsRequiredError("deliveryLocation")
	case orderType == Pickup && location != nil:
		return errs.NewValueIsInvalidErrorWithCause("deliveryLocation", errors.New("pickup orders have no delivery location"))
	case location != nil:
		if err := location.Validate(); err != nil {
			return err
		}
		loc := *location
		o.location = &loc
	}
	return nil
}

func (o *Order) setLineItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("lineItems")
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("lineItems[%d]", i), err)
		}
	}
	o.lineItems = make([]LineItem, len(items))
	copy(o.lineItems, items)
	o.recomputeTotal()
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	o.createdAt = createdAt.UTC()
	return nil
}
