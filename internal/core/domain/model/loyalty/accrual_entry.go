package loyalty

import (
	"errors"
	"fmt"
	"time"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/pkg/errs"
)

// AccrualEntry records that an order's points were granted. Stores keep at most
// one entry per order, which makes order accrual idempotent.
type AccrualEntry struct {
	orderID    kernel.UUID
	customerID string
	points     int64
	createdAt  time.Time
}

// NewAccrualEntry validates an entry. Points may be zero for orders too small to
// earn anything; the entry still marks the order as settled.
func NewAccrualEntry(orderID kernel.UUID, customerID string, points int64, createdAt time.Time) (AccrualEntry, error) {
	id, idErr := NormalizeCustomerID(customerID)
	var pointsErr error
	if points < 0 {
		pointsErr = errs.NewValueIsInvalidErrorWithCause("points", fmt.Errorf("%d is negative", points))
	}
	if err := errors.Join(orderID.Validate(), idErr, pointsErr); err != nil {
		return AccrualEntry{}, err
	}
	return AccrualEntry{
		orderID:    orderID,
		customerID: id,
		points:     points,
		createdAt:  createdAt.UTC(),
	}, nil
}

func (e AccrualEntry) OrderID() kernel.UUID {
	return e.orderID
}

func (e AccrualEntry) CustomerID() string {
	return e.customerID
}

func (e AccrualEntry) Points() int64 {
	return e.points
}

func (e AccrualEntry) CreatedAt() time.Time {
	return e.createdAt
}
