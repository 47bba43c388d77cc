package loyalty

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"cafe/internal/pkg/errs"
	"cafe/internal/pkg/guard"
)

// ErrAccountIsNotConstructed is returned when an Account was not created through a constructor.
var ErrAccountIsNotConstructed = errors.New("Account must be created via NewAccount or RestoreAccount")

// Account is the points balance of one customer.
type Account struct {
	customerID  string
	points      int64
	lastUpdated time.Time
	guard       guard.ConstructorGuard
}

// NewAccount opens an empty account.
func NewAccount(customerID string, at time.Time) (*Account, error) {
	id, err := NormalizeCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	return &Account{
		customerID:  id,
		lastUpdated: at.UTC(),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// RestoreAccount rebuilds an account read from storage.
func RestoreAccount(customerID string, points int64, lastUpdated time.Time) (*Account, error) {
	a, err := NewAccount(customerID, lastUpdated)
	if err != nil {
		return nil, err
	}
	if points < 0 {
		return nil, errs.NewValueIsOutOfRangeError("points", points, 0, int64(math.MaxInt64))
	}
	a.points = points
	return a, nil
}

// NormalizeCustomerID trims the identifier and rejects empty values.
func NormalizeCustomerID(customerID string) (string, error) {
	id := strings.TrimSpace(customerID)
	if id == "" {
		return "", errs.NewValueIsRequiredError("customerId")
	}
	return id, nil
}

// ValidatePoints rejects non-positive point amounts.
func ValidatePoints(points int64) error {
	if points <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("points", fmt.Errorf("%d is not greater than 0", points))
	}
	return nil
}

func (a *Account) CustomerID() string {
	return a.customerID
}

func (a *Account) Points() int64 {
	return a.points
}

func (a *Account) LastUpdated() time.Time {
	return a.lastUpdated
}

func (a *Account) Validate() error {
	if a == nil {
		return ErrAccountIsNotConstructed
	}
	return a.guard.Validate(ErrAccountIsNotConstructed)
}

// Accrue adds points to the balance.
func (a *Account) Accrue(points int64, at time.Time) error {
	if err := ValidatePoints(points); err != nil {
		return err
	}
	if a.points > math.MaxInt64-points {
		return errs.NewValueIsOutOfRangeError("points", points, 1, math.MaxInt64-a.points)
	}
	a.points += points
	a.lastUpdated = at.UTC()
	return nil
}

// Redeem subtracts points. It returns an InsufficientBalanceError and leaves the
// balance untouched when the balance is smaller than points.
func (a *Account) Redeem(points int64, at time.Time) error {
	if err := ValidatePoints(points); err != nil {
		return err
	}
	if a.points < points {
		return errs.NewInsufficientBalanceError(a.customerID, a.points, points)
	}
	a.points -= points
	a.lastUpdated = at.UTC()
	return nil
}
