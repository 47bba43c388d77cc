package errs

import (
	"errors"
	"fmt"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

type InsufficientBalanceError struct {
	CustomerID string
	Balance    int64
	Requested  int64
}

func NewInsufficientBalanceError(customerID string, balance int64, requested int64) *InsufficientBalanceError {
	return &InsufficientBalanceError{
		CustomerID: customerID,
		Balance:    balance,
		Requested:  requested,
	}
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s: customer %s has %d points, requested %d",
		ErrInsufficientBalance, sanitize(e.CustomerID), e.Balance, e.Requested)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}
