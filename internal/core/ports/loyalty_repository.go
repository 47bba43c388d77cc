package ports

import (
	"context"
	"time"

	"cafe/internal/core/domain/model/loyalty"
)

// LoyaltyRepository stores balances, accrual entries and the program. Every
// balance change is an atomic read-modify-write per customer.
type LoyaltyRepository interface {
	// GetAccount returns the account or an ObjectNotFoundError.
	GetAccount(ctx context.Context, customerID string) (*loyalty.Account, error)

	// Accrue adds points, opening the account at zero if absent.
	Accrue(ctx context.Context, customerID string, points int64, at time.Time) (*loyalty.Account, error)

	// AccrueOnce stores entry and adds its points in one atomic step. When an
	// entry for the same order already exists nothing changes and applied is false.
	AccrueOnce(ctx context.Context, entry loyalty.AccrualEntry) (account *loyalty.Account, applied bool, err error)

	// Redeem subtracts points or returns an InsufficientBalanceError. An absent
	// account has a balance of zero.
	Redeem(ctx context.Context, customerID string, points int64, at time.Time) (*loyalty.Account, error)

	// GetProgram returns the saved program, or loyalty.DefaultProgram when none was saved.
	GetProgram(ctx context.Context) (loyalty.Program, error)

	// SaveProgram replaces the program.
	SaveProgram(ctx context.Context, program loyalty.Program) error
}
