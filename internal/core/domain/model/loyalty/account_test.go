package loyalty_test

import (
	"math"
	"testing"
	"time"

	"cafe/internal/core/domain/model/loyalty"
	"cafe/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_AccrueAndRedeem(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("new account starts at zero", func(t *testing.T) {
		a, err := loyalty.NewAccount(" alice ", now)

		require.NoError(t, err)
		assert.Equal(t, "alice", a.CustomerID())
		assert.Zero(t, a.Points())
	})

	t.Run("accrue then redeem", func(t *testing.T) {
		a, _ := loyalty.NewAccount("alice", now)

		require.NoError(t, a.Accrue(10, now))
		require.NoError(t, a.Redeem(4, now.Add(time.Hour)))

		assert.Equal(t, int64(6), a.Points())
		assert.Equal(t, now.Add(time.Hour), a.LastUpdated())
	})

	t.Run("redeeming more than the balance is rejected, not clamped", func(t *testing.T) {
		a, _ := loyalty.RestoreAccount("alice", 5, now)

		err := a.Redeem(6, now)

		require.ErrorIs(t, err, errs.ErrInsufficientBalance)
		assert.Equal(t, int64(5), a.Points())
	})

	t.Run("non-positive amounts are validation errors", func(t *testing.T) {
		a, _ := loyalty.NewAccount("alice", now)

		require.ErrorIs(t, a.Accrue(0, now), errs.ErrValidation)
		require.ErrorIs(t, a.Redeem(-1, now), errs.ErrValidation)
	})

	t.Run("accrue refuses to overflow", func(t *testing.T) {
		a, _ := loyalty.RestoreAccount("alice", math.MaxInt64-1, now)

		require.ErrorIs(t, a.Accrue(2, now), errs.ErrValueIsOutOfRange)
		assert.Equal(t, int64(math.MaxInt64-1), a.Points())
	})

	t.Run("restore rejects negative balances", func(t *testing.T) {
		_, err := loyalty.RestoreAccount("alice", -1, now)

		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("customer id is required", func(t *testing.T) {
		_, err := loyalty.NewAccount("  ", now)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}
