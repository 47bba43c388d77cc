package loyalty_test

import (
	"testing"
	"time"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/loyalty"
	"cafe/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProgram(t *testing.T) {
	coffee, err := loyalty.NewReward(50, "Free coffee")
	require.NoError(t, err)
	cake, err := loyalty.NewReward(120, "Free cake")
	require.NoError(t, err)

	t.Run("points are floored", func(t *testing.T) {
		p, err := loyalty.NewProgram(decimal.RequireFromString("1.5"), []loyalty.Reward{coffee, cake})
		require.NoError(t, err)
		total, _ := kernel.MoneyFromString("9.99")

		assert.Equal(t, int64(14), p.PointsFor(total))
	})

	t.Run("eligible rewards keep program order", func(t *testing.T) {
		p, _ := loyalty.NewProgram(decimal.NewFromInt(1), []loyalty.Reward{cake, coffee})

		eligible := p.EligibleRewards(130)

		require.Len(t, eligible, 2)
		assert.Equal(t, "Free cake", eligible[0].Name())
		assert.Empty(t, p.EligibleRewards(49))
	})

	t.Run("negative rate is rejected", func(t *testing.T) {
		_, err := loyalty.NewProgram(decimal.NewFromInt(-1), nil)

		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("rewards must be constructed", func(t *testing.T) {
		_, err := loyalty.NewProgram(decimal.NewFromInt(1), []loyalty.Reward{{}})

		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("default program grants one point per unit", func(t *testing.T) {
		p := loyalty.DefaultProgram()
		total, _ := kernel.MoneyFromString("12.80")

		require.NoError(t, p.Validate())
		assert.Equal(t, int64(12), p.PointsFor(total))
		assert.Empty(t, p.Rewards())
	})
}

func TestNewReward(t *testing.T) {
	_, err := loyalty.NewReward(0, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pointsThreshold")
	assert.Contains(t, err.Error(), "rewardName")
}

func TestNewAccrualEntry(t *testing.T) {
	orderID := kernel.NewUUID()

	e, err := loyalty.NewAccrualEntry(orderID, "alice", 0, time.Now())
	require.NoError(t, err)
	assert.True(t, e.OrderID().IsEqual(orderID))
	assert.Zero(t, e.Points())

	_, err = loyalty.NewAccrualEntry(kernel.UUID{}, "", -1, time.Now())
	require.Error(t, err)
}
