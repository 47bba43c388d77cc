package kernel_test

import (
	"testing"

	"cafe/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeliveryLocation(t *testing.T) {
	t.Run("should trim and keep both parts", func(t *testing.T) {
		loc, err := kernel.NewDeliveryLocation("  12 Baker St ", "London")

		require.NoError(t, err)
		require.NoError(t, loc.Validate())
		assert.Equal(t, "12 Baker St", loc.Address())
		assert.Equal(t, "London", loc.City())
		assert.Equal(t, "12 Baker St, London", loc.String())
	})

	t.Run("should report every missing part", func(t *testing.T) {
		_, err := kernel.NewDeliveryLocation(" ", "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "value is required: address")
		assert.Contains(t, err.Error(), "value is required: city")
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var loc kernel.DeliveryLocation

		assert.Equal(t, kernel.ErrDeliveryLocationIsNotConstructed, loc.Validate())
	})

	t.Run("compares by value", func(t *testing.T) {
		a, _ := kernel.NewDeliveryLocation("1 Main St", "Oslo")
		b, _ := kernel.NewDeliveryLocation("1 Main St", "Oslo")
		c, _ := kernel.NewDeliveryLocation("2 Main St", "Oslo")

		assert.True(t, a.IsEqual(b))
		assert.False(t, a.IsEqual(c))
	})
}
