package actor_test

import (
	"testing"

	"cafe/internal/core/domain/model/actor"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := map[string]actor.Role{
		"admin":    actor.Admin,
		"Cashier":  actor.Cashier,
		" courier": actor.Courier,
	}
	for input, want := range tests {
		got, err := actor.ParseRole(input)

		require.NoError(t, err, input)
		assert.Equal(t, want, got)
	}

	_, err := actor.ParseRole("unknown")
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestNewActor(t *testing.T) {
	t.Run("should keep id and role", func(t *testing.T) {
		id := kernel.NewUUID()

		a, err := actor.NewActor(id, actor.Cashier)

		require.NoError(t, err)
		require.NoError(t, a.Validate())
		assert.True(t, a.ID().IsEqual(id))
		assert.Equal(t, actor.Cashier, a.Role())
		assert.Equal(t, "cashier:"+id.String(), a.String())
	})

	t.Run("should reject missing id and role", func(t *testing.T) {
		_, err := actor.NewActor(kernel.UUID{}, actor.UnknownRole)

		require.Error(t, err)
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		assert.Contains(t, err.Error(), "role")
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var a actor.Actor

		assert.Equal(t, actor.ErrActorIsNotConstructed, a.Validate())
	})
}
