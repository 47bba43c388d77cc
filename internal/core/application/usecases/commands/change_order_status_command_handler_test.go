package commands_test

import (
	"testing"

	"cafe/internal/core/application/usecases/commands"
	"cafe/internal/core/domain/model/actor"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeOrderStatusCommandHandler_Handle(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, order.Pickup)

	cmd, err := commands.NewChangeOrderStatusCommand(f.cashier, o.ID(), order.Processing)
	require.NoError(t, err)
	updated, err := f.changeStatus.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Processing, updated.Status())
	assert.Equal(t, int64(2), updated.Version())

	cmd, err = commands.NewChangeOrderStatusCommand(f.cashier, o.ID(), order.Completed)
	require.NoError(t, err)
	updated, err = f.changeStatus.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Completed, updated.Status())
	assert.Equal(t, "9.00", updated.Total().String())
}

func TestChangeOrderStatusCommandHandler_Handle_IllegalEdgesAreValidationErrors(t *testing.T) {
	tests := map[string]struct {
		prepare []order.Status
		to      order.Status
	}{
		"skip processing":    {to: order.Completed},
		"same state":         {to: order.Pending},
		"back to pending":    {prepare: []order.Status{order.Processing}, to: order.Pending},
		"completed is final": {prepare: []order.Status{order.Processing, order.Completed}, to: order.Cancelled},
		"cancelled is final": {prepare: []order.Status{order.Cancelled}, to: order.Processing},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			o := f.placeOrder(t, order.Pickup)
			for _, s := range tc.prepare {
				o = f.setStatus(t, o, s)
			}

			cmd, err := commands.NewChangeOrderStatusCommand(f.admin, o.ID(), tc.to)
			require.NoError(t, err)
			_, err = f.changeStatus.Handle(t.Context(), cmd)
			require.ErrorIs(t, err, errs.ErrValidation)
			assert.Equal(t, errs.KindValidation, errs.KindOf(err))

			stored, err := f.store.Get(t.Context(), o.ID())
			require.NoError(t, err)
			assert.Equal(t, o.Status(), stored.Status())
			assert.Equal(t, o.Version(), stored.Version())
		})
	}
}

func TestChangeOrderStatusCommandHandler_Handle_CourierCompletesOwnOrder(t *testing.T) {
	f := newFixture(t)
	sam := f.courier(t, "Sam")
	kim := f.courier(t, "Kim")
	o := f.placeOrder(t, order.Delivery)

	assign, err := commands.NewAssignCourierCommand(sam, o.ID(), sam.ID())
	require.NoError(t, err)
	_, err = f.assign.Handle(t.Context(), assign)
	require.NoError(t, err)

	cmd, err := commands.NewChangeOrderStatusCommand(kim, o.ID(), order.Completed)
	require.NoError(t, err)
	_, err = f.changeStatus.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrPermissionDenied)

	cmd, err = commands.NewChangeOrderStatusCommand(sam, o.ID(), order.Cancelled)
	require.NoError(t, err)
	_, err = f.changeStatus.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrPermissionDenied)

	cmd, err = commands.NewChangeOrderStatusCommand(sam, o.ID(), order.Completed)
	require.NoError(t, err)
	updated, err := f.changeStatus.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Completed, updated.Status())
	assert.Equal(t, "Sam", updated.CourierName())
}

func TestChangeOrderStatusCommandHandler_Handle_NotFound(t *testing.T) {
	f := newFixture(t)

	cmd, err := commands.NewChangeOrderStatusCommand(f.admin, kernel.NewUUID(), order.Cancelled)
	require.NoError(t, err)
	_, err = f.changeStatus.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestNewChangeOrderStatusCommand_RejectsUnknownStatus(t *testing.T) {
	_, err := commands.NewChangeOrderStatusCommand(newActor(t, actor.Admin), kernel.NewUUID(), order.Unknown)
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestCancelOrderCommandHandler_Handle(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, order.Delivery)

	cmd, err := commands.NewCancelOrderCommand(f.cashier, o.ID())
	require.NoError(t, err)
	updated, err := f.cancel.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, updated.Status())

	_, err = f.cancel.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = f.cancel.Handle(t.Context(), commands.CancelOrderCommand{})
	require.ErrorIs(t, err, commands.ErrCancelOrderCommandIsNotConstructed)
}
