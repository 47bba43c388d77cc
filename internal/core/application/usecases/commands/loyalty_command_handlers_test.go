package commands_test

import (
	"testing"
	"time"

	"cafe/internal/core/application/usecases/commands"
	"cafe/internal/core/domain/model/actor"
	"cafe/internal/core/domain/model/loyalty"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/domain/services"
	"cafe/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAccruePointsCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	account, err := loyalty.RestoreAccount("ada", 10, time.Now())
	require.NoError(t, err)

	repo := new(MockLoyaltyRepository)
	repo.On("Accrue", ctx, "ada", int64(10), mock.AnythingOfType("time.Time")).Return(account, nil).Once()

	cmd, err := commands.NewAccruePointsCommand(newActor(t, actor.Cashier), " ada ", 10)
	require.NoError(t, err)

	got, err := commands.NewAccruePointsCommandHandler(repo, services.NewAuthorizationPolicy()).Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Points())
	repo.AssertExpectations(t)
}

func TestNewAccruePointsCommand_RejectsNonPositivePoints(t *testing.T) {
	_, err := commands.NewAccruePointsCommand(newActor(t, actor.Cashier), "ada", 0)
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = commands.NewRedeemPointsCommand(newActor(t, actor.Cashier), "", 5)
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestRedeemPointsCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	repo := new(MockLoyaltyRepository)
	repo.On("Redeem", ctx, "ada", int64(6), mock.AnythingOfType("time.Time")).
		Return(nil, errs.NewInsufficientBalanceError("ada", 5, 6)).Once()

	cmd, err := commands.NewRedeemPointsCommand(newActor(t, actor.Admin), "ada", 6)
	require.NoError(t, err)

	_, err = commands.NewRedeemPointsCommandHandler(repo, services.NewAuthorizationPolicy()).Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrInsufficientBalance)
	repo.AssertExpectations(t)
}

func TestRedeemPointsCommandHandler_Handle_CourierIsDenied(t *testing.T) {
	repo := new(MockLoyaltyRepository)
	cmd, err := commands.NewRedeemPointsCommand(newActor(t, actor.Courier), "ada", 1)
	require.NoError(t, err)

	_, err = commands.NewRedeemPointsCommandHandler(repo, services.NewAuthorizationPolicy()).Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrPermissionDenied)
	repo.AssertNotCalled(t, "Redeem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAccrueOrderPointsCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	o := f.placeOrder(t, order.Pickup, commands.DraftLine{ProductID: "P1", Quantity: 3}) // 13.50
	o = f.setStatus(t, o, order.Processing)
	o = f.setStatus(t, o, order.Completed)

	program, err := loyalty.NewProgram(decimal.NewFromInt(2), nil)
	require.NoError(t, err)
	account, err := loyalty.RestoreAccount("Ada", 27, time.Now())
	require.NoError(t, err)

	repo := new(MockLoyaltyRepository)
	repo.On("GetProgram", ctx).Return(program, nil).Once()
	repo.On("AccrueOnce", ctx, mock.MatchedBy(func(e loyalty.AccrualEntry) bool {
		return e.OrderID().IsEqual(o.ID()) && e.CustomerID() == "Ada" && e.Points() == 27
	})).Return(account, true, nil).Once()

	cmd, err := commands.NewAccrueOrderPointsCommand(f.admin, o.ID())
	require.NoError(t, err)

	h := commands.NewAccrueOrderPointsCommandHandler(f.store, repo, services.NewAuthorizationPolicy())
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, int64(27), result.Points)
	assert.Equal(t, int64(27), result.Account.Points())
	repo.AssertExpectations(t)
}

func TestAccrueOrderPointsCommandHandler_Handle_RequiresCompletedOrder(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, order.Pickup)
	repo := new(MockLoyaltyRepository)

	cmd, err := commands.NewAccrueOrderPointsCommand(f.admin, o.ID())
	require.NoError(t, err)

	h := commands.NewAccrueOrderPointsCommandHandler(f.store, repo, services.NewAuthorizationPolicy())
	_, err = h.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrValidation)
	repo.AssertNotCalled(t, "AccrueOnce", mock.Anything, mock.Anything)
}

func TestUpdateLoyaltyProgramCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	reward, err := loyalty.NewReward(100, "Free coffee")
	require.NoError(t, err)
	program, err := loyalty.NewProgram(decimal.NewFromInt(1), []loyalty.Reward{reward})
	require.NoError(t, err)

	repo := new(MockLoyaltyRepository)
	repo.On("SaveProgram", ctx, program).Return(nil).Once()
	h := commands.NewUpdateLoyaltyProgramCommandHandler(repo, services.NewAuthorizationPolicy())

	cmd, err := commands.NewUpdateLoyaltyProgramCommand(newActor(t, actor.Cashier), program)
	require.NoError(t, err)
	require.ErrorIs(t, h.Handle(ctx, cmd), errs.ErrPermissionDenied)

	cmd, err = commands.NewUpdateLoyaltyProgramCommand(newActor(t, actor.Admin), program)
	require.NoError(t, err)
	require.NoError(t, h.Handle(ctx, cmd))
	repo.AssertExpectations(t)
}
