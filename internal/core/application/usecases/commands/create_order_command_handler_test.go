package commands_test

import (
	"errors"
	"testing"

	"cafe/internal/core/application/usecases/commands"
	"cafe/internal/core/domain/model/actor"
	"cafe/internal/core/domain/model/catalog"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/domain/services"
	"cafe/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCreateCommand(t *testing.T, who actor.Actor) commands.CreateOrderCommand {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(who, kernel.NewUUID(), "Ada", order.Pickup,
		[]commands.DraftLine{{ProductID: "P1", Quantity: 2}}, nil)
	require.NoError(t, err)
	return cmd
}

func TestNewCreateOrderCommand(t *testing.T) {
	cashier := newActor(t, actor.Cashier)

	_, err := commands.NewCreateOrderCommand(cashier, kernel.NewUUID(), " ", order.Pickup, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewCreateOrderCommand(cashier, kernel.NewUUID(), "Ada", order.Pickup,
		[]commands.DraftLine{{ProductID: "P1", Quantity: 0}}, nil)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	err = commands.CreateOrderCommand{}.Validate()
	assert.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCommand(t, newActor(t, actor.Cashier))

	catalogMock := new(MockCatalog)
	catalogMock.On("GetProduct", ctx, "P1").Return(newProduct(t, "P1", "4.50"), nil).Once()

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, catalogMock, services.NewAuthorizationPolicy())
	created, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Pending, created.Status())
	assert.Equal(t, "9.00", created.Total().String())
	assert.Nil(t, created.CourierID())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
	catalogMock.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CreateOrderCommand{} // not constructed properly
	factory := new(MockOrderUoWFactory)
	h := commands.NewCreateOrderCommandHandler(factory, new(MockCatalog), services.NewAuthorizationPolicy())
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
}

func TestCreateOrderCommandHandler_Handle_CourierIsDenied(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCommand(t, newActor(t, actor.Courier))
	factory := new(MockOrderUoWFactory)

	h := commands.NewCreateOrderCommandHandler(factory, new(MockCatalog), services.NewAuthorizationPolicy())
	_, err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrPermissionDenied)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_UnknownProduct(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCommand(t, newActor(t, actor.Cashier))

	catalogMock := new(MockCatalog)
	catalogMock.On("GetProduct", ctx, "P1").
		Return(catalog.Product{}, errs.NewObjectNotFoundError("productId", "P1")).Once()
	factory := new(MockOrderUoWFactory)

	h := commands.NewCreateOrderCommandHandler(factory, catalogMock, services.NewAuthorizationPolicy())
	_, err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrValidation)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_DeliveryWithoutLocation(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand(newActor(t, actor.Cashier), kernel.NewUUID(), "Ada", order.Delivery,
		[]commands.DraftLine{{ProductID: "P1", Quantity: 1}}, nil)
	require.NoError(t, err)

	catalogMock := new(MockCatalog)
	catalogMock.On("GetProduct", ctx, "P1").Return(newProduct(t, "P1", "3.00"), nil).Once()

	h := commands.NewCreateOrderCommandHandler(new(MockOrderUoWFactory), catalogMock, services.NewAuthorizationPolicy())
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestCreateOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCommand(t, newActor(t, actor.Cashier))

	catalogMock := new(MockCatalog)
	catalogMock.On("GetProduct", ctx, "P1").Return(newProduct(t, "P1", "4.50"), nil).Once()

	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	h := commands.NewCreateOrderCommandHandler(factory, catalogMock, services.NewAuthorizationPolicy())
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
}

func TestCreateOrderCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCommand(t, newActor(t, actor.Admin))

	catalogMock := new(MockCatalog)
	catalogMock.On("GetProduct", ctx, "P1").Return(newProduct(t, "P1", "4.50"), nil).Once()

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(errors.New("add error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, catalogMock, services.NewAuthorizationPolicy())
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCommand(t, newActor(t, actor.Cashier))

	catalogMock := new(MockCatalog)
	catalogMock.On("GetProduct", ctx, "P1").Return(newProduct(t, "P1", "4.50"), nil).Once()

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, catalogMock, services.NewAuthorizationPolicy())
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}
