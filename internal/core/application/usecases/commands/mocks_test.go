package commands_test

import (
	"context"
	"testing"
	"time"

	"cafe/internal/core/application/usecases/commands"
	"cafe/internal/core/domain/model/actor"
	"cafe/internal/core/domain/model/catalog"
	"cafe/internal/core/domain/model/courier"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/loyalty"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) GetProduct(ctx context.Context, productID string) (catalog.Product, error) {
	args := m.Called(ctx, productID)
	p, _ := args.Get(0).(catalog.Product)
	return p, args.Error(1)
}

type MockCourierDirectory struct{ mock.Mock }

func (m *MockCourierDirectory) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*courier.Courier)
	return c, args.Error(1)
}

func (m *MockCourierDirectory) List(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).([]*courier.Courier)
	return c, args.Error(1)
}

type MockLoyaltyRepository struct{ mock.Mock }

func (m *MockLoyaltyRepository) GetAccount(ctx context.Context, customerID string) (*loyalty.Account, error) {
	args := m.Called(ctx, customerID)
	a, _ := args.Get(0).(*loyalty.Account)
	return a, args.Error(1)
}

func (m *MockLoyaltyRepository) Accrue(ctx context.Context, customerID string, points int64, at time.Time) (*loyalty.Account, error) {
	args := m.Called(ctx, customerID, points, at)
	a, _ := args.Get(0).(*loyalty.Account)
	return a, args.Error(1)
}

func (m *MockLoyaltyRepository) AccrueOnce(ctx context.Context, entry loyalty.AccrualEntry) (*loyalty.Account, bool, error) {
	args := m.Called(ctx, entry)
	a, _ := args.Get(0).(*loyalty.Account)
	return a, args.Bool(1), args.Error(2)
}

func (m *MockLoyaltyRepository) Redeem(ctx context.Context, customerID string, points int64, at time.Time) (*loyalty.Account, error) {
	args := m.Called(ctx, customerID, points, at)
	a, _ := args.Get(0).(*loyalty.Account)
	return a, args.Error(1)
}

func (m *MockLoyaltyRepository) GetProgram(ctx context.Context) (loyalty.Program, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).(loyalty.Program)
	return p, args.Error(1)
}

func (m *MockLoyaltyRepository) SaveProgram(ctx context.Context, program loyalty.Program) error {
	args := m.Called(ctx, program)
	return args.Error(0)
}

func newActor(t *testing.T, role actor.Role) actor.Actor {
	t.Helper()
	a, err := actor.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func newProduct(t *testing.T, id string, price string) catalog.Product {
	t.Helper()
	money, err := kernel.MoneyFromString(price)
	require.NoError(t, err)
	p, err := catalog.NewProduct(id, "Product "+id, "coffee", money)
	require.NoError(t, err)
	return p
}

func newDeliveryOrder(t *testing.T) *order.Order {
	t.Helper()
	price, err := kernel.MoneyFromString("4.50")
	require.NoError(t, err)
	line, err := order.NewLineItem("P1", "Latte", "coffee", price, 2)
	require.NoError(t, err)
	loc, err := kernel.NewDeliveryLocation("1 Main St", "Springfield")
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), "Ada", order.Delivery, []order.LineItem{line}, &loc, time.Now())
	require.NoError(t, err)
	return o
}
