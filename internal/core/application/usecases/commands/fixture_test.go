package commands_test

import (
	"log/slog"
	"testing"

	"cafe/internal/adapters/out/memory"
	"cafe/internal/core/application/usecases/commands"
	"cafe/internal/core/domain/model/actor"
	"cafe/internal/core/domain/model/catalog"
	"cafe/internal/core/domain/model/courier"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/domain/services"

	"github.com/stretchr/testify/require"
)

type uowFactory struct {
	store *memory.OrderStore
}

func (f uowFactory) Create() commands.OrderUoW {
	return f.store.Create()
}

// fixture wires the command handlers to the in-memory adapters.
type fixture struct {
	store    *memory.OrderStore
	couriers *memory.CourierDirectory
	factory  uowFactory

	create       commands.CreateOrderCommandHandler
	assign       commands.AssignCourierCommandHandler
	changeStatus commands.ChangeOrderStatusCommandHandler
	cancel       commands.CancelOrderCommandHandler
	remove       commands.DeleteOrderCommandHandler
	duplicate    commands.DuplicateOrderCommandHandler

	admin   actor.Actor
	cashier actor.Actor
}

func newFixture(t *testing.T, products ...catalog.Product) *fixture {
	t.Helper()
	if len(products) == 0 {
		products = []catalog.Product{newProduct(t, "P1", "4.50"), newProduct(t, "P2", "3.00")}
	}

	store := memory.NewOrderStore(nil, slog.Default())
	couriers := memory.NewCourierDirectory()
	factory := uowFactory{store: store}
	policy := services.NewAuthorizationPolicy()

	create := commands.NewCreateOrderCommandHandler(factory, memory.NewCatalog(products...), policy)
	changeStatus := commands.NewChangeOrderStatusCommandHandler(factory, policy)

	return &fixture{
		store:        store,
		couriers:     couriers,
		factory:      factory,
		create:       create,
		assign:       commands.NewAssignCourierCommandHandler(factory, couriers, policy),
		changeStatus: changeStatus,
		cancel:       commands.NewCancelOrderCommandHandler(changeStatus),
		remove:       commands.NewDeleteOrderCommandHandler(factory, policy),
		duplicate:    commands.NewDuplicateOrderCommandHandler(store, create),
		admin:        newActor(t, actor.Admin),
		cashier:      newActor(t, actor.Cashier),
	}
}

// courier registers a courier in the directory and returns the matching actor.
func (f *fixture) courier(t *testing.T, name string) actor.Actor {
	t.Helper()
	id := kernel.NewUUID()
	c, err := courier.NewCourier(id, name)
	require.NoError(t, err)
	f.couriers.Put(c)

	a, err := actor.NewActor(id, actor.Courier)
	require.NoError(t, err)
	return a
}

func (f *fixture) placeOrder(t *testing.T, orderType order.Type, lines ...commands.DraftLine) *order.Order {
	t.Helper()
	if len(lines) == 0 {
		lines = []commands.DraftLine{{ProductID: "P1", Quantity: 2}}
	}
	var location *kernel.DeliveryLocation
	if orderType == order.Delivery {
		loc, err := kernel.NewDeliveryLocation("1 Main St", "Springfield")
		require.NoError(t, err)
		location = &loc
	}

	cmd, err := commands.NewCreateOrderCommand(f.cashier, kernel.NewUUID(), "Ada", orderType, lines, location)
	require.NoError(t, err)
	created, err := f.create.Handle(t.Context(), cmd)
	require.NoError(t, err)
	return created
}

func (f *fixture) setStatus(t *testing.T, o *order.Order, to order.Status) *order.Order {
	t.Helper()
	cmd, err := commands.NewChangeOrderStatusCommand(f.admin, o.ID(), to)
	require.NoError(t, err)
	updated, err := f.changeStatus.Handle(t.Context(), cmd)
	require.NoError(t, err)
	return updated
}
