package eventhandlers_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"cafe/internal/adapters/out/memory"
	"cafe/internal/adapters/out/pebbledb"
	"cafe/internal/core/application/eventhandlers"
	"cafe/internal/core/application/usecases/commands"
	"cafe/internal/core/domain/model/actor"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/domain/services"
	"cafe/internal/core/ports"

	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events []ports.OrderChanged
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...ports.OrderChanged) error {
	p.events = append(p.events, events...)
	return p.err
}

func TestFanout_DeliversToEveryPublisher(t *testing.T) {
	failing := &recordingPublisher{err: errors.New("down")}
	healthy := &recordingPublisher{}

	event := ports.OrderChanged{OrderID: kernel.NewUUID(), Kind: ports.OrderCreated}
	err := eventhandlers.Fanout{failing, nil, healthy}.Publish(t.Context(), event)

	require.Error(t, err)
	assert.Len(t, failing.events, 1)
	assert.Len(t, healthy.events, 1)
}

func TestOrderCompletedAccrual_CreditsCompletedOrdersOnce(t *testing.T) {
	ctx := t.Context()
	policy := services.NewAuthorizationPolicy()

	ledger, err := pebbledb.Open("/ledger", vfs.NewMem())
	require.NoError(t, err)
	defer ledger.Close()

	store := memory.NewOrderStore(nil, slog.Default())
	system, err := actor.NewActor(kernel.NewUUID(), actor.Admin)
	require.NoError(t, err)

	accrual := eventhandlers.NewOrderCompletedAccrual(
		commands.NewAccrueOrderPointsCommandHandler(store, ledger, policy), system, slog.Default())
	store.SetPublisher(accrual)

	price, err := kernel.MoneyFromString("4.75")
	require.NoError(t, err)
	line, err := order.NewLineItem("P1", "Mocha", "coffee", price, 2)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), "Ada", order.Pickup, []order.LineItem{line}, nil, time.Now())
	require.NoError(t, err)

	commit := func(write func(repo ports.OrderRepository) error) {
		uow := store.Create()
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, write(uow.OrderRepository()))
		require.NoError(t, uow.Commit(ctx))
	}
	commit(func(repo ports.OrderRepository) error { return repo.Add(ctx, o) })
	for _, s := range []order.Status{order.Processing, order.Completed} {
		require.NoError(t, o.ChangeStatus(s))
		commit(func(repo ports.OrderRepository) error { return repo.Update(ctx, o) })
	}

	account, err := ledger.GetAccount(ctx, "Ada")
	require.NoError(t, err)
	assert.Equal(t, int64(9), account.Points())

	// a redelivered completion event changes nothing
	require.NoError(t, accrual.Publish(ctx, ports.NewOrderChanged(ports.OrderUpdated, o, time.Now())))
	account, err = ledger.GetAccount(ctx, "Ada")
	require.NoError(t, err)
	assert.Equal(t, int64(9), account.Points())
}
