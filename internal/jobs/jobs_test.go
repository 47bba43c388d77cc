package jobs_test

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"cafe/internal/adapters/out/memory"
	"cafe/internal/adapters/out/pebbledb"
	"cafe/internal/core/application/usecases/commands"
	"cafe/internal/core/domain/model/actor"
	"cafe/internal/core/domain/model/catalog"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/domain/services"
	"cafe/internal/jobs"

	"github.com/cockroachdb/pebble/vfs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uowFactory struct {
	store *memory.OrderStore
}

func (f uowFactory) Create() commands.OrderUoW {
	return f.store.Create()
}

type countingRecomputer struct {
	calls atomic.Int32
	err   error
}

func (r *countingRecomputer) Recompute(context.Context) error {
	r.calls.Add(1)
	return r.err
}

type fakeJob struct {
	name     string
	startErr error
	log      *[]string
}

func (j *fakeJob) Start() error {
	if j.startErr != nil {
		return j.startErr
	}
	*j.log = append(*j.log, "start "+j.name)
	return nil
}

func (j *fakeJob) Stop() {
	*j.log = append(*j.log, "stop "+j.name)
}

func newActor(t *testing.T, role actor.Role) actor.Actor {
	t.Helper()
	who, err := actor.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return who
}

func TestStatsResyncJob_RunOnce(t *testing.T) {
	recomputer := &countingRecomputer{}
	job := jobs.NewStatsResyncJob(recomputer, "@every 1h", slog.Default())

	require.NoError(t, job.RunOnce(t.Context()))
	assert.Equal(t, int32(1), recomputer.calls.Load())

	recomputer.err = errors.New("store down")
	assert.ErrorIs(t, job.RunOnce(t.Context()), recomputer.err)
}

func TestStatsResyncJob_RunsOnSchedule(t *testing.T) {
	recomputer := &countingRecomputer{}
	job := jobs.NewStatsResyncJob(recomputer, "@every 1s", slog.Default())

	require.NoError(t, job.Start())
	t.Cleanup(job.Stop)

	assert.Eventually(t, func() bool {
		return recomputer.calls.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
}

func TestStatsResyncJob_InvalidSchedule(t *testing.T) {
	job := jobs.NewStatsResyncJob(&countingRecomputer{}, "every now and then", slog.Default())

	assert.Error(t, job.Start())
}

func TestLoyaltyAccrualSweepJob_RunOnce(t *testing.T) {
	ctx := t.Context()
	price, err := kernel.NewMoney(decimal.RequireFromString("4.50"))
	require.NoError(t, err)
	latte, err := catalog.NewProduct("P1", "Latte", "coffee", price)
	require.NoError(t, err)

	store := memory.NewOrderStore(nil, slog.Default())
	ledger, err := pebbledb.Open("/loyalty", vfs.NewMem())
	require.NoError(t, err)
	t.Cleanup(func() { _ = ledger.Close() })

	factory := uowFactory{store: store}
	policy := services.NewAuthorizationPolicy()
	create := commands.NewCreateOrderCommandHandler(factory, memory.NewCatalog(latte), policy)
	changeStatus := commands.NewChangeOrderStatusCommandHandler(factory, policy)
	cashier := newActor(t, actor.Cashier)

	place := func(customer string, quantity int, statuses ...order.Status) {
		cmd, err := commands.NewCreateOrderCommand(cashier, kernel.NewUUID(), customer, order.Pickup,
			[]commands.DraftLine{{ProductID: "P1", Quantity: quantity}}, nil)
		require.NoError(t, err)
		o, err := create.Handle(ctx, cmd)
		require.NoError(t, err)
		for _, to := range statuses {
			change, err := commands.NewChangeOrderStatusCommand(cashier, o.ID(), to)
			require.NoError(t, err)
			_, err = changeStatus.Handle(ctx, change)
			require.NoError(t, err)
		}
	}
	place("ann", 2, order.Processing, order.Completed)
	place("ann", 4, order.Processing, order.Completed)
	place("bob", 1, order.Processing)
	place("cid", 1, order.Cancelled)

	job := jobs.NewLoyaltyAccrualSweepJob(
		store,
		commands.NewAccrueOrderPointsCommandHandler(store, ledger, policy),
		newActor(t, actor.Admin),
		"@every 1h",
		slog.Default(),
	)

	result, err := job.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, jobs.SweepResult{Scanned: 2, Applied: 2}, result)

	account, err := ledger.GetAccount(ctx, "ann")
	require.NoError(t, err)
	assert.Equal(t, int64(27), account.Points())

	result, err = job.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, jobs.SweepResult{Scanned: 2}, result)

	account, err = ledger.GetAccount(ctx, "ann")
	require.NoError(t, err)
	assert.Equal(t, int64(27), account.Points())
}

func TestLoyaltyAccrualSweepJob_CountsFailures(t *testing.T) {
	store := memory.NewOrderStore(nil, slog.Default())
	ledger, err := pebbledb.Open("/loyalty", vfs.NewMem())
	require.NoError(t, err)
	t.Cleanup(func() { _ = ledger.Close() })

	policy := services.NewAuthorizationPolicy()
	factory := uowFactory{store: store}
	price, err := kernel.NewMoney(decimal.NewFromInt(2))
	require.NoError(t, err)
	tea, err := catalog.NewProduct("T1", "Tea", "tea", price)
	require.NoError(t, err)
	cashier := newActor(t, actor.Cashier)

	cmd, err := commands.NewCreateOrderCommand(cashier, kernel.NewUUID(), "ann", order.Pickup,
		[]commands.DraftLine{{ProductID: "T1", Quantity: 1}}, nil)
	require.NoError(t, err)
	o, err := commands.NewCreateOrderCommandHandler(factory, memory.NewCatalog(tea), policy).Handle(t.Context(), cmd)
	require.NoError(t, err)
	changeStatus := commands.NewChangeOrderStatusCommandHandler(factory, policy)
	for _, to := range []order.Status{order.Processing, order.Completed} {
		change, err := commands.NewChangeOrderStatusCommand(cashier, o.ID(), to)
		require.NoError(t, err)
		_, err = changeStatus.Handle(t.Context(), change)
		require.NoError(t, err)
	}

	// Couriers may not adjust loyalty balances.
	job := jobs.NewLoyaltyAccrualSweepJob(
		store,
		commands.NewAccrueOrderPointsCommandHandler(store, ledger, policy),
		newActor(t, actor.Courier),
		"@every 1h",
		slog.Default(),
	)

	result, err := job.RunOnce(t.Context())
	require.NoError(t, err)
	assert.Equal(t, jobs.SweepResult{Scanned: 1, Failed: 1}, result)
}

func TestJobManager_StartsInOrderAndStopsInReverse(t *testing.T) {
	var log []string
	manager := jobs.NewJobManager(&fakeJob{name: "a", log: &log}, &fakeJob{name: "b", log: &log})

	require.NoError(t, manager.StartAll())
	manager.StopAll()

	assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, log)
}

func TestJobManager_StopsStartedJobsWhenOneFails(t *testing.T) {
	var log []string
	manager := jobs.NewJobManager(
		&fakeJob{name: "a", log: &log},
		&fakeJob{name: "b", log: &log, startErr: errors.New("bad schedule")},
	)

	require.Error(t, manager.StartAll())
	assert.Equal(t, []string{"start a", "stop a"}, log)
}
