package memory_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cafe/internal/adapters/out/memory"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events []ports.OrderChanged
}

func (p *recordingPublisher) Publish(_ context.Context, events ...ports.OrderChanged) error {
	p.events = append(p.events, events...)
	return nil
}

func newOrder(t *testing.T, orderType order.Type, createdAt time.Time) *order.Order {
	t.Helper()
	price, err := kernel.MoneyFromString("2.50")
	require.NoError(t, err)
	line, err := order.NewLineItem("P1", "Espresso", "coffee", price, 1)
	require.NoError(t, err)

	var location *kernel.DeliveryLocation
	if orderType == order.Delivery {
		loc, err := kernel.NewDeliveryLocation("1 Main St", "Springfield")
		require.NoError(t, err)
		location = &loc
	}
	o, err := order.NewOrder(kernel.NewUUID(), "Ada", orderType, []order.LineItem{line}, location, createdAt)
	require.NoError(t, err)
	return o
}

func commit(t *testing.T, store *memory.OrderStore, write func(repo ports.OrderRepository) error) error {
	t.Helper()
	ctx := t.Context()
	uow := store.Create()
	require.NoError(t, uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()

	if err := write(uow.OrderRepository()); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func TestOrderStore_AddAssignsVersionOneAndPublishes(t *testing.T) {
	publisher := &recordingPublisher{}
	store := memory.NewOrderStore(publisher, slog.Default())
	o := newOrder(t, order.Pickup, time.Now())

	require.NoError(t, commit(t, store, func(repo ports.OrderRepository) error {
		return repo.Add(t.Context(), o)
	}))

	assert.Equal(t, int64(1), o.Version())
	stored, err := store.Get(t.Context(), o.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version())

	require.Len(t, publisher.events, 1)
	assert.Equal(t, ports.OrderCreated, publisher.events[0].Kind)
	assert.True(t, publisher.events[0].OrderID.IsEqual(o.ID()))

	err = commit(t, store, func(repo ports.OrderRepository) error {
		return repo.Add(t.Context(), newOrderWithID(t, o.ID()))
	})
	assert.True(t, errs.IsConflictReason(err, errs.ConflictAlreadyExists))
}

func newOrderWithID(t *testing.T, id kernel.UUID) *order.Order {
	t.Helper()
	price, err := kernel.MoneyFromString("1.00")
	require.NoError(t, err)
	line, err := order.NewLineItem("P9", "Water", "drinks", price, 1)
	require.NoError(t, err)
	o, err := order.NewOrder(id, "Bob", order.Pickup, []order.LineItem{line}, nil, time.Now())
	require.NoError(t, err)
	return o
}

func TestOrderStore_StaleUpdateConflicts(t *testing.T) {
	store := memory.NewOrderStore(nil, slog.Default())
	o := newOrder(t, order.Pickup, time.Now())
	require.NoError(t, commit(t, store, func(repo ports.OrderRepository) error {
		return repo.Add(t.Context(), o)
	}))

	first, err := store.Get(t.Context(), o.ID())
	require.NoError(t, err)
	second, err := store.Get(t.Context(), o.ID())
	require.NoError(t, err)

	require.NoError(t, first.ChangeStatus(order.Processing))
	require.NoError(t, commit(t, store, func(repo ports.OrderRepository) error {
		return repo.Update(t.Context(), first)
	}))
	assert.Equal(t, int64(2), first.Version())

	require.NoError(t, second.ChangeStatus(order.Cancelled))
	err = commit(t, store, func(repo ports.OrderRepository) error {
		return repo.Update(t.Context(), second)
	})
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.True(t, errs.IsConflictReason(err, errs.ConflictVersionMismatch))

	stored, err := store.Get(t.Context(), o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.Processing, stored.Status())
	assert.Equal(t, int64(2), stored.Version())
}

func TestOrderStore_RollbackDiscardsWrites(t *testing.T) {
	publisher := &recordingPublisher{}
	store := memory.NewOrderStore(publisher, slog.Default())
	ctx := t.Context()

	uow := store.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.OrderRepository().Add(ctx, newOrder(t, order.Pickup, time.Now())))
	require.NoError(t, uow.Rollback(ctx))
	require.ErrorIs(t, uow.Commit(ctx), memory.ErrNoActiveTransaction)

	orders, err := store.List(ctx, ports.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, publisher.events)
}

func TestOrderStore_ReturnsCopies(t *testing.T) {
	store := memory.NewOrderStore(nil, slog.Default())
	o := newOrder(t, order.Pickup, time.Now())
	require.NoError(t, commit(t, store, func(repo ports.OrderRepository) error {
		return repo.Add(t.Context(), o)
	}))

	require.NoError(t, o.ChangeStatus(order.Cancelled))
	stored, err := store.Get(t.Context(), o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.Pending, stored.Status())
}

func TestOrderStore_DeleteAndListFilters(t *testing.T) {
	store := memory.NewOrderStore(nil, slog.Default())
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	pickup := newOrder(t, order.Pickup, base.Add(2*time.Hour))
	delivery := newOrder(t, order.Delivery, base)
	later := newOrder(t, order.Delivery, base.Add(time.Hour))

	require.NoError(t, commit(t, store, func(repo ports.OrderRepository) error {
		for _, o := range []*order.Order{pickup, delivery, later} {
			if err := repo.Add(t.Context(), o); err != nil {
				return err
			}
		}
		return nil
	}))

	all, err := store.List(t.Context(), ports.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].ID().IsEqual(delivery.ID()))
	assert.True(t, all[2].ID().IsEqual(pickup.ID()))

	board, err := store.List(t.Context(), ports.OrderFilter{Status: order.Pending, Type: order.Delivery})
	require.NoError(t, err)
	assert.Len(t, board, 2)

	require.NoError(t, commit(t, store, func(repo ports.OrderRepository) error {
		return repo.Delete(t.Context(), later)
	}))
	_, err = store.Get(t.Context(), later.ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	snapshot, err := store.Snapshot(t.Context())
	require.NoError(t, err)
	assert.Len(t, snapshot.Orders, 2)
	assert.Equal(t, uint64(2), snapshot.Sequence)
}

func TestOrderStore_ListSearchesNameAndLocation(t *testing.T) {
	store := memory.NewOrderStore(nil, slog.Default())
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	pickup := newOrder(t, order.Pickup, base)
	delivery := newOrder(t, order.Delivery, base.Add(time.Hour))

	require.NoError(t, commit(t, store, func(repo ports.OrderRepository) error {
		if err := repo.Add(t.Context(), pickup); err != nil {
			return err
		}
		return repo.Add(t.Context(), delivery)
	}))

	tests := map[string]struct {
		filter ports.OrderFilter
		want   int
	}{
		"name ignores case":      {filter: ports.OrderFilter{Query: "aDA"}, want: 2},
		"address":                {filter: ports.OrderFilter{Query: "main st"}, want: 1},
		"city":                   {filter: ports.OrderFilter{Query: "SPRING"}, want: 1},
		"combined with type":     {filter: ports.OrderFilter{Type: order.Pickup, Query: "spring"}, want: 0},
		"pickup has no location": {filter: ports.OrderFilter{Type: order.Pickup, Query: "ada"}, want: 1},
		"unmatched":              {filter: ports.OrderFilter{Query: "nowhere"}, want: 0},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			orders, err := store.List(t.Context(), tt.filter)
			require.NoError(t, err)
			assert.Len(t, orders, tt.want)
		})
	}
}

func TestCatalogAndCourierDirectory(t *testing.T) {
	seed := memory.Seed{
		Products: []memory.SeedProduct{{ID: "P1", Name: "Latte", Category: "coffee", Price: "4.50"}},
		Couriers: []memory.SeedCourier{
			{ID: "5b1f3c2e-8a0d-4a57-9a43-0e3b3c1f6a10", Name: "Sam"},
			{ID: "1c1f3c2e-8a0d-4a57-9a43-0e3b3c1f6a10", Name: "Kim"},
		},
	}
	products, couriers, err := seed.Build()
	require.NoError(t, err)

	catalog := memory.NewCatalog(products...)
	p, err := catalog.GetProduct(t.Context(), "P1")
	require.NoError(t, err)
	assert.Equal(t, "4.50", p.Price().String())
	_, err = catalog.GetProduct(t.Context(), "P2")
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	directory := memory.NewCourierDirectory(couriers...)
	list, err := directory.List(t.Context())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Kim", list[0].Name())

	_, err = directory.Get(t.Context(), kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"products": [{"id": "P1", "name": "Latte", "category": "coffee", "price": "-1"}],
		"couriers": [{"id": "not-a-uuid", "name": "Sam"}]
	}`), 0o600))

	seed, err := memory.LoadSeed(path)
	require.NoError(t, err)

	products, couriers, err := seed.Build()
	require.Error(t, err)
	assert.Empty(t, products)
	assert.Empty(t, couriers)
}
