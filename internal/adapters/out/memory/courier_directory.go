package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"cafe/internal/core/domain/model/courier"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/pkg/errs"
)

type CourierDirectory struct {
	mu       sync.RWMutex
	couriers map[string]*courier.Courier
}

func NewCourierDirectory(couriers ...*courier.Courier) *CourierDirectory {
	d := &CourierDirectory{couriers: make(map[string]*courier.Courier, len(couriers))}
	for _, c := range couriers {
		d.couriers[c.ID().String()] = c
	}
	return d
}

func (d *CourierDirectory) Put(c *courier.Courier) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.couriers[c.ID().String()] = c
}

func (d *CourierDirectory) Get(_ context.Context, id kernel.UUID) (*courier.Courier, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, ok := d.couriers[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("courierID", id.String())
	}
	return c, nil
}

// List returns couriers sorted by name.
func (d *CourierDirectory) List(_ context.Context) ([]*courier.Courier, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]*courier.Courier, 0, len(d.couriers))
	for _, c := range d.couriers {
		result = append(result, c)
	}
	slices.SortFunc(result, func(a, b *courier.Courier) int {
		return cmp.Or(cmp.Compare(a.Name(), b.Name()), cmp.Compare(a.ID().String(), b.ID().String()))
	})
	return result, nil
}
