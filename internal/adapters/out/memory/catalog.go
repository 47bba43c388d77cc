package memory

import (
	"context"
	"sync"

	"cafe/internal/core/domain/model/catalog"
	"cafe/internal/pkg/errs"
)

// Catalog is a read-mostly product catalog.
type Catalog struct {
	mu       sync.RWMutex
	products map[string]catalog.Product
}

func NewCatalog(products ...catalog.Product) *Catalog {
	c := &Catalog{products: make(map[string]catalog.Product, len(products))}
	for _, p := range products {
		c.products[p.ID()] = p
	}
	return c
}

// Put adds or replaces a product.
func (c *Catalog) Put(p catalog.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID()] = p
}

func (c *Catalog) GetProduct(_ context.Context, productID string) (catalog.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[productID]
	if !ok {
		return catalog.Product{}, errs.NewObjectNotFoundError("productID", productID)
	}
	return p, nil
}
