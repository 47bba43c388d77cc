package ports

import (
	"context"

	"cafe/internal/core/domain/model/catalog"
)

// Catalog prices order lines. Unknown products yield an ObjectNotFoundError.
type Catalog interface {
	GetProduct(ctx context.Context, productID string) (catalog.Product, error)
}
