package ports

import (
	"context"

	"cafe/internal/core/domain/model/courier"
	"cafe/internal/core/domain/model/kernel"
)

// CourierDirectory resolves courier identities to directory entries.
type CourierDirectory interface {
	// Get returns the courier or an ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// List returns every courier ordered by name.
	List(ctx context.Context) ([]*courier.Courier, error)
}
