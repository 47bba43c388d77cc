// Package eventhandlers reacts to committed order changes.
package eventhandlers

import (
	"context"
	"errors"

	"cafe/internal/core/ports"
)

// Fanout delivers every batch of events to each publisher in turn. A failing
// publisher does not stop the others; their errors are joined.
type Fanout []ports.OrderEventPublisher

func (f Fanout) Publish(ctx context.Context, events ...ports.OrderChanged) error {
	var publishErrs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		publishErrs = append(publishErrs, p.Publish(ctx, events...))
	}
	return errors.Join(publishErrs...)
}
