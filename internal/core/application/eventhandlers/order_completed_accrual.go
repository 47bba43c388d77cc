package eventhandlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cafe/internal/core/application/usecases/commands"
	"cafe/internal/core/domain/model/actor"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/ports"
)

// OrderCompletedAccrual credits loyalty points when an order reaches
// Completed. Accrual is idempotent per order, so redelivered events are safe.
type OrderCompletedAccrual struct {
	accrue commands.AccrueOrderPointsCommandHandler
	system actor.Actor
	logger *slog.Logger
}

func NewOrderCompletedAccrual(
	accrue commands.AccrueOrderPointsCommandHandler,
	system actor.Actor,
	logger *slog.Logger,
) *OrderCompletedAccrual {
	return &OrderCompletedAccrual{accrue: accrue, system: system, logger: logger}
}

func (h *OrderCompletedAccrual) Publish(ctx context.Context, events ...ports.OrderChanged) error {
	var accrualErrs []error
	for _, e := range events {
		if e.Kind != ports.OrderUpdated || e.Status != order.Completed {
			continue
		}

		cmd, err := commands.NewAccrueOrderPointsCommand(h.system, e.OrderID)
		if err != nil {
			accrualErrs = append(accrualErrs, err)
			continue
		}

		result, err := h.accrue.Handle(ctx, cmd)
		if err != nil {
			accrualErrs = append(accrualErrs, fmt.Errorf("accrue points for order %s: %w", e.OrderID, err))
			continue
		}
		if result.Applied {
			h.logger.Info("loyalty points accrued",
				slog.String("order_id", e.OrderID.String()),
				slog.String("customer_id", result.Account.CustomerID()),
				slog.Int64("points", result.Points))
		}
	}
	return errors.Join(accrualErrs...)
}
