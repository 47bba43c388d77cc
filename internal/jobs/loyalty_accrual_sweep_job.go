package jobs

import (
	"context"
	"log/slog"

	"cafe/internal/core/application/usecases/commands"
	"cafe/internal/core/domain/model/actor"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// LoyaltyAccrualSweepJob credits every completed order that has not earned
// points yet. Accrual is idempotent per order, so each run may revisit orders
// credited by earlier runs or by the HTTP endpoint.
type LoyaltyAccrualSweepJob struct {
	orders  ports.OrderReader
	handler commands.AccrueOrderPointsCommandHandler
	system  actor.Actor
	cron    *cron.Cron
	logger  *slog.Logger

	schedule string
}

// NewLoyaltyAccrualSweepJob creates a sweep running as system, which must be
// allowed to adjust loyalty balances.
func NewLoyaltyAccrualSweepJob(
	orders ports.OrderReader,
	handler commands.AccrueOrderPointsCommandHandler,
	system actor.Actor,
	schedule string,
	logger *slog.Logger,
) *LoyaltyAccrualSweepJob {
	return &LoyaltyAccrualSweepJob{
		orders:   orders,
		handler:  handler,
		system:   system,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "loyalty_accrual_sweep_job"),
		schedule: schedule,
	}
}

// SweepResult counts what one sweep did.
type SweepResult struct {
	Scanned int
	Applied int
	Failed  int
}

// RunOnce sweeps all completed orders. A failure on one order is logged and
// does not stop the sweep; only a failure to list orders is returned.
func (j *LoyaltyAccrualSweepJob) RunOnce(ctx context.Context) (SweepResult, error) {
	completed, err := j.orders.List(ctx, ports.OrderFilter{Status: order.Completed})
	if err != nil {
		return SweepResult{}, err
	}

	result := SweepResult{Scanned: len(completed)}
	for _, o := range completed {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		cmd, err := commands.NewAccrueOrderPointsCommand(j.system, o.ID())
		if err != nil {
			return result, err
		}
		accrual, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			result.Failed++
			j.logger.WarnContext(ctx, "Order accrual failed", "orderID", o.ID().String(), "error", err)
			continue
		}
		if accrual.Applied {
			result.Applied++
		}
	}
	return result, nil
}

// Start schedules the sweep.
func (j *LoyaltyAccrualSweepJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		result, err := j.RunOnce(ctx)
		if err != nil {
			j.logger.ErrorContext(ctx, "Loyalty accrual sweep failed", "error", err)
			return
		}
		if result.Applied > 0 || result.Failed > 0 {
			j.logger.InfoContext(ctx, "Loyalty accrual sweep finished",
				"scanned", result.Scanned, "applied", result.Applied, "failed", result.Failed)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Loyalty accrual sweep job started", "schedule", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running sweep to return.
func (j *LoyaltyAccrualSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Loyalty accrual sweep job stopped")
}
