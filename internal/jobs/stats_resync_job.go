package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// StatsRecomputer rebuilds the statistics from the order store.
type StatsRecomputer interface {
	Recompute(ctx context.Context) error
}

// StatsResyncJob recomputes statistics on a schedule so that a lost change
// notification never leaves the published value stale for long.
type StatsResyncJob struct {
	recomputer StatsRecomputer
	schedule   string
	timeout    time.Duration
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewStatsResyncJob creates a resync job running on schedule (six-field cron
// or a descriptor such as "@every 30s").
func NewStatsResyncJob(recomputer StatsRecomputer, schedule string, logger *slog.Logger) *StatsResyncJob {
	return &StatsResyncJob{
		recomputer: recomputer,
		schedule:   schedule,
		timeout:    30 * time.Second,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "stats_resync_job"),
	}
}

// RunOnce performs a single recompute.
func (j *StatsResyncJob) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()
	return j.recomputer.Recompute(ctx)
}

// Start schedules the job.
func (j *StatsResyncJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if err := j.RunOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Stats resync failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stats resync job started", "schedule", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running recompute to return.
func (j *StatsResyncJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Stats resync job stopped")
}
