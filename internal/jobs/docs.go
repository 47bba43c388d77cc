// Package jobs provides scheduled background tasks for the fulfillment core.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Schedules accept six-field expressions (seconds first) and descriptors such
// as "@every 30s".
//
// # Available Jobs
//
// 1. StatsResyncJob - recomputes the aggregate statistics from the order store
// 2. LoyaltyAccrualSweepJob - credits loyalty points for completed orders not yet credited
//
// # Usage
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewStatsResyncJob(engine, "@every 30s", logger),
//		jobs.NewLoyaltyAccrualSweepJob(orders, accrueHandler, system, "@every 1m", logger),
//	)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - The sweep logs per-order failures and keeps going
// - An invalid schedule fails StartAll, which stops the jobs already started
package jobs
