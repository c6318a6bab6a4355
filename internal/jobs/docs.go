// Package jobs provides scheduled background tasks for the fulfillment system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for warehouse automation.
//
// # Available Jobs
//
// 1. OrderProcessingJob - Runs every ten seconds to push pending orders through the fulfillment pipeline
// 2. LeaseReclaimJob - Runs every minute to reclaim expired print job leases when no agent is polling
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(orderUoWFactory, printQueueUoWFactory,
//		processOrderHandler, leaseDuration, maxAttempts, autoProcess, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The processing job runs one order per tick so a slow carrier call never
// starves the scheduler; the reclaim sweep is idempotent and also happens on
// every agent poll.
//
// # Error Handling
//
// - Processing job ignores the expected empty-queue condition
// - Reclaim job logs all errors as they indicate system issues
// - Failed job starts will stop any already running jobs
package jobs
