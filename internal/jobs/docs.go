// Package jobs provides scheduled background tasks for the container
// logistics system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle the periodic operations the service requires.
//
// # Available Jobs
//
// 1. AssignmentJob - Runs every minute to pair backlog containers with
// available drivers.
// 2. RecomputeEstimatesJob - Runs hourly to retrain the learned duration
// estimates from accumulated time records.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(assignmentPassHandler, recomputeHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// An empty backlog or an empty driver pool is a normal business outcome of
// the assignment pass, not an error, and is never logged as one. Recompute
// failures on individual keys are handled inside the command handler; only
// whole-batch failures surface here. A failed job start stops any jobs that
// were already started.
package jobs
