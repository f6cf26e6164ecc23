// Package jobs provides scheduled background tasks for the dispatch engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by the dispatch service.
//
// # Available Jobs
//
// 1. DispatchRetryJob - Periodically re-dispatches shop orders that want a
// courier but have no live broadcast, using the widened escalation radius.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(uncompletedHandler, redispatchHandler, retrySchedule, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The retry job treats "no candidates available" as an expected outcome;
// only infrastructure failures are logged as errors.
package jobs
