package jobs

import (
	"fmt"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	dispatchRetryJob *DispatchRetryJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes handlers as dependencies to wire up the job execution.
func NewJobManager(
	uncompletedHandler queries.GetUncompletedShopOrdersQueryHandler,
	redispatchHandler commands.RedispatchShopOrderCommandHandler,
	retrySchedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		dispatchRetryJob: NewDispatchRetryJob(
			uncompletedHandler, redispatchHandler, retrySchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.dispatchRetryJob.Start(); err != nil {
		return fmt.Errorf("failed to start dispatch retry job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.dispatchRetryJob.Stop()
}
