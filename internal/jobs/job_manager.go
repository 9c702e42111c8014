package jobs

import (
	"fmt"
	"log/slog"

	"github.com/Safary16/soptraloc-sub001/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	assignmentJob         *AssignmentJob
	recomputeEstimatesJob *RecomputeEstimatesJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	assignmentPassHandler commands.RunAssignmentPassCommandHandler,
	recomputeHandler commands.RecomputeEstimatesCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		assignmentJob:         NewAssignmentJob(assignmentPassHandler, logger),
		recomputeEstimatesJob: NewRecomputeEstimatesJob(recomputeHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.assignmentJob.Start(); err != nil {
		return fmt.Errorf("failed to start assignment job: %w", err)
	}

	if err := jm.recomputeEstimatesJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.assignmentJob.Stop()
		return fmt.Errorf("failed to start recompute estimates job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.recomputeEstimatesJob.Stop()
	jm.assignmentJob.Stop()
}
