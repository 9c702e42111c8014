package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// AssignmentJob runs the scheduling pass every minute, pairing backlog
// containers with available drivers.
type AssignmentJob struct {
	handler commands.RunAssignmentPassCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewAssignmentJob creates the recurring assignment pass job.
func NewAssignmentJob(handler commands.RunAssignmentPassCommandHandler, logger *slog.Logger) *AssignmentJob {
	return &AssignmentJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "assignment_job"),
	}
}

// Start schedules the assignment pass to run every minute.
func (j *AssignmentJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewRunAssignmentPassCommand(time.Now().UTC())
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Assignment pass command rejected", "error", cmdErr)
			return
		}

		result, handleErr := j.handler.Handle(ctx, cmd)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Assignment pass failed", "error", handleErr)
			return
		}

		// An empty pass is the normal steady state; only report real work.
		if result.AssignedCount > 0 || len(result.Pending) > 0 {
			j.logger.InfoContext(ctx, "Assignment pass finished",
				"assigned", result.AssignedCount,
				"pending", len(result.Pending))
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Assignment job started (running every minute)")
	return nil
}

// Stop stops the assignment job.
func (j *AssignmentJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Assignment job stopped")
}
