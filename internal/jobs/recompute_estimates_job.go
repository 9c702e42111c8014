package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// RecomputeEstimatesJob retrains the learned duration estimates from the
// accumulated time records. Runs hourly; learned rows are derived data, so a
// missed run only delays model freshness.
type RecomputeEstimatesJob struct {
	handler commands.RecomputeEstimatesCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewRecomputeEstimatesJob creates the recurring retraining job.
func NewRecomputeEstimatesJob(
	handler commands.RecomputeEstimatesCommandHandler,
	logger *slog.Logger,
) *RecomputeEstimatesJob {
	return &RecomputeEstimatesJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "recompute_estimates_job"),
	}
}

// Start schedules the retraining batch to run at the top of every hour.
func (j *RecomputeEstimatesJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewRecomputeEstimatesCommand(time.Now().UTC())
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Recompute command rejected", "error", cmdErr)
			return
		}

		result, handleErr := j.handler.Handle(ctx, cmd)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Estimate recomputation failed", "error", handleErr)
			return
		}

		j.logger.InfoContext(ctx, "Estimate recomputation finished",
			"updated", result.Updated,
			"skipped", result.Skipped)
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Recompute estimates job started (running hourly)")
	return nil
}

// Stop stops the retraining job.
func (j *RecomputeEstimatesJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Recompute estimates job stopped")
}
