package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/timerecord"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/services"
)

// minTrainableSamples filters keys before recomputation; keys below it are
// not even loaded. The estimator applies the same floor after outlier
// filtering.
const minTrainableSamples = 5

// RecomputeEstimatesResult reports one batch run.
type RecomputeEstimatesResult struct {
	Updated int
	Skipped int
}

// RecomputeEstimatesCommandHandler runs the periodic model training batch.
// Each segment key recomputes in its own transaction: a key that fails or
// lacks data is logged and skipped, the batch continues. Learned rows are
// derived data, so last-writer-wins semantics are acceptable.
type RecomputeEstimatesCommandHandler struct {
	uowFactory TimeRecordUoWFactory
	estimator  services.DurationEstimator
	logger     *slog.Logger
}

// NewRecomputeEstimatesCommandHandler creates the batch handler.
func NewRecomputeEstimatesCommandHandler(
	uowFactory TimeRecordUoWFactory,
	logger *slog.Logger,
) RecomputeEstimatesCommandHandler {
	return RecomputeEstimatesCommandHandler{
		uowFactory: uowFactory,
		estimator:  services.NewDurationEstimator(),
		logger:     logger.With("component", "recompute_estimates"),
	}
}

// Handle recomputes every trainable key.
func (h RecomputeEstimatesCommandHandler) Handle(
	ctx context.Context,
	command RecomputeEstimatesCommand,
) (RecomputeEstimatesResult, error) {
	if err := command.Validate(); err != nil {
		return RecomputeEstimatesResult{}, err
	}

	keys, err := h.trainableKeys(ctx)
	if err != nil {
		return RecomputeEstimatesResult{}, err
	}

	var result RecomputeEstimatesResult
	for _, key := range keys {
		if err = h.recomputeKey(ctx, key, command); err != nil {
			if !errors.Is(err, services.ErrInsufficientTrainingData) {
				h.logger.Error("recompute failed",
					"key", key.String(), "error", err)
			}
			result.Skipped++
			continue
		}
		result.Updated++
	}

	return result, nil
}

func (h RecomputeEstimatesCommandHandler) trainableKeys(
	ctx context.Context,
) ([]timerecord.SegmentKey, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.TimeRecordRepository().GetTrainableKeys(ctx, minTrainableSamples)
}

// recomputeKey trains one key in an isolated transaction.
func (h RecomputeEstimatesCommandHandler) recomputeKey(
	ctx context.Context,
	key timerecord.SegmentKey,
	command RecomputeEstimatesCommand,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	records, err := uow.TimeRecordRepository().GetRecordsByKey(ctx, key)
	if err != nil {
		return err
	}

	estimate, err := h.estimator.Recompute(key, records, command.At())
	if err != nil {
		return err
	}

	if err = uow.TimeRecordRepository().UpsertEstimate(ctx, estimate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
