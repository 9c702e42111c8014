package queries

import (
	"context"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/timerecord"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/services"

	"gorm.io/gorm"
)

// PredictDurationQueryHandler answers duration lookups from the learned
// estimate table, falling back to the supplied baseline.
type PredictDurationQueryHandler struct {
	db        *gorm.DB
	estimator services.DurationEstimator
}

// NewPredictDurationQueryHandler creates a handler for duration lookups.
func NewPredictDurationQueryHandler(db *gorm.DB) PredictDurationQueryHandler {
	return PredictDurationQueryHandler{
		db:        db,
		estimator: services.NewDurationEstimator(),
	}
}

// Handle executes the lookup. A missing learned row is not an error; the
// baseline answers with zero confidence.
func (h PredictDurationQueryHandler) Handle(
	ctx context.Context,
	query PredictDurationQuery,
) (PredictDurationQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return PredictDurationQueryResponse{}, err
	}

	learned, err := h.loadEstimate(ctx, query.Key())
	if err != nil {
		return PredictDurationQueryResponse{}, err
	}

	prediction := h.estimator.Predict(learned, query.BaselineMinutes(), query.At())
	return PredictDurationQueryResponse{
		Minutes:    prediction.Minutes,
		Confidence: prediction.Confidence,
		Source:     string(prediction.Source),
	}, nil
}

func (h PredictDurationQueryHandler) loadEstimate(
	ctx context.Context,
	key timerecord.SegmentKey,
) (*timerecord.LearnedEstimate, error) {
	var row struct {
		PredictedMinutes int
		Confidence       int
		SampleCount      int
		LastUpdated      time.Time
	}

	err := h.db.WithContext(ctx).Raw(`
		SELECT
			predicted_minutes,
			confidence,
			sample_count,
			last_updated
		FROM learned_estimates
		WHERE kind = ? AND from_key = ? AND to_key = ?
	`, string(key.Kind), key.From, key.To).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.PredictedMinutes == 0 {
		// No learned row for this key.
		return nil, nil
	}

	learned, err := timerecord.NewLearnedEstimate(
		key, row.PredictedMinutes, row.Confidence, row.SampleCount, row.LastUpdated,
	)
	if err != nil {
		// A malformed derived row falls back to the baseline.
		return nil, nil
	}
	return learned, nil
}
