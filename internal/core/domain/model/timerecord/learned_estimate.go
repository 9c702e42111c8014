package timerecord

import (
	"errors"
	"fmt"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/pkg/errs"
	"github.com/Safary16/soptraloc-sub001/internal/pkg/guard"
)

// ErrLearnedEstimateIsNotConstructed is returned when using a LearnedEstimate
// that was not created via NewLearnedEstimate.
var ErrLearnedEstimateIsNotConstructed = errors.New("LearnedEstimate must be created via NewLearnedEstimate")

// LearnedEstimate is the model output for one segment key: the blended
// prediction, a confidence score and the training population size. One
// estimate per key; recomputation replaces it wholesale.
type LearnedEstimate struct {
	key              SegmentKey
	predictedMinutes int
	confidence       int
	sampleCount      int
	lastUpdated      time.Time

	guard guard.ConstructorGuard
}

// NewLearnedEstimate creates a model output for a segment key.
//
// Parameters:
//   - predictedMinutes: must be positive
//   - confidence: 0 to 100
//   - sampleCount: number of non-outlier records the estimate was trained on
func NewLearnedEstimate(
	key SegmentKey,
	predictedMinutes, confidence, sampleCount int,
	lastUpdated time.Time,
) (*LearnedEstimate, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if predictedMinutes <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("predictedMinutes",
			fmt.Errorf("%d is not greater than 0", predictedMinutes))
	}
	if confidence < 0 || confidence > 100 {
		return nil, errs.NewValueIsOutOfRangeError("confidence", confidence, 0, 100)
	}
	if sampleCount <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("sampleCount",
			fmt.Errorf("%d is not greater than 0", sampleCount))
	}
	if lastUpdated.IsZero() {
		return nil, errs.NewValueIsRequiredError("lastUpdated")
	}

	return &LearnedEstimate{
		key:              key,
		predictedMinutes: predictedMinutes,
		confidence:       confidence,
		sampleCount:      sampleCount,
		lastUpdated:      lastUpdated,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the estimate was properly constructed.
func (e *LearnedEstimate) Validate() error {
	if e == nil {
		return ErrLearnedEstimateIsNotConstructed
	}
	return e.guard.Validate(ErrLearnedEstimateIsNotConstructed)
}

// Key returns the segment this estimate predicts.
func (e *LearnedEstimate) Key() SegmentKey {
	return e.key
}

// PredictedMinutes returns the blended duration prediction.
func (e *LearnedEstimate) PredictedMinutes() int {
	return e.predictedMinutes
}

// Confidence returns the 0-100 trust score.
func (e *LearnedEstimate) Confidence() int {
	return e.confidence
}

// SampleCount returns the training population size.
func (e *LearnedEstimate) SampleCount() int {
	return e.sampleCount
}

// LastUpdated returns when the model last recomputed this key.
func (e *LearnedEstimate) LastUpdated() time.Time {
	return e.lastUpdated
}

// Age returns how stale the estimate is at the given instant.
func (e *LearnedEstimate) Age(now time.Time) time.Duration {
	return now.Sub(e.lastUpdated)
}
