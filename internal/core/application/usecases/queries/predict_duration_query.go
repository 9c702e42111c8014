// Package queries contains read-only operations in the CQRS architecture.
// Query handlers read directly from the database, bypassing aggregates and
// unit-of-work transactions.
package queries

import (
	"errors"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/timerecord"
	"github.com/Safary16/soptraloc-sub001/internal/pkg/errs"
	"github.com/Safary16/soptraloc-sub001/internal/pkg/guard"
)

var ErrPredictDurationQueryIsNotConstructed = errors.New(
	"PredictDurationQuery must be created via NewPredictDurationQuery constructor",
)

// PredictDurationQuery asks how long a travel segment or an on-site
// operation will take at a given instant. The lookup never fails: without a
// usable learned estimate the static baseline answers, peak-adjusted.
//
// Example:
//
//	q, err := NewPredictDurationQuery(
//	    timerecord.KindTravel, "Terminal STI", "CD Quilicura",
//	    90, time.Now(),
//	)
type PredictDurationQuery struct {
	key             timerecord.SegmentKey
	baselineMinutes int
	at              time.Time

	guard guard.ConstructorGuard
}

// NewPredictDurationQuery creates a duration lookup.
//
// Parameters:
//   - kind, from, to: the segment key (origin/destination for travel,
//     location/operation for operations)
//   - baselineMinutes: static fallback duration, must be positive
//   - at: when the predicted activity would start
func NewPredictDurationQuery(
	kind timerecord.Kind,
	from, to string,
	baselineMinutes int,
	at time.Time,
) (PredictDurationQuery, error) {
	key := timerecord.SegmentKey{Kind: kind, From: from, To: to}
	if err := key.Validate(); err != nil {
		return PredictDurationQuery{}, err
	}
	if baselineMinutes <= 0 {
		return PredictDurationQuery{}, errs.NewValueIsRequiredError("baselineMinutes")
	}
	if at.IsZero() {
		return PredictDurationQuery{}, errs.NewValueIsRequiredError("at")
	}

	return PredictDurationQuery{
		key:             key,
		baselineMinutes: baselineMinutes,
		at:              at,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Key returns the segment being looked up.
func (q PredictDurationQuery) Key() timerecord.SegmentKey {
	return q.key
}

// BaselineMinutes returns the static fallback duration.
func (q PredictDurationQuery) BaselineMinutes() int {
	return q.baselineMinutes
}

// At returns the activity start instant.
func (q PredictDurationQuery) At() time.Time {
	return q.at
}

// Validate ensures the query was created through the constructor.
func (q PredictDurationQuery) Validate() error {
	return q.guard.Validate(ErrPredictDurationQueryIsNotConstructed)
}

// PredictDurationQueryResponse is the lookup answer.
type PredictDurationQueryResponse struct {
	Minutes    int
	Confidence int
	Source     string
}
