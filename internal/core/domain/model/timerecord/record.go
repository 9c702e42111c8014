package timerecord

import (
	"errors"
	"fmt"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"
	"github.com/Safary16/soptraloc-sub001/internal/pkg/errs"
	"github.com/Safary16/soptraloc-sub001/internal/pkg/guard"
)

// Outlier policy constants. A record is flagged at write time and excluded
// from every aggregate, but kept for audit.
const (
	// outlierActualFactor flags actuals exceeding this multiple of the
	// estimate.
	outlierActualFactor = 3
	// outlierMinSpeedKMH flags travel records whose implied average speed
	// falls below this threshold (a truck parked in a queue, not driving).
	outlierMinSpeedKMH = 10.0
)

// Kind distinguishes the two record flavors the prediction model trains on.
type Kind string

const (
	// KindTravel records a terminal-to-destination driving segment.
	KindTravel Kind = "travel"

	// KindOperation records an on-site operation (unloading, gate processing)
	// at a fixed location.
	KindOperation Kind = "operation"
)

// Validate checks the kind is one of the two flavors.
func (k Kind) Validate() error {
	if k != KindTravel && k != KindOperation {
		return errs.NewValueIsInvalidErrorWithCause("record kind",
			fmt.Errorf("%q is not a valid kind", string(k)))
	}
	return nil
}

// SegmentKey identifies the population a record belongs to. For travel
// records From/To are origin and destination; for operation records they are
// the location and the operation type.
type SegmentKey struct {
	Kind Kind
	From string
	To   string
}

// Validate checks all key components are present.
func (k SegmentKey) Validate() error {
	if err := k.Kind.Validate(); err != nil {
		return err
	}
	if k.From == "" {
		return errs.NewValueIsRequiredError("segment key from")
	}
	if k.To == "" {
		return errs.NewValueIsRequiredError("segment key to")
	}
	return nil
}

// String renders the key for logs and error messages.
func (k SegmentKey) String() string {
	return fmt.Sprintf("%s:%s->%s", k.Kind, k.From, k.To)
}

// ErrRecordIsNotConstructed is returned when using a Record that was not
// created via one of the constructors.
var ErrRecordIsNotConstructed = errors.New("Record must be created via NewTravelRecord, NewOperationRecord, or RestoreRecord")

// Record is one observed execution of a travel segment or an on-site
// operation. Records are immutable training data for the prediction model;
// the outlier flag is decided once, at construction.
type Record struct {
	id  kernel.UUID
	key SegmentKey

	estimatedMinutes int
	actualMinutes    int
	distanceKM       *float64

	recordedAt time.Time
	outlier    bool

	guard guard.ConstructorGuard
}

// NewTravelRecord creates a travel observation. distanceKM is optional; when
// present it feeds the implied-speed outlier check.
func NewTravelRecord(
	id kernel.UUID,
	origin, destination string,
	estimatedMinutes, actualMinutes int,
	distanceKM *float64,
	recordedAt time.Time,
) (*Record, error) {
	return newRecord(id, SegmentKey{Kind: KindTravel, From: origin, To: destination},
		estimatedMinutes, actualMinutes, distanceKM, recordedAt)
}

// NewOperationRecord creates an on-site operation observation.
func NewOperationRecord(
	id kernel.UUID,
	location, operation string,
	estimatedMinutes, actualMinutes int,
	recordedAt time.Time,
) (*Record, error) {
	return newRecord(id, SegmentKey{Kind: KindOperation, From: location, To: operation},
		estimatedMinutes, actualMinutes, nil, recordedAt)
}

// RestoreRecord reconstructs a record from persistence, keeping the outlier
// flag that was decided at write time.
func RestoreRecord(
	id kernel.UUID,
	key SegmentKey,
	estimatedMinutes, actualMinutes int,
	distanceKM *float64,
	recordedAt time.Time,
	outlier bool,
) (*Record, error) {
	r, err := newRecord(id, key, estimatedMinutes, actualMinutes, distanceKM, recordedAt)
	if err != nil {
		return nil, err
	}
	r.outlier = outlier
	return r, nil
}

func newRecord(
	id kernel.UUID,
	key SegmentKey,
	estimatedMinutes, actualMinutes int,
	distanceKM *float64,
	recordedAt time.Time,
) (*Record, error) {
	if err := errors.Join(id.Validate(), key.Validate()); err != nil {
		return nil, err
	}
	if estimatedMinutes <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("estimatedMinutes",
			fmt.Errorf("%d is not greater than 0", estimatedMinutes))
	}
	if actualMinutes <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("actualMinutes",
			fmt.Errorf("%d is not greater than 0", actualMinutes))
	}
	if recordedAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("recordedAt")
	}

	r := &Record{
		id:               id,
		key:              key,
		estimatedMinutes: estimatedMinutes,
		actualMinutes:    actualMinutes,
		distanceKM:       distanceKM,
		recordedAt:       recordedAt,
		guard:            guard.NewConstructorGuard(),
	}
	r.outlier = r.detectOutlier()
	return r, nil
}

// detectOutlier applies the write-time outlier policy.
func (r *Record) detectOutlier() bool {
	if r.actualMinutes > outlierActualFactor*r.estimatedMinutes {
		return true
	}
	if r.key.Kind == KindTravel && r.distanceKM != nil {
		speed := *r.distanceKM / (float64(r.actualMinutes) / 60.0)
		if speed < outlierMinSpeedKMH {
			return true
		}
	}
	return false
}

// Validate ensures the record was properly constructed.
func (r *Record) Validate() error {
	if r == nil {
		return ErrRecordIsNotConstructed
	}
	return r.guard.Validate(ErrRecordIsNotConstructed)
}

// ID returns the record's unique identifier.
func (r *Record) ID() kernel.UUID {
	return r.id
}

// Key returns the segment population this record belongs to.
func (r *Record) Key() SegmentKey {
	return r.key
}

// EstimatedMinutes returns the static baseline in force when the segment ran.
func (r *Record) EstimatedMinutes() int {
	return r.estimatedMinutes
}

// ActualMinutes returns the observed duration.
func (r *Record) ActualMinutes() int {
	return r.actualMinutes
}

// DistanceKM returns the segment distance, nil for operations and for travel
// segments without distance data.
func (r *Record) DistanceKM() *float64 {
	return r.distanceKM
}

// RecordedAt returns when the segment completed.
func (r *Record) RecordedAt() time.Time {
	return r.recordedAt
}

// HourOfDay returns the completion hour, 0-23, for time-of-day bucketing.
func (r *Record) HourOfDay() int {
	return r.recordedAt.Hour()
}

// DayOfWeek returns the completion weekday.
func (r *Record) DayOfWeek() time.Weekday {
	return r.recordedAt.Weekday()
}

// IsOutlier reports whether the record is excluded from aggregates.
func (r *Record) IsOutlier() bool {
	return r.outlier
}
