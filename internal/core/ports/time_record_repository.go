package ports

import (
	"context"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/timerecord"
)

// TimeRecordRepository defines the persistence contract for the prediction
// model's training records and learned estimates.
type TimeRecordRepository interface {
	// AddRecord persists a new observation. Records are immutable.
	AddRecord(ctx context.Context, record *timerecord.Record) error

	// GetRecordsByKey retrieves every stored record for a segment key,
	// outliers included.
	GetRecordsByKey(ctx context.Context, key timerecord.SegmentKey) ([]*timerecord.Record, error)

	// GetTrainableKeys retrieves the distinct segment keys that have at least
	// minSamples non-outlier records. The recompute job iterates them.
	GetTrainableKeys(ctx context.Context, minSamples int) ([]timerecord.SegmentKey, error)

	// GetEstimate retrieves the learned estimate for a segment key.
	// Returns errs.ErrObjectNotFound when the key was never trained.
	GetEstimate(ctx context.Context, key timerecord.SegmentKey) (*timerecord.LearnedEstimate, error)

	// UpsertEstimate stores a freshly recomputed estimate, replacing any
	// previous one for the same key.
	UpsertEstimate(ctx context.Context, estimate *timerecord.LearnedEstimate) error
}
