package timerecordrepo

import (
	"context"
	"errors"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/timerecord"
	"github.com/Safary16/soptraloc-sub001/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTimeRecordRepository implements TimeRecordRepository using GORM.
// Unlike the aggregate repositories it tracks nothing: observation rows are
// append-only and learned estimates are derived data.
type GormTimeRecordRepository struct {
	db *gorm.DB
}

// NewGormTimeRecordRepository creates a new GORM time record repository.
func NewGormTimeRecordRepository(db *gorm.DB) *GormTimeRecordRepository {
	return &GormTimeRecordRepository{db: db}
}

// AddRecord persists a new observation.
func (r *GormTimeRecordRepository) AddRecord(ctx context.Context, record *timerecord.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := recordFromDomain(record)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetRecordsByKey retrieves every stored record for a segment key, outliers
// included, oldest first.
func (r *GormTimeRecordRepository) GetRecordsByKey(
	ctx context.Context,
	key timerecord.SegmentKey,
) ([]*timerecord.Record, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	var dtos []TimeRecordDTO
	err := r.db.WithContext(ctx).
		Where("kind = ? AND from_key = ? AND to_key = ?", string(key.Kind), key.From, key.To).
		Order("recorded_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	records := make([]*timerecord.Record, 0, len(dtos))
	for _, dto := range dtos {
		record, err := recordToDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// GetTrainableKeys retrieves the distinct segment keys with at least
// minSamples non-outlier records.
func (r *GormTimeRecordRepository) GetTrainableKeys(
	ctx context.Context,
	minSamples int,
) ([]timerecord.SegmentKey, error) {
	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT kind, from_key, to_key
		FROM time_records
		WHERE outlier = false
		GROUP BY kind, from_key, to_key
		HAVING COUNT(*) >= ?
		ORDER BY kind, from_key, to_key
	`, minSamples).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make([]timerecord.SegmentKey, 0)
	for rows.Next() {
		var kind, from, to string
		if err = rows.Scan(&kind, &from, &to); err != nil {
			return nil, err
		}
		keys = append(keys, timerecord.SegmentKey{
			Kind: timerecord.Kind(kind),
			From: from,
			To:   to,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return keys, nil
}

// GetEstimate retrieves the learned estimate for a segment key.
func (r *GormTimeRecordRepository) GetEstimate(
	ctx context.Context,
	key timerecord.SegmentKey,
) (*timerecord.LearnedEstimate, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	var dto LearnedEstimateDTO
	err := r.db.WithContext(ctx).
		First(&dto, "kind = ? AND from_key = ? AND to_key = ?", string(key.Kind), key.From, key.To).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("learned estimate", key.String())
		}
		return nil, err
	}

	return estimateToDomain(dto)
}

// UpsertEstimate stores a freshly recomputed estimate, replacing any previous
// one for the same key. Last writer wins.
func (r *GormTimeRecordRepository) UpsertEstimate(
	ctx context.Context,
	estimate *timerecord.LearnedEstimate,
) error {
	if err := estimate.Validate(); err != nil {
		return err
	}

	dto := estimateFromDomain(estimate)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "kind"}, {Name: "from_key"}, {Name: "to_key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"predicted_minutes", "confidence", "sample_count", "last_updated",
			}),
		}).
		Create(&dto).Error
}
