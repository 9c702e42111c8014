// Package timerecordrepo provides persistence for the prediction model's
// training records and learned estimates. Records are immutable
// observations; learned estimates are derived rows replaced on every
// recomputation.
package timerecordrepo

import (
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/timerecord"

	"github.com/google/uuid"
)

// TimeRecordDTO represents one stored observation. The segment key is
// flattened into three indexed columns so training queries can group by it.
type TimeRecordDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind    string    `gorm:"index:idx_time_records_key"`
	FromKey string    `gorm:"index:idx_time_records_key"`
	ToKey   string    `gorm:"index:idx_time_records_key"`

	EstimatedMinutes int
	ActualMinutes    int
	DistanceKM       *float64
	RecordedAt       time.Time
	Outlier          bool
}

// TableName specifies the database table name for observation rows.
func (TimeRecordDTO) TableName() string {
	return "time_records"
}

// LearnedEstimateDTO represents the derived prediction for one segment key.
// The key columns form the primary key, giving one estimate per segment.
type LearnedEstimateDTO struct {
	Kind    string `gorm:"primaryKey"`
	FromKey string `gorm:"primaryKey"`
	ToKey   string `gorm:"primaryKey"`

	PredictedMinutes int
	Confidence       int
	SampleCount      int
	LastUpdated      time.Time
}

// TableName specifies the database table name for learned estimates.
func (LearnedEstimateDTO) TableName() string {
	return "learned_estimates"
}

func recordFromDomain(record *timerecord.Record) TimeRecordDTO {
	key := record.Key()
	return TimeRecordDTO{
		ID:      record.ID().Bytes(),
		Kind:    string(key.Kind),
		FromKey: key.From,
		ToKey:   key.To,

		EstimatedMinutes: record.EstimatedMinutes(),
		ActualMinutes:    record.ActualMinutes(),
		DistanceKM:       record.DistanceKM(),
		RecordedAt:       record.RecordedAt(),
		Outlier:          record.IsOutlier(),
	}
}

func recordToDomain(dto TimeRecordDTO) (*timerecord.Record, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return timerecord.RestoreRecord(
		id,
		timerecord.SegmentKey{
			Kind: timerecord.Kind(dto.Kind),
			From: dto.FromKey,
			To:   dto.ToKey,
		},
		dto.EstimatedMinutes,
		dto.ActualMinutes,
		dto.DistanceKM,
		dto.RecordedAt,
		dto.Outlier,
	)
}

func estimateFromDomain(estimate *timerecord.LearnedEstimate) LearnedEstimateDTO {
	key := estimate.Key()
	return LearnedEstimateDTO{
		Kind:    string(key.Kind),
		FromKey: key.From,
		ToKey:   key.To,

		PredictedMinutes: estimate.PredictedMinutes(),
		Confidence:       estimate.Confidence(),
		SampleCount:      estimate.SampleCount(),
		LastUpdated:      estimate.LastUpdated(),
	}
}

func estimateToDomain(dto LearnedEstimateDTO) (*timerecord.LearnedEstimate, error) {
	return timerecord.NewLearnedEstimate(
		timerecord.SegmentKey{
			Kind: timerecord.Kind(dto.Kind),
			From: dto.FromKey,
			To:   dto.ToKey,
		},
		dto.PredictedMinutes,
		dto.Confidence,
		dto.SampleCount,
		dto.LastUpdated,
	)
}
