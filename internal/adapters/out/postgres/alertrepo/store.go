// Package alertrepo persists demurrage alerts. The store keeps at most one
// open alert per container, so repeated demurrage-relevant transitions do
// not pile up duplicates.
package alertrepo

import (
	"context"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DemurrageAlertDTO represents one alert row. Open alerts have a null
// resolved_at; resolution closes the row instead of deleting it, keeping the
// history queryable.
type DemurrageAlertDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ContainerID uuid.UUID `gorm:"type:uuid;index"`
	Reason      string
	CreatedAt   time.Time
	ResolvedAt  *time.Time
}

// TableName specifies the database table name for alert rows.
func (DemurrageAlertDTO) TableName() string {
	return "demurrage_alerts"
}

// GormAlertStore implements ports.AlertCollaborator on a GORM connection.
type GormAlertStore struct {
	db *gorm.DB
}

// NewGormAlertStore creates a new GORM alert store.
func NewGormAlertStore(db *gorm.DB) *GormAlertStore {
	return &GormAlertStore{db: db}
}

// CreateIfNeeded opens an alert for the container unless one is already
// open. Idempotent: calling it again while an alert is open does nothing.
func (s *GormAlertStore) CreateIfNeeded(ctx context.Context, containerID kernel.UUID, reason string) error {
	if err := containerID.Validate(); err != nil {
		return err
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&DemurrageAlertDTO{}).
		Where("container_id = ? AND resolved_at IS NULL", containerID.Bytes()).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	dto := DemurrageAlertDTO{
		ID:          kernel.NewUUID().Bytes(),
		ContainerID: containerID.Bytes(),
		Reason:      reason,
		CreatedAt:   time.Now().UTC(),
	}
	return s.db.WithContext(ctx).Create(&dto).Error
}

// Resolve closes any open alert for the container. Resolving a container
// without an open alert is a no-op.
func (s *GormAlertStore) Resolve(ctx context.Context, containerID kernel.UUID) error {
	if err := containerID.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.db.WithContext(ctx).
		Model(&DemurrageAlertDTO{}).
		Where("container_id = ? AND resolved_at IS NULL", containerID.Bytes()).
		Update("resolved_at", &now).Error
}
