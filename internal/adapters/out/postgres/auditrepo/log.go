// Package auditrepo persists the container movement audit trail. Rows are
// append-only; nothing in the system updates or deletes them.
package auditrepo

import (
	"context"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/container"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovementDTO represents one recorded status transition.
type MovementDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ContainerID uuid.UUID `gorm:"type:uuid;index"`
	FromStatus  string
	ToStatus    string
	Actor       string
	RecordedAt  time.Time `gorm:"index"`
}

// TableName specifies the database table name for movement rows.
func (MovementDTO) TableName() string {
	return "movements"
}

// GormMovementLog implements ports.AuditCollaborator on a GORM connection.
type GormMovementLog struct {
	db *gorm.DB
}

// NewGormMovementLog creates a new GORM movement log.
func NewGormMovementLog(db *gorm.DB) *GormMovementLog {
	return &GormMovementLog{db: db}
}

// RecordMovement appends one transition to the audit trail.
func (l *GormMovementLog) RecordMovement(
	ctx context.Context,
	containerID kernel.UUID,
	from, to container.Status,
	actor string,
) error {
	if err := containerID.Validate(); err != nil {
		return err
	}

	dto := MovementDTO{
		ID:          kernel.NewUUID().Bytes(),
		ContainerID: containerID.Bytes(),
		FromStatus:  string(from),
		ToStatus:    string(to),
		Actor:       actor,
		RecordedAt:  time.Now().UTC(),
	}
	return l.db.WithContext(ctx).Create(&dto).Error
}
