// Package assignmentrepo provides data transfer objects and mapping
// functions for assignment persistence.
package assignmentrepo

import (
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/assignment"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AssignmentDTO represents the database structure for persisting assignment
// aggregates. The actual execution breakdown is nullable until the leg
// completes.
type AssignmentDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ContainerID uuid.UUID `gorm:"type:uuid;index"`
	DriverID    uuid.UUID `gorm:"type:uuid;index"`
	Kind        string
	Status      int `gorm:"index"`

	ScheduledAt      time.Time
	StartedAt        *time.Time
	EstimatedMinutes int

	ActualTotalMinutes  *int
	ActualRouteMinutes  *int
	ActualUnloadMinutes *int
}

// TableName specifies the database table name for assignment entities.
func (AssignmentDTO) TableName() string {
	return "assignments"
}

// fromDomain converts an assignment aggregate to its database representation.
func fromDomain(aggregate *assignment.Assignment) AssignmentDTO {
	dto := AssignmentDTO{
		ID:          aggregate.ID().Bytes(),
		ContainerID: aggregate.ContainerID().Bytes(),
		DriverID:    aggregate.DriverID().Bytes(),
		Kind:        string(aggregate.Kind()),
		Status:      int(aggregate.Status()),

		ScheduledAt:      aggregate.ScheduledAt(),
		StartedAt:        aggregate.StartedAt(),
		EstimatedMinutes: aggregate.EstimatedMinutes(),
	}

	if actual := aggregate.Actual(); actual != nil {
		total := actual.TotalMinutes
		dto.ActualTotalMinutes = &total
		dto.ActualRouteMinutes = actual.RouteMinutes
		dto.ActualUnloadMinutes = actual.UnloadMinutes
	}

	return dto
}

// toDomain reconstructs an assignment aggregate from a database row.
func toDomain(dto AssignmentDTO) (*assignment.Assignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	containerID, err := kernel.UUIDFromBytes(dto.ContainerID[:])
	if err != nil {
		return nil, err
	}

	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}

	var actual *assignment.ActualTimes
	if dto.ActualTotalMinutes != nil {
		actual = &assignment.ActualTimes{
			TotalMinutes:  *dto.ActualTotalMinutes,
			RouteMinutes:  dto.ActualRouteMinutes,
			UnloadMinutes: dto.ActualUnloadMinutes,
		}
	}

	return assignment.RestoreAssignment(
		id,
		containerID,
		driverID,
		assignment.Kind(dto.Kind),
		assignment.Status(dto.Status),
		dto.ScheduledAt,
		dto.StartedAt,
		dto.EstimatedMinutes,
		actual,
	)
}
