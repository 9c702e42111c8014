// Package containerrepo provides data transfer objects and mapping functions
// for container persistence. It implements the repository pattern for the
// container aggregate, converting between domain entities and database rows.
package containerrepo

import (
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/container"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// ContainerDTO represents the database structure for persisting container
// aggregates. Status is stored as its string form so the transition history
// stays readable in the database, with indexes supporting backlog and
// demurrage scans.
type ContainerDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number      string    `gorm:"uniqueIndex;size:11"`
	Status      string    `gorm:"index"`
	Origin      string
	Destination string

	AssignedDriverID  *uuid.UUID `gorm:"type:uuid;index"`
	ScheduledAt       *time.Time `gorm:"index"`
	DemurrageDeadline *time.Time `gorm:"index"`

	AssignedAt      *time.Time
	RouteStartedAt  *time.Time
	ArrivedAt       *time.Time
	UnloadedAt      *time.Time
	ReturnReadyAt   *time.Time
	ReturnStartedAt *time.Time
	FinalizedAt     *time.Time

	RouteMinutes  *int
	UnloadMinutes *int
	ReturnMinutes *int
	TotalMinutes  *int
}

// TableName specifies the database table name for container entities.
func (ContainerDTO) TableName() string {
	return "containers"
}

// fromDomain converts a container aggregate to its database representation.
func fromDomain(aggregate *container.Container) ContainerDTO {
	var driverID *uuid.UUID
	if id := aggregate.AssignedDriver(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	stamps := aggregate.Stamps()
	durations := aggregate.LegDurations()

	return ContainerDTO{
		ID:          aggregate.ID().Bytes(),
		Number:      aggregate.Number(),
		Status:      string(aggregate.Status()),
		Origin:      aggregate.Origin(),
		Destination: aggregate.Destination(),

		AssignedDriverID:  driverID,
		ScheduledAt:       aggregate.ScheduledAt(),
		DemurrageDeadline: aggregate.DemurrageDeadline(),

		AssignedAt:      stamps.AssignedAt,
		RouteStartedAt:  stamps.RouteStartedAt,
		ArrivedAt:       stamps.ArrivedAt,
		UnloadedAt:      stamps.UnloadedAt,
		ReturnReadyAt:   stamps.ReturnReadyAt,
		ReturnStartedAt: stamps.ReturnStartedAt,
		FinalizedAt:     stamps.FinalizedAt,

		RouteMinutes:  durations.RouteMinutes,
		UnloadMinutes: durations.UnloadMinutes,
		ReturnMinutes: durations.ReturnMinutes,
		TotalMinutes:  durations.TotalMinutes,
	}
}

// toDomain reconstructs a container aggregate from a database row.
func toDomain(dto ContainerDTO) (*container.Container, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.AssignedDriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.AssignedDriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}

		driverID = &dID
	}

	return container.RestoreContainer(
		id,
		dto.Number,
		dto.Origin,
		dto.Destination,
		container.Status(dto.Status),
		driverID,
		dto.ScheduledAt,
		dto.DemurrageDeadline,
		container.Timestamps{
			AssignedAt:      dto.AssignedAt,
			RouteStartedAt:  dto.RouteStartedAt,
			ArrivedAt:       dto.ArrivedAt,
			UnloadedAt:      dto.UnloadedAt,
			ReturnReadyAt:   dto.ReturnReadyAt,
			ReturnStartedAt: dto.ReturnStartedAt,
			FinalizedAt:     dto.FinalizedAt,
		},
		container.Durations{
			RouteMinutes:  dto.RouteMinutes,
			UnloadMinutes: dto.UnloadMinutes,
			ReturnMinutes: dto.ReturnMinutes,
			TotalMinutes:  dto.TotalMinutes,
		},
	)
}
