// Package driverrepo provides data transfer objects and mapping functions
// for driver persistence.
package driverrepo

import (
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/driver"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO represents the database structure for persisting driver
// aggregates, including the daily workload counters the availability
// predicate reads.
type DriverDTO struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string

	Active  bool `gorm:"index"`
	Present bool `gorm:"index"`

	MaxDailyDeliveries int
	DeliveriesToday    int

	AssignedContainerID *uuid.UUID `gorm:"type:uuid;index"`
	LastLocation        string
	FreeSince           *time.Time
}

// TableName specifies the database table name for driver entities.
func (DriverDTO) TableName() string {
	return "drivers"
}

// fromDomain converts a driver aggregate to its database representation.
func fromDomain(aggregate *driver.Driver) DriverDTO {
	var containerID *uuid.UUID
	if id := aggregate.AssignedContainer(); id != nil {
		raw := id.Bytes()
		containerID = &raw
	}

	return DriverDTO{
		ID:   aggregate.ID().Bytes(),
		Name: aggregate.Name(),

		Active:  aggregate.IsActive(),
		Present: aggregate.IsPresent(),

		MaxDailyDeliveries: aggregate.MaxDailyDeliveries(),
		DeliveriesToday:    aggregate.DeliveriesToday(),

		AssignedContainerID: containerID,
		LastLocation:        aggregate.LastLocation(),
		FreeSince:           aggregate.FreeSince(),
	}
}

// toDomain reconstructs a driver aggregate from a database row.
func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var containerID *kernel.UUID
	if dto.AssignedContainerID != nil {
		cID, containerErr := kernel.UUIDFromBytes((*dto.AssignedContainerID)[:])
		if containerErr != nil {
			return nil, containerErr
		}

		containerID = &cID
	}

	return driver.RestoreDriver(
		id,
		dto.Name,
		dto.Active,
		dto.Present,
		dto.MaxDailyDeliveries,
		dto.DeliveriesToday,
		containerID,
		dto.LastLocation,
		dto.FreeSince,
	)
}
