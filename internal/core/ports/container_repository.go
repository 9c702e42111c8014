// Package ports defines the persistence and collaborator contracts between
// the domain layer and infrastructure, enabling dependency inversion and
// testability.
package ports

import (
	"context"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/container"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"
)

// ContainerRepository defines the persistence contract for container
// aggregates.
type ContainerRepository interface {
	// Add persists a new container aggregate to storage.
	// The container must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *container.Container) error

	// Update persists changes to an existing container aggregate.
	Update(ctx context.Context, aggregate *container.Container) error

	// Get retrieves a container aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*container.Container, error)

	// GetByNumber retrieves a container by its ISO container number.
	// Status updates arriving from external systems identify containers this
	// way.
	GetByNumber(ctx context.Context, number string) (*container.Container, error)

	// GetAllAssignable retrieves the scheduling backlog as of the given
	// instant: containers in the scheduled or in-sequence stage with no
	// driver attached and a pickup due by the end of the next operational
	// day, ordered by scheduled pickup time. Unscheduled containers are
	// included last so a pass can report them as pending.
	GetAllAssignable(ctx context.Context, asOf time.Time) ([]*container.Container, error)

	// GetAllWithDemurrageBefore retrieves undelivered containers whose free
	// storage period ends before the given deadline.
	GetAllWithDemurrageBefore(ctx context.Context, deadline time.Time) ([]*container.Container, error)
}
