package ports

import (
	"context"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/assignment"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"
)

// AssignmentRepository defines the persistence contract for assignment
// aggregates.
type AssignmentRepository interface {
	// Add persists a new assignment aggregate to storage.
	Add(ctx context.Context, aggregate *assignment.Assignment) error

	// Update persists changes to an existing assignment aggregate.
	Update(ctx context.Context, aggregate *assignment.Assignment) error

	// Get retrieves an assignment aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error)

	// GetOpenByContainer retrieves the pending or in-progress assignment of a
	// container, if one exists. Returns errs.ErrObjectNotFound otherwise.
	GetOpenByContainer(ctx context.Context, containerID kernel.UUID) (*assignment.Assignment, error)

	// GetAllOpen retrieves every pending or in-progress assignment. The
	// scheduler derives reserved driver time windows from them.
	GetAllOpen(ctx context.Context) ([]*assignment.Assignment, error)
}
