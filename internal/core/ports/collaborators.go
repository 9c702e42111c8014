package ports

import (
	"context"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/container"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"
)

// AlertCollaborator manages demurrage alerts raised while a container sits
// past its free storage period. Both operations are idempotent: duplicates
// are absorbed, never errors.
type AlertCollaborator interface {
	// CreateIfNeeded opens a demurrage alert for the container unless one is
	// already open.
	CreateIfNeeded(ctx context.Context, containerID kernel.UUID, reason string) error

	// Resolve closes any open alert for the container. Called when the
	// container reaches its final stage.
	Resolve(ctx context.Context, containerID kernel.UUID) error
}

// AuditCollaborator records every container status movement for
// traceability.
type AuditCollaborator interface {
	// RecordMovement appends one entry to the container's movement history.
	RecordMovement(ctx context.Context, containerID kernel.UUID, from, to container.Status, actor string) error
}
