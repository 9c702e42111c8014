package queries

import (
	"errors"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"
	"github.com/Safary16/soptraloc-sub001/internal/pkg/guard"
)

var ErrGetPendingContainersQueryIsNotConstructed = errors.New(
	"GetPendingContainersQuery must be created via NewGetPendingContainersQuery constructor",
)

// GetPendingContainersQuery retrieves containers awaiting driver assignment
// for the operations dashboard.
type GetPendingContainersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetPendingContainersQuery creates the dashboard query.
func NewGetPendingContainersQuery() GetPendingContainersQuery {
	return GetPendingContainersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetPendingContainersQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingContainersQueryIsNotConstructed)
}

// GetPendingContainersQueryResponse is one backlog row.
type GetPendingContainersQueryResponse struct {
	ID          kernel.UUID
	Number      string
	Status      string
	Origin      string
	Destination string
	ScheduledAt *time.Time
}
