package queries

import (
	"context"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/container"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetPendingContainersQueryHandler reads the assignment backlog straight
// from the containers table.
type GetPendingContainersQueryHandler struct {
	db *gorm.DB
}

// NewGetPendingContainersQueryHandler creates a handler for backlog queries.
func NewGetPendingContainersQueryHandler(db *gorm.DB) GetPendingContainersQueryHandler {
	return GetPendingContainersQueryHandler{db: db}
}

// Handle returns containers without a driver in an assignable stage, ordered
// by scheduled pickup (unscheduled last) then number.
func (h GetPendingContainersQueryHandler) Handle(
	ctx context.Context,
	query GetPendingContainersQuery,
) ([]GetPendingContainersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	backlog := make([]GetPendingContainersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			status,
			origin,
			destination,
			scheduled_at
		FROM containers
		WHERE status IN (?, ?, ?) AND assigned_driver_id IS NULL
		ORDER BY scheduled_at NULLS LAST, number
	`, string(container.Released), string(container.Scheduled), string(container.InSequence)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetPendingContainersQueryResponse
		var id uuid.UUID
		var scheduledAt *time.Time

		err = rows.Scan(
			&id,
			&resp.Number,
			&resp.Status,
			&resp.Origin,
			&resp.Destination,
			&scheduledAt,
		)
		if err != nil {
			return nil, err
		}

		containerID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = containerID
		resp.ScheduledAt = scheduledAt
		backlog = append(backlog, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return backlog, nil
}
