package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"
	"github.com/Safary16/soptraloc-sub001/internal/pkg/errs"
	"github.com/Safary16/soptraloc-sub001/internal/pkg/guard"
)

var ErrRecordActualTimesCommandIsNotConstructed = errors.New(
	"RecordActualTimesCommand must be created via NewRecordActualTimesCommand constructor",
)

// RecordActualTimesCommand writes the observed execution breakdown of an
// assignment back into the system: the assignment closes (or refines its
// splits) and matching travel/operation records join the training set.
//
// Example:
//
//	route := 95
//	cmd, err := NewRecordActualTimesCommand(assignmentID, 130, &route, nil, nil, time.Now())
type RecordActualTimesCommand struct {
	assignmentID  kernel.UUID
	totalMinutes  int
	routeMinutes  *int
	unloadMinutes *int
	distanceKM    *float64
	recordedAt    time.Time

	guard guard.ConstructorGuard
}

// NewRecordActualTimesCommand creates the command.
//
// Parameters:
//   - totalMinutes: observed total, must be non-negative
//   - routeMinutes, unloadMinutes: optional splits; each feeds one training
//     record when present
//   - distanceKM: optional segment distance for the travel record's
//     implied-speed outlier check
func NewRecordActualTimesCommand(
	assignmentID kernel.UUID,
	totalMinutes int,
	routeMinutes, unloadMinutes *int,
	distanceKM *float64,
	recordedAt time.Time,
) (RecordActualTimesCommand, error) {
	if err := assignmentID.Validate(); err != nil {
		return RecordActualTimesCommand{}, err
	}
	if totalMinutes < 0 {
		return RecordActualTimesCommand{}, errs.NewValueIsInvalidErrorWithCause("totalMinutes",
			fmt.Errorf("%d is negative", totalMinutes))
	}
	if recordedAt.IsZero() {
		return RecordActualTimesCommand{}, errs.NewValueIsRequiredError("recordedAt")
	}

	return RecordActualTimesCommand{
		assignmentID:  assignmentID,
		totalMinutes:  totalMinutes,
		routeMinutes:  routeMinutes,
		unloadMinutes: unloadMinutes,
		distanceKM:    distanceKM,
		recordedAt:    recordedAt,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// AssignmentID returns the assignment being closed or refined.
func (c RecordActualTimesCommand) AssignmentID() kernel.UUID {
	return c.assignmentID
}

// TotalMinutes returns the observed total duration.
func (c RecordActualTimesCommand) TotalMinutes() int {
	return c.totalMinutes
}

// RouteMinutes returns the observed driving split, if reported.
func (c RecordActualTimesCommand) RouteMinutes() *int {
	return c.routeMinutes
}

// UnloadMinutes returns the observed unloading split, if reported.
func (c RecordActualTimesCommand) UnloadMinutes() *int {
	return c.unloadMinutes
}

// DistanceKM returns the reported segment distance, if any.
func (c RecordActualTimesCommand) DistanceKM() *float64 {
	return c.distanceKM
}

// RecordedAt returns the observation instant.
func (c RecordActualTimesCommand) RecordedAt() time.Time {
	return c.recordedAt
}

// Validate ensures the command was created through the constructor.
func (c RecordActualTimesCommand) Validate() error {
	return c.guard.Validate(ErrRecordActualTimesCommandIsNotConstructed)
}
