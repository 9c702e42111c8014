package assignment

import (
	"errors"
	"fmt"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"
	"github.com/Safary16/soptraloc-sub001/internal/pkg/errs"
	"github.com/Safary16/soptraloc-sub001/internal/pkg/guard"
)

// Kind distinguishes the two movement legs an assignment can cover.
type Kind string

const (
	// KindDelivery moves a loaded container from the terminal to the
	// distribution center.
	KindDelivery Kind = "delivery"

	// KindReturn moves the empty container back to the terminal.
	KindReturn Kind = "return"
)

// Validate checks the kind is one of the two legs.
func (k Kind) Validate() error {
	if k != KindDelivery && k != KindReturn {
		return errs.NewValueIsInvalidErrorWithCause("assignment kind",
			fmt.Errorf("%q is not a valid kind", string(k)))
	}
	return nil
}

// ErrAssignmentIsNotConstructed is returned when using an Assignment that was
// not created via NewAssignment or RestoreAssignment.
var ErrAssignmentIsNotConstructed = errors.New("Assignment must be created via NewAssignment or RestoreAssignment")

// ActualTimes carries the observed execution breakdown written back when a
// leg completes. Route and unload splits are optional: early completion
// events only know the total.
type ActualTimes struct {
	TotalMinutes  int
	RouteMinutes  *int
	UnloadMinutes *int
}

// Assignment is the aggregate root binding one container to one driver for a
// single movement leg. It is created by the scheduler in the pending state,
// starts when the container goes en route, and closes with either actual
// execution times or a cancellation when the container status is reverted.
type Assignment struct {
	id          kernel.UUID
	containerID kernel.UUID
	driverID    kernel.UUID
	kind        Kind
	status      Status

	scheduledAt      time.Time
	startedAt        *time.Time
	estimatedMinutes int

	actual *ActualTimes

	guard guard.ConstructorGuard
}

// NewAssignment creates a pending assignment for the given leg.
//
// Parameters:
//   - id, containerID, driverID: valid identifiers
//   - kind: delivery or return
//   - scheduledAt: the start of the reserved time window
//   - estimatedMinutes: predicted duration, must be positive (it defines the
//     window length used by conflict checks)
func NewAssignment(
	id, containerID, driverID kernel.UUID,
	kind Kind,
	scheduledAt time.Time,
	estimatedMinutes int,
) (*Assignment, error) {
	a := &Assignment{
		status: StatusPending,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setIDs(id, containerID, driverID),
		kind.Validate(),
		a.setSchedule(scheduledAt, estimatedMinutes),
	); err != nil {
		return nil, err
	}

	a.kind = kind
	return a, nil
}

// RestoreAssignment reconstructs an assignment aggregate from persistence.
func RestoreAssignment(
	id, containerID, driverID kernel.UUID,
	kind Kind,
	status Status,
	scheduledAt time.Time,
	startedAt *time.Time,
	estimatedMinutes int,
	actual *ActualTimes,
) (*Assignment, error) {
	a := &Assignment{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setIDs(id, containerID, driverID),
		kind.Validate(),
		status.Validate(),
		a.setSchedule(scheduledAt, estimatedMinutes),
	); err != nil {
		return nil, err
	}

	a.kind = kind
	a.status = status
	a.startedAt = startedAt
	a.actual = actual
	return a, nil
}

// Validate ensures the assignment was properly constructed.
func (a *Assignment) Validate() error {
	if a == nil {
		return ErrAssignmentIsNotConstructed
	}
	return a.guard.Validate(ErrAssignmentIsNotConstructed)
}

// IsEqual compares two assignments by identity.
func (a *Assignment) IsEqual(other *Assignment) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// ID returns the assignment's unique identifier.
func (a *Assignment) ID() kernel.UUID {
	return a.id
}

// ContainerID returns the container this assignment moves.
func (a *Assignment) ContainerID() kernel.UUID {
	return a.containerID
}

// DriverID returns the driver reserved for this assignment.
func (a *Assignment) DriverID() kernel.UUID {
	return a.driverID
}

// Kind returns the movement leg.
func (a *Assignment) Kind() Kind {
	return a.kind
}

// Status returns the current assignment state.
func (a *Assignment) Status() Status {
	return a.status
}

// ScheduledAt returns the start of the reserved window.
func (a *Assignment) ScheduledAt() time.Time {
	return a.scheduledAt
}

// StartedAt returns the actual leg start, or nil before the en-route event.
func (a *Assignment) StartedAt() *time.Time {
	return a.startedAt
}

// EstimatedMinutes returns the predicted duration.
func (a *Assignment) EstimatedMinutes() int {
	return a.estimatedMinutes
}

// Actual returns the recorded execution breakdown, nil until completion.
func (a *Assignment) Actual() *ActualTimes {
	return a.actual
}

// Window returns the reserved time window used for conflict checks.
func (a *Assignment) Window() (kernel.TimeWindow, error) {
	return kernel.NewTimeWindow(a.scheduledAt, a.estimatedMinutes)
}

// Start marks the leg as in progress. The start instant is recorded once.
func (a *Assignment) Start(now time.Time) error {
	newStatus, err := a.status.Start()
	if err != nil {
		return err
	}

	a.status = newStatus
	if a.startedAt == nil {
		startedAt := now
		a.startedAt = &startedAt
	}
	return nil
}

// Complete closes the leg with its observed execution times. Total minutes
// must be non-negative; the route/unload split is optional and may be filled
// by a later RecordActual call.
func (a *Assignment) Complete(actual ActualTimes) error {
	if actual.TotalMinutes < 0 {
		return errs.NewValueIsInvalidErrorWithCause("totalMinutes",
			fmt.Errorf("%d is negative", actual.TotalMinutes))
	}

	newStatus, err := a.status.Complete()
	if err != nil {
		return err
	}

	a.status = newStatus
	a.actual = &actual
	return nil
}

// RecordActual fills or refines the execution breakdown of a completed
// assignment. Later lifecycle events (e.g. the unload finishing after the
// driver was already released at arrival) back-fill their split here.
func (a *Assignment) RecordActual(actual ActualTimes) error {
	if a.status != StatusCompleted {
		return errs.NewValueIsInvalidErrorWithCause("assignment status",
			fmt.Errorf("%s assignment cannot record actual times", a.status))
	}
	if actual.TotalMinutes < 0 {
		return errs.NewValueIsInvalidErrorWithCause("totalMinutes",
			fmt.Errorf("%d is negative", actual.TotalMinutes))
	}

	merged := actual
	if a.actual != nil {
		if merged.RouteMinutes == nil {
			merged.RouteMinutes = a.actual.RouteMinutes
		}
		if merged.UnloadMinutes == nil {
			merged.UnloadMinutes = a.actual.UnloadMinutes
		}
		if merged.TotalMinutes == 0 {
			merged.TotalMinutes = a.actual.TotalMinutes
		}
	}
	a.actual = &merged
	return nil
}

// Cancel supersedes an open assignment after a container status revert.
func (a *Assignment) Cancel() error {
	newStatus, err := a.status.Cancel()
	if err != nil {
		return err
	}
	a.status = newStatus
	return nil
}

func (a *Assignment) setIDs(id, containerID, driverID kernel.UUID) error {
	if err := errors.Join(id.Validate(), containerID.Validate(), driverID.Validate()); err != nil {
		return err
	}
	a.id = id
	a.containerID = containerID
	a.driverID = driverID
	return nil
}

func (a *Assignment) setSchedule(scheduledAt time.Time, estimatedMinutes int) error {
	if scheduledAt.IsZero() {
		return errs.NewValueIsRequiredError("scheduledAt")
	}
	if estimatedMinutes <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("estimatedMinutes",
			fmt.Errorf("%d is not greater than 0", estimatedMinutes))
	}
	a.scheduledAt = scheduledAt
	a.estimatedMinutes = estimatedMinutes
	return nil
}
