package container

import (
	"errors"
	"regexp"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"
	"github.com/Safary16/soptraloc-sub001/internal/pkg/errs"
	"github.com/Safary16/soptraloc-sub001/internal/pkg/guard"
)

// Domain errors for container operations.
var (
	// ErrContainerIsNotConstructed is returned when using a Container that was
	// not created via NewContainer or RestoreContainer.
	ErrContainerIsNotConstructed = errors.New("Container must be created via NewContainer or RestoreContainer")
	// ErrNumberIsInvalid is returned for container numbers that do not follow
	// the owner-code + serial format.
	ErrNumberIsInvalid = errs.NewValueIsInvalidError("container number")
	// ErrDriverAlreadyAssigned is returned when assigning a driver to a
	// container that already has one.
	ErrDriverAlreadyAssigned = errors.New("container already has an assigned driver")
)

// containerNumberPattern matches the ISO 6346 owner code (4 letters, ending
// in the equipment category) followed by the 6-digit serial and check digit.
var containerNumberPattern = regexp.MustCompile(`^[A-Z]{4}[0-9]{7}$`)

// Timestamps groups the once-only lifecycle timestamps. Each field is set the
// first time its corresponding status is entered and never overwritten.
type Timestamps struct {
	AssignedAt      *time.Time
	RouteStartedAt  *time.Time
	ArrivedAt       *time.Time
	UnloadedAt      *time.Time
	ReturnReadyAt   *time.Time
	ReturnStartedAt *time.Time
	FinalizedAt     *time.Time
}

// Durations groups the derived leg durations in minutes. Each field is
// computed once, when both endpoint timestamps become available.
type Durations struct {
	RouteMinutes  *int
	UnloadMinutes *int
	ReturnMinutes *int
	TotalMinutes  *int
}

// TransitionResult describes what a status transition did and which side
// effects the caller must sequence next. The aggregate itself only mutates
// its own state; releasing the driver aggregate, completing the open
// assignment, and notifying the alert and audit collaborators are the
// application layer's responsibility, driven by this result.
type TransitionResult struct {
	// From and To are the edge that was applied.
	From Status
	To   Status

	// Changed is false for the idempotent no-op (target == current status).
	Changed bool

	// Stamped is true when this transition set a lifecycle timestamp for the
	// first time.
	Stamped bool

	// ReleasedDriver carries the driver reference cleared by this transition,
	// if any. The caller must release the driver aggregate symmetrically.
	ReleasedDriver *kernel.UUID

	// CompletesAssignment is true for the states that close the open
	// assignment leg (arrival, unloaded, finalized).
	CompletesAssignment bool

	// CancelsAssignment is true for the revert edge (assigned → scheduled):
	// the open assignment is superseded, not completed.
	CancelsAssignment bool

	// DemurrageRelevant signals the alert collaborator should ensure an open
	// demurrage alert exists for this container.
	DemurrageRelevant bool

	// ResolvesAlert signals the alert collaborator should resolve any open
	// alert (terminal state reached).
	ResolvesAlert bool
}

// Container is the aggregate root for a shipping container moving through the
// logistics lifecycle. It owns the status state machine, the once-only
// lifecycle timestamps, and the derived leg durations.
//
// Invariants:
//   - The number follows the owner-code + serial format and never changes.
//   - Status only moves along edges of the transition table (plus the
//     idempotent no-op).
//   - Each lifecycle timestamp is set at most once.
//   - assignedDriver is non-nil only while an assignment leg is open.
type Container struct {
	id          kernel.UUID
	number      string
	status      Status
	origin      string
	destination string

	assignedDriver    *kernel.UUID
	scheduledAt       *time.Time
	demurrageDeadline *time.Time

	stamps    Timestamps
	durations Durations

	guard guard.ConstructorGuard
}

// NewContainer creates a container in the not_arrived stage.
//
// Parameters:
//   - id: unique identifier (must be a valid UUID)
//   - number: container number, owner code + 7 digits (e.g. "MSKU1234567")
//   - origin: terminal or yard where the container is discharged
//   - destination: distribution center the cargo is bound for
func NewContainer(id kernel.UUID, number, origin, destination string) (*Container, error) {
	c := &Container{
		status: NotArrived,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setNumber(number),
		c.setRoute(origin, destination),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreContainer reconstructs a container aggregate from persistence,
// including its lifecycle timestamps and derived durations.
func RestoreContainer(
	id kernel.UUID,
	number, origin, destination string,
	status Status,
	assignedDriver *kernel.UUID,
	scheduledAt *time.Time,
	demurrageDeadline *time.Time,
	stamps Timestamps,
	durations Durations,
) (*Container, error) {
	c := &Container{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setNumber(number),
		c.setRoute(origin, destination),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	c.status = status
	c.assignedDriver = assignedDriver
	c.scheduledAt = scheduledAt
	c.demurrageDeadline = demurrageDeadline
	c.stamps = stamps
	c.durations = durations
	return c, nil
}

// Validate ensures the container was properly constructed.
func (c *Container) Validate() error {
	if c == nil {
		return ErrContainerIsNotConstructed
	}
	return c.guard.Validate(ErrContainerIsNotConstructed)
}

// IsEqual compares two containers by identity.
func (c *Container) IsEqual(other *Container) bool {
	return other != nil && c.id.IsEqual(other.id)
}

// ID returns the container's unique identifier.
func (c *Container) ID() kernel.UUID {
	return c.id
}

// Number returns the container number.
func (c *Container) Number() string {
	return c.number
}

// Status returns the current lifecycle stage.
func (c *Container) Status() Status {
	return c.status
}

// Origin returns the pickup location (terminal/yard).
func (c *Container) Origin() string {
	return c.origin
}

// Destination returns the drop location (distribution center).
func (c *Container) Destination() string {
	return c.destination
}

// AssignedDriver returns the current driver reference, or nil when no
// assignment leg is open.
func (c *Container) AssignedDriver() *kernel.UUID {
	return c.assignedDriver
}

// ScheduledAt returns the target pickup date/time, or nil when unscheduled.
func (c *Container) ScheduledAt() *time.Time {
	return c.scheduledAt
}

// DemurrageDeadline returns the end of the free storage period, or nil when
// not tracked.
func (c *Container) DemurrageDeadline() *time.Time {
	return c.demurrageDeadline
}

// Stamps returns the lifecycle timestamps.
func (c *Container) Stamps() Timestamps {
	return c.stamps
}

// LegDurations returns the derived leg durations.
func (c *Container) LegDurations() Durations {
	return c.durations
}

// Schedule sets the target pickup time. It does not change status; moving to
// the scheduled stage is a separate transition.
func (c *Container) Schedule(pickupAt time.Time) error {
	if pickupAt.IsZero() {
		return errs.NewValueIsRequiredError("pickupAt")
	}
	c.scheduledAt = &pickupAt
	return nil
}

// SetDemurrageDeadline records the end of the free storage period.
func (c *Container) SetDemurrageDeadline(deadline time.Time) error {
	if deadline.IsZero() {
		return errs.NewValueIsRequiredError("deadline")
	}
	c.demurrageDeadline = &deadline
	return nil
}

// AssignDriver records the driver reference for a new assignment leg.
//
// Returns ErrDriverAlreadyAssigned if another leg is still open; the
// at-most-one-open-assignment invariant is enforced here and mirrored on the
// driver aggregate by the scheduler.
func (c *Container) AssignDriver(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if c.assignedDriver != nil {
		return ErrDriverAlreadyAssigned
	}
	c.assignedDriver = &driverID
	return nil
}

// TransitionTo applies a lifecycle transition at the given operation time.
//
// Effects, in order:
//  1. The edge is validated against the transition table; an illegal edge
//     returns *InvalidTransitionError and mutates nothing. A transition to
//     the current status is a legal no-op.
//  2. The status is updated.
//  3. The timestamp associated with the target stage is stamped, first entry
//     only.
//  4. Any newly derivable leg duration is computed (both endpoints present,
//     not yet set).
//  5. For stages that close an assignment leg, the driver reference is
//     cleared and reported in the result so the caller can release the
//     driver aggregate and complete (or cancel) the open assignment.
//
// The returned TransitionResult also carries the demurrage-alert directives
// for the caller to forward to the alert collaborator.
func (c *Container) TransitionTo(target Status, now time.Time) (TransitionResult, error) {
	if err := c.Validate(); err != nil {
		return TransitionResult{}, err
	}
	if err := target.Validate(); err != nil {
		return TransitionResult{}, err
	}

	result := TransitionResult{From: c.status, To: target}
	if target == c.status {
		return result, nil
	}

	if err := c.status.checkTransition(target); err != nil {
		return TransitionResult{}, err
	}

	revert := c.status == Assigned && target == Scheduled

	c.status = target
	result.Changed = true
	result.Stamped = c.stampEntry(target, now)
	c.deriveDurations(target, now)

	switch target {
	case ArrivedAtDestination, Unloaded, Finalized:
		result.CompletesAssignment = true
		result.ReleasedDriver = c.clearDriver()
	}
	if revert {
		result.CancelsAssignment = true
		result.ReleasedDriver = c.clearDriver()
	}

	switch target {
	case ArrivedAtDestination, Unloaded, AvailableForReturn, EnRouteReturn:
		result.DemurrageRelevant = true
	case Finalized:
		result.ResolvesAlert = true
	}

	return result, nil
}

// stampEntry sets the timestamp for the entered stage if it is still unset.
// Reports whether a stamp was written.
func (c *Container) stampEntry(target Status, now time.Time) bool {
	slot := c.stampSlot(target)
	if slot == nil || *slot != nil {
		return false
	}
	stamped := now
	*slot = &stamped
	return true
}

// stampSlot maps a stage to its timestamp field; stages without timestamp
// bookkeeping return nil.
func (c *Container) stampSlot(target Status) **time.Time {
	switch target {
	case Assigned:
		return &c.stamps.AssignedAt
	case EnRoute:
		return &c.stamps.RouteStartedAt
	case ArrivedAtDestination:
		return &c.stamps.ArrivedAt
	case Unloaded:
		return &c.stamps.UnloadedAt
	case AvailableForReturn:
		return &c.stamps.ReturnReadyAt
	case EnRouteReturn:
		return &c.stamps.ReturnStartedAt
	case Finalized:
		return &c.stamps.FinalizedAt
	default:
		return nil
	}
}

// deriveDurations computes the durations that become derivable on entering
// the target stage. A duration is written once; absent endpoints leave it
// unset.
func (c *Container) deriveDurations(target Status, now time.Time) {
	switch target {
	case ArrivedAtDestination:
		if c.durations.RouteMinutes == nil {
			// Route start falls back to assignment time when the en_route
			// stamp was skipped.
			from := c.stamps.RouteStartedAt
			if from == nil {
				from = c.stamps.AssignedAt
			}
			c.durations.RouteMinutes = minutesBetween(from, now)
		}
	case Unloaded:
		if c.durations.UnloadMinutes == nil {
			c.durations.UnloadMinutes = minutesBetween(c.stamps.ArrivedAt, now)
		}
	case Finalized:
		if c.durations.ReturnMinutes == nil {
			c.durations.ReturnMinutes = minutesBetween(c.stamps.ReturnStartedAt, now)
		}
		if c.durations.TotalMinutes == nil {
			c.durations.TotalMinutes = minutesBetween(c.stamps.AssignedAt, now)
		}
	}
}

// clearDriver removes the driver reference and returns the previous value.
func (c *Container) clearDriver() *kernel.UUID {
	released := c.assignedDriver
	c.assignedDriver = nil
	return released
}

func (c *Container) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Container) setNumber(number string) error {
	if !containerNumberPattern.MatchString(number) {
		return ErrNumberIsInvalid
	}
	c.number = number
	return nil
}

func (c *Container) setRoute(origin, destination string) error {
	if origin == "" {
		return errs.NewValueIsRequiredError("origin")
	}
	if destination == "" {
		return errs.NewValueIsRequiredError("destination")
	}
	c.origin = origin
	c.destination = destination
	return nil
}

// minutesBetween returns the whole minutes from *from to now, or nil when the
// starting point is absent.
func minutesBetween(from *time.Time, now time.Time) *int {
	if from == nil {
		return nil
	}
	minutes := int(now.Sub(*from) / time.Minute)
	return &minutes
}
