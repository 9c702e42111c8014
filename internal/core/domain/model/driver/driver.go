package driver

import (
	"errors"
	"fmt"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"
	"github.com/Safary16/soptraloc-sub001/internal/pkg/errs"
	"github.com/Safary16/soptraloc-sub001/internal/pkg/guard"
)

// defaultDailyCap is the delivery cap applied when a driver is created
// without an explicit one.
const defaultDailyCap = 4

// Domain errors for driver operations.
var (
	// ErrDriverIsNotConstructed is returned when using a Driver that was not
	// created via NewDriver or RestoreDriver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver or RestoreDriver")
	// ErrNameIsRequired is returned when creating a driver without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrDriverNotAvailable is returned when claiming a driver that is
	// inactive, absent, at capacity, or already working a container.
	ErrDriverNotAvailable = errors.New("driver is not available")
	// ErrContainerAlreadyClaimed is returned when claiming a driver that has
	// an open container.
	ErrContainerAlreadyClaimed = errors.New("driver already has an assigned container")
)

// Driver is the aggregate root for a truck driver. It tracks availability for
// the operating day (active flag, attendance, daily cap) and the single
// container currently worked, mirroring Container.AssignedDriver.
//
// Invariants:
//   - At most one assigned container at any time.
//   - A claim requires active, present, under the daily cap, and no open
//     container.
//   - deliveriesToday never exceeds maxDailyDeliveries.
type Driver struct {
	id   kernel.UUID
	name string

	active  bool
	present bool

	maxDailyDeliveries int
	deliveriesToday    int

	assignedContainer *kernel.UUID
	lastLocation      string
	freeSince         *time.Time

	guard guard.ConstructorGuard
}

// NewDriver creates an active driver with no attendance recorded for the day.
// A non-positive dailyCap falls back to the default cap.
func NewDriver(id kernel.UUID, name string, dailyCap int) (*Driver, error) {
	if dailyCap <= 0 {
		dailyCap = defaultDailyCap
	}

	d := &Driver{
		active:             true,
		maxDailyDeliveries: dailyCap,
		guard:              guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDriver reconstructs a driver aggregate from persistence.
func RestoreDriver(
	id kernel.UUID,
	name string,
	active, present bool,
	dailyCap, deliveriesToday int,
	assignedContainer *kernel.UUID,
	lastLocation string,
	freeSince *time.Time,
) (*Driver, error) {
	if dailyCap <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("dailyCap",
			fmt.Errorf("%d is not greater than 0", dailyCap))
	}
	if deliveriesToday < 0 || deliveriesToday > dailyCap {
		return nil, errs.NewValueIsOutOfRangeError("deliveriesToday", deliveriesToday, 0, dailyCap)
	}

	d := &Driver{
		active:             active,
		present:            present,
		maxDailyDeliveries: dailyCap,
		deliveriesToday:    deliveriesToday,
		assignedContainer:  assignedContainer,
		lastLocation:       lastLocation,
		freeSince:          freeSince,
		guard:              guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// Validate ensures the driver was properly constructed.
func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

// IsEqual compares two drivers by identity.
func (d *Driver) IsEqual(other *Driver) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the driver's unique identifier.
func (d *Driver) ID() kernel.UUID {
	return d.id
}

// Name returns the driver's name.
func (d *Driver) Name() string {
	return d.name
}

// IsActive reports whether the driver is on the roster.
func (d *Driver) IsActive() bool {
	return d.active
}

// IsPresent reports attendance for the operating day.
func (d *Driver) IsPresent() bool {
	return d.present
}

// MaxDailyDeliveries returns the daily delivery cap.
func (d *Driver) MaxDailyDeliveries() int {
	return d.maxDailyDeliveries
}

// DeliveriesToday returns the deliveries already assigned today.
func (d *Driver) DeliveriesToday() int {
	return d.deliveriesToday
}

// AssignedContainer returns the open container reference, or nil when free.
func (d *Driver) AssignedContainer() *kernel.UUID {
	return d.assignedContainer
}

// LastLocation returns the last known location name, empty when unknown.
func (d *Driver) LastLocation() string {
	return d.lastLocation
}

// FreeSince returns the instant the driver last became free, or nil when it
// was never recorded.
func (d *Driver) FreeSince() *time.Time {
	return d.freeSince
}

// Activate puts the driver back on the roster.
func (d *Driver) Activate() {
	d.active = true
}

// Deactivate removes the driver from the roster.
func (d *Driver) Deactivate() {
	d.active = false
}

// MarkPresent records attendance and starts the idle clock.
func (d *Driver) MarkPresent(now time.Time) {
	d.present = true
	if d.freeSince == nil {
		checkIn := now
		d.freeSince = &checkIn
	}
}

// MarkAbsent clears attendance for the day.
func (d *Driver) MarkAbsent() {
	d.present = false
}

// ReportLocation updates the last known location.
func (d *Driver) ReportLocation(location string) {
	d.lastLocation = location
}

// IsAvailable reports whether the driver can take a new container: on the
// roster, present, under the daily cap, and with no open container.
func (d *Driver) IsAvailable() bool {
	return d.active && d.present &&
		d.assignedContainer == nil &&
		d.deliveriesToday < d.maxDailyDeliveries
}

// IdleMinutes returns the whole minutes the driver has been free. Drivers
// without a recorded free instant report zero.
func (d *Driver) IdleMinutes(now time.Time) int {
	if d.freeSince == nil {
		return 0
	}
	minutes := int(now.Sub(*d.freeSince) / time.Minute)
	if minutes < 0 {
		return 0
	}
	return minutes
}

// Claim assigns a container to the driver and counts it against the daily
// cap. Returns ErrDriverNotAvailable when availability checks fail and
// ErrContainerAlreadyClaimed when a container is already open.
func (d *Driver) Claim(containerID kernel.UUID) error {
	if err := containerID.Validate(); err != nil {
		return err
	}
	if d.assignedContainer != nil {
		return ErrContainerAlreadyClaimed
	}
	if !d.IsAvailable() {
		return ErrDriverNotAvailable
	}

	d.assignedContainer = &containerID
	d.deliveriesToday++
	return nil
}

// Release frees the driver after an assignment leg closes and restarts the
// idle clock. Releasing an already free driver is a no-op, keeping the
// operation idempotent for repeated completion events.
func (d *Driver) Release(now time.Time) {
	if d.assignedContainer == nil {
		return
	}
	d.assignedContainer = nil
	freedAt := now
	d.freeSince = &freedAt
}

// ResetDay clears the daily workload counters, typically at the start of an
// operating day.
func (d *Driver) ResetDay() {
	d.deliveriesToday = 0
	d.present = false
	d.freeSince = nil
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	d.name = name
	return nil
}
