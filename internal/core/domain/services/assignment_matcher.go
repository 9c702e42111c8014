package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/container"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/driver"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"
)

// Pending reasons reported for containers left unmatched in a pass.
const (
	ReasonNoAvailableDriver = "no available driver"
	ReasonScheduleConflict  = "every available driver has a schedule conflict"
	ReasonNoPickupTime      = "container has no scheduled pickup time"
)

// DueWindowEnd returns the exclusive end of the scheduling due window for a
// pass running at now: midnight after the next operational day, in now's
// location. A container scheduled at or past this instant is not yet due and
// takes no driver from today's pool.
func DueWindowEnd(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 2)
}

// DriverScorer ranks candidate drivers for a container; lower is better.
// The default prefers the driver who has been idle the shortest time, keeping
// workload spread across the roster instead of hammering whoever just freed
// up a long idle gap.
type DriverScorer func(d *driver.Driver, now time.Time) float64

// ShortestIdleFirst is the default scorer.
func ShortestIdleFirst(d *driver.Driver, now time.Time) float64 {
	return float64(d.IdleMinutes(now))
}

// DurationEstimates supplies the predicted leg duration used to size a
// candidate's reservation window. Implementations never fail; the static
// baseline always answers.
type DurationEstimates interface {
	EstimateMinutes(origin, destination string, at time.Time) int
}

// Match pairs one container with one driver and the window the pair would
// reserve. The matcher only proposes; committing the pair (claiming the
// driver, transitioning the container, persisting the assignment) is the
// caller's job.
type Match struct {
	Container        *container.Container
	Driver           *driver.Driver
	Window           kernel.TimeWindow
	EstimatedMinutes int
}

// PendingContainer names a container left unmatched and why.
type PendingContainer struct {
	ContainerID kernel.UUID
	Number      string
	Reason      string
}

// MatchOutcome is the result of one matching pass.
type MatchOutcome struct {
	Matches []Match
	Pending []PendingContainer
}

// AssignmentMatcher is the domain service implementing the scheduling pass.
//
// Algorithm, per pass:
//   - Only containers due inside the window ending at DueWindowEnd(now)
//     compete for drivers; later pickups are skipped until their day comes.
//   - Containers are processed in deterministic order: earliest scheduled
//     pickup first, container number as tie-break.
//   - For each container the matcher walks the remaining driver pool from
//     best score upward, skipping drivers already tried for this container.
//   - A candidate is rejected when unavailable or when the container's
//     reservation window overlaps any of the driver's open windows. Rejected
//     candidates stay in the pool for later containers.
//   - An accepted driver leaves the pool for the rest of the pass.
//
// Windows are half-open, so a leg may start exactly when the previous one
// ends.
type AssignmentMatcher struct {
	scorer DriverScorer
}

// NewAssignmentMatcher creates a matcher. A nil scorer falls back to
// ShortestIdleFirst.
func NewAssignmentMatcher(scorer DriverScorer) AssignmentMatcher {
	if scorer == nil {
		scorer = ShortestIdleFirst
	}
	return AssignmentMatcher{scorer: scorer}
}

// Match runs one matching pass.
//
// Parameters:
//   - containers: the eligible backlog (released or in-sequence, no driver)
//   - drivers: the full roster; availability is re-checked here
//   - openWindows: reserved windows of open assignments, keyed by driver ID
//   - estimates: duration source used to size each candidate window
//   - now: scoring reference instant
//
// The input slices are not mutated; containers are copied before sorting.
func (m AssignmentMatcher) Match(
	containers []*container.Container,
	drivers []*driver.Driver,
	openWindows map[kernel.UUID][]kernel.TimeWindow,
	estimates DurationEstimates,
	now time.Time,
) (MatchOutcome, error) {
	backlog := make([]*container.Container, len(containers))
	copy(backlog, containers)
	sort.SliceStable(backlog, func(i, j int) bool {
		return lessContainer(backlog[i], backlog[j])
	})

	pool := make([]*driver.Driver, len(drivers))
	copy(pool, drivers)
	sort.SliceStable(pool, func(i, j int) bool {
		si, sj := m.scorer(pool[i], now), m.scorer(pool[j], now)
		if si != sj {
			return si < sj
		}
		return pool[i].ID().String() < pool[j].ID().String()
	})

	reserved := make(map[kernel.UUID][]kernel.TimeWindow, len(openWindows))
	for id, windows := range openWindows {
		reserved[id] = append([]kernel.TimeWindow(nil), windows...)
	}

	var outcome MatchOutcome
	taken := make(map[kernel.UUID]bool)
	dueEnd := DueWindowEnd(now)

	for _, c := range backlog {
		if err := c.Validate(); err != nil {
			return MatchOutcome{}, err
		}
		if c.ScheduledAt() == nil {
			outcome.Pending = append(outcome.Pending, PendingContainer{
				ContainerID: c.ID(),
				Number:      c.Number(),
				Reason:      ReasonNoPickupTime,
			})
			continue
		}
		if !c.ScheduledAt().Before(dueEnd) {
			continue
		}

		match, reason, err := m.matchOne(c, pool, taken, reserved, estimates, now)
		if err != nil {
			return MatchOutcome{}, err
		}
		if match == nil {
			outcome.Pending = append(outcome.Pending, PendingContainer{
				ContainerID: c.ID(),
				Number:      c.Number(),
				Reason:      reason,
			})
			continue
		}

		taken[match.Driver.ID()] = true
		reserved[match.Driver.ID()] = append(reserved[match.Driver.ID()], match.Window)
		outcome.Matches = append(outcome.Matches, *match)
	}

	return outcome, nil
}

// matchOne walks the scored pool for a single container. It returns a nil
// match with a pending reason when the pool is exhausted.
func (m AssignmentMatcher) matchOne(
	c *container.Container,
	pool []*driver.Driver,
	taken map[kernel.UUID]bool,
	reserved map[kernel.UUID][]kernel.TimeWindow,
	estimates DurationEstimates,
	now time.Time,
) (*Match, string, error) {
	pickupAt := *c.ScheduledAt()
	sawConflict := false

	for _, d := range pool {
		if taken[d.ID()] {
			continue
		}
		if err := d.Validate(); err != nil {
			return nil, "", err
		}
		if !d.IsAvailable() {
			continue
		}

		minutes := estimates.EstimateMinutes(c.Origin(), c.Destination(), pickupAt)
		window, err := kernel.NewTimeWindow(pickupAt, minutes)
		if err != nil {
			return nil, "", fmt.Errorf("window for container %s: %w", c.Number(), err)
		}

		if overlapsAny(window, reserved[d.ID()]) {
			sawConflict = true
			continue
		}

		return &Match{
			Container:        c,
			Driver:           d,
			Window:           window,
			EstimatedMinutes: minutes,
		}, "", nil
	}

	if sawConflict {
		return nil, ReasonScheduleConflict, nil
	}
	return nil, ReasonNoAvailableDriver, nil
}

func overlapsAny(window kernel.TimeWindow, existing []kernel.TimeWindow) bool {
	for _, w := range existing {
		if window.Overlaps(w) {
			return true
		}
	}
	return false
}

// lessContainer orders the backlog: earliest pickup first, number breaks
// ties, unscheduled containers sort last.
func lessContainer(a, b *container.Container) bool {
	sa, sb := a.ScheduledAt(), b.ScheduledAt()
	switch {
	case sa == nil && sb == nil:
		return a.Number() < b.Number()
	case sa == nil:
		return false
	case sb == nil:
		return true
	case sa.Equal(*sb):
		return a.Number() < b.Number()
	default:
		return sa.Before(*sb)
	}
}
