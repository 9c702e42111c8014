package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/assignment"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/container"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/timerecord"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/services"
	"github.com/Safary16/soptraloc-sub001/internal/core/ports"
)

// defaultTravelBaselineMinutes sizes reservation windows when a route has no
// learned estimate and no configured baseline.
const defaultTravelBaselineMinutes = 90

// RunAssignmentPassResult reports one scheduling pass: how many pairs were
// committed and which containers stayed behind, with reasons.
type RunAssignmentPassResult struct {
	AssignedCount int
	Pending       []services.PendingContainer
}

// RunAssignmentPassCommandHandler executes the scheduling pass. It snapshots
// the backlog, roster and reserved windows in a read transaction, lets the
// domain matcher propose pairs, then commits each accepted pair in its own
// transaction so one failing pair never poisons the rest of the pass.
//
// Example:
//
//	handler := NewRunAssignmentPassCommandHandler(uowFactory, nil, 0)
//	cmd, _ := NewRunAssignmentPassCommand(time.Now())
//	result, err := handler.Handle(ctx, cmd)
type RunAssignmentPassCommandHandler struct {
	uowFactory     UoWFactory
	matcher        services.AssignmentMatcher
	estimator      services.DurationEstimator
	travelBaseline int
}

// NewRunAssignmentPassCommandHandler creates a scheduling pass handler.
// A nil scorer keeps the matcher default; a non-positive baseline falls back
// to the default window size.
func NewRunAssignmentPassCommandHandler(
	uowFactory UoWFactory,
	scorer services.DriverScorer,
	travelBaselineMinutes int,
) RunAssignmentPassCommandHandler {
	if travelBaselineMinutes <= 0 {
		travelBaselineMinutes = defaultTravelBaselineMinutes
	}
	return RunAssignmentPassCommandHandler{
		uowFactory:     uowFactory,
		matcher:        services.NewAssignmentMatcher(scorer),
		estimator:      services.NewDurationEstimator(),
		travelBaseline: travelBaselineMinutes,
	}
}

// Handle runs one pass.
//
// Failures committing an individual pair are converted into pending entries
// rather than aborting the pass; a stale pair (container or driver changed
// between snapshot and commit) is skipped the same way and picked up by the
// next pass.
func (h RunAssignmentPassCommandHandler) Handle(
	ctx context.Context,
	command RunAssignmentPassCommand,
) (RunAssignmentPassResult, error) {
	if err := command.Validate(); err != nil {
		return RunAssignmentPassResult{}, err
	}

	outcome, err := h.proposeMatches(ctx, command.At())
	if err != nil {
		return RunAssignmentPassResult{}, err
	}

	result := RunAssignmentPassResult{Pending: outcome.Pending}
	for _, match := range outcome.Matches {
		if commitErr := h.commitMatch(ctx, match, command.At()); commitErr != nil {
			result.Pending = append(result.Pending, services.PendingContainer{
				ContainerID: match.Container.ID(),
				Number:      match.Container.Number(),
				Reason:      fmt.Sprintf("pair not committed: %v", commitErr),
			})
			continue
		}
		result.AssignedCount++
	}

	return result, nil
}

// proposeMatches snapshots the scheduling inputs and runs the domain matcher
// inside one read-only transaction.
func (h RunAssignmentPassCommandHandler) proposeMatches(
	ctx context.Context,
	at time.Time,
) (services.MatchOutcome, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return services.MatchOutcome{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	backlog, err := uow.ContainerRepository().GetAllAssignable(ctx, at)
	if err != nil {
		return services.MatchOutcome{}, err
	}
	if len(backlog) == 0 {
		return services.MatchOutcome{}, nil
	}

	roster, err := uow.DriverRepository().GetAllAvailable(ctx)
	if err != nil {
		return services.MatchOutcome{}, err
	}

	openWindows, err := h.reservedWindows(ctx, uow)
	if err != nil {
		return services.MatchOutcome{}, err
	}

	estimates := learnedEstimates{
		ctx:       ctx,
		records:   uow.TimeRecordRepository(),
		estimator: h.estimator,
		baseline:  h.travelBaseline,
	}

	return h.matcher.Match(backlog, roster, openWindows, estimates, at)
}

// reservedWindows rebuilds each driver's reserved time windows from the open
// assignments.
func (h RunAssignmentPassCommandHandler) reservedWindows(
	ctx context.Context,
	uow UoW,
) (map[kernel.UUID][]kernel.TimeWindow, error) {
	open, err := uow.AssignmentRepository().GetAllOpen(ctx)
	if err != nil {
		return nil, err
	}

	windows := make(map[kernel.UUID][]kernel.TimeWindow, len(open))
	for _, a := range open {
		window, wErr := a.Window()
		if wErr != nil {
			return nil, wErr
		}
		windows[a.DriverID()] = append(windows[a.DriverID()], window)
	}
	return windows, nil
}

// errStalePair marks a proposed pair invalidated between snapshot and commit.
var errStalePair = errors.New("pair is stale")

// commitMatch re-reads both aggregates and commits one accepted pair
// atomically: driver claim, container transition, assignment insert.
func (h RunAssignmentPassCommandHandler) commitMatch(
	ctx context.Context,
	match services.Match,
	at time.Time,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	c, err := uow.ContainerRepository().Get(ctx, match.Container.ID())
	if err != nil {
		return err
	}
	if c.AssignedDriver() != nil || c.ScheduledAt() == nil {
		return errStalePair
	}

	d, err := uow.DriverRepository().Get(ctx, match.Driver.ID())
	if err != nil {
		return err
	}
	if !d.IsAvailable() {
		return errStalePair
	}

	if err = d.Claim(c.ID()); err != nil {
		return err
	}
	if err = c.AssignDriver(d.ID()); err != nil {
		return err
	}
	if _, err = c.TransitionTo(container.Assigned, at); err != nil {
		return err
	}

	a, err := assignment.NewAssignment(
		kernel.NewUUID(), c.ID(), d.ID(),
		assignment.KindDelivery, *c.ScheduledAt(), match.EstimatedMinutes,
	)
	if err != nil {
		return err
	}

	if err = uow.AssignmentRepository().Add(ctx, a); err != nil {
		return err
	}
	if err = uow.ContainerRepository().Update(ctx, c); err != nil {
		return err
	}
	if err = uow.DriverRepository().Update(ctx, d); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// learnedEstimates adapts the stored prediction model to the matcher's
// duration source: learned estimate when fresh and confident, baseline
// (peak-adjusted) otherwise. Lookups never fail.
type learnedEstimates struct {
	ctx       context.Context
	records   ports.TimeRecordRepository
	estimator services.DurationEstimator
	baseline  int
}

func (e learnedEstimates) EstimateMinutes(origin, destination string, at time.Time) int {
	key := timerecord.SegmentKey{Kind: timerecord.KindTravel, From: origin, To: destination}

	learned, err := e.records.GetEstimate(e.ctx, key)
	if err != nil {
		learned = nil
	}

	return e.estimator.Predict(learned, e.baseline, at).Minutes
}
