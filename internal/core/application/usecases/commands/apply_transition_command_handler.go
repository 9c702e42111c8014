package commands

import (
	"context"
	"errors"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/assignment"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/container"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/timerecord"
	"github.com/Safary16/soptraloc-sub001/internal/core/ports"
	"github.com/Safary16/soptraloc-sub001/internal/pkg/errs"
)

// defaultUnloadBaselineMinutes sizes the estimate column of unloading
// operation records when no configured baseline is supplied.
const defaultUnloadBaselineMinutes = 40

// demurrageAlertReason labels alerts opened by the transition handler.
const demurrageAlertReason = "demurrage deadline exceeded"

// unloadingOperation is the operation type of unload training records.
const unloadingOperation = "unloading"

// ApplyTransitionResult reports what a transition command did.
type ApplyTransitionResult struct {
	From    container.Status
	To      container.Status
	Changed bool
}

// ApplyTransitionCommandHandler orchestrates a container status movement:
// normalizes the raw status, lets the aggregate validate and apply the
// transition, then sequences the side effects the movement requires (driver
// release, assignment completion or cancellation, training records, alerts,
// audit trail) inside one transaction.
//
// Example:
//
//	handler := NewApplyTransitionCommandHandler(uowFactory, alerts, audit, 0)
//	cmd, _ := NewApplyTransitionCommand("MSKU1234567", "en_route", time.Now(), "driver-app")
//	result, err := handler.Handle(ctx, cmd)
//	var invalid *container.InvalidTransitionError
//	if errors.As(err, &invalid) {
//	    // rejected by the transition table, nothing was changed
//	}
type ApplyTransitionCommandHandler struct {
	uowFactory     UoWFactory
	alerts         ports.AlertCollaborator
	audit          ports.AuditCollaborator
	unloadBaseline int
}

// NewApplyTransitionCommandHandler creates a handler for container status
// movements. A non-positive unloadBaselineMinutes falls back to the default.
func NewApplyTransitionCommandHandler(
	uowFactory UoWFactory,
	alerts ports.AlertCollaborator,
	audit ports.AuditCollaborator,
	unloadBaselineMinutes int,
) ApplyTransitionCommandHandler {
	if unloadBaselineMinutes <= 0 {
		unloadBaselineMinutes = defaultUnloadBaselineMinutes
	}
	return ApplyTransitionCommandHandler{
		uowFactory:     uowFactory,
		alerts:         alerts,
		audit:          audit,
		unloadBaseline: unloadBaselineMinutes,
	}
}

// Handle processes the transition command.
//
// The container is re-read inside the transaction so the transition table
// sees its true current state. An invalid edge rejects the command with
// *container.InvalidTransitionError and leaves everything untouched. An
// idempotent no-op (target equals current) commits nothing and reports
// Changed=false.
func (h ApplyTransitionCommandHandler) Handle(
	ctx context.Context,
	command ApplyTransitionCommand,
) (ApplyTransitionResult, error) {
	if err := command.Validate(); err != nil {
		return ApplyTransitionResult{}, err
	}

	target, err := container.NormalizeStatus(command.RawStatus())
	if err != nil {
		return ApplyTransitionResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return ApplyTransitionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	containerRepo := uow.ContainerRepository()

	aggregate, err := containerRepo.GetByNumber(ctx, command.ContainerNumber())
	if err != nil {
		return ApplyTransitionResult{}, err
	}

	now := command.OccurredAt()
	result, err := aggregate.TransitionTo(target, now)
	if err != nil {
		return ApplyTransitionResult{}, err
	}

	response := ApplyTransitionResult{From: result.From, To: result.To, Changed: result.Changed}
	if !result.Changed {
		return response, nil
	}

	if err = h.applySideEffects(ctx, uow, aggregate, result, command); err != nil {
		return ApplyTransitionResult{}, err
	}

	if err = containerRepo.Update(ctx, aggregate); err != nil {
		return ApplyTransitionResult{}, err
	}

	if err = h.audit.RecordMovement(ctx, aggregate.ID(), result.From, result.To, command.Actor()); err != nil {
		return ApplyTransitionResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ApplyTransitionResult{}, err
	}

	return response, nil
}

// applySideEffects sequences the collaborating aggregates after a successful
// status change: assignment lifecycle, driver release, training records and
// demurrage alerts.
func (h ApplyTransitionCommandHandler) applySideEffects(
	ctx context.Context,
	uow UoW,
	aggregate *container.Container,
	result container.TransitionResult,
	command ApplyTransitionCommand,
) error {
	now := command.OccurredAt()

	if result.To == container.EnRoute {
		if err := h.startAssignment(ctx, uow, aggregate, now); err != nil {
			return err
		}
	}

	if result.CancelsAssignment {
		if err := h.cancelAssignment(ctx, uow, aggregate, result, now); err != nil {
			return err
		}
	}

	if result.CompletesAssignment {
		if err := h.closeLeg(ctx, uow, aggregate, result, command); err != nil {
			return err
		}
	}

	if result.DemurrageRelevant {
		deadline := aggregate.DemurrageDeadline()
		if deadline != nil && now.After(*deadline) {
			if err := h.alerts.CreateIfNeeded(ctx, aggregate.ID(), demurrageAlertReason); err != nil {
				return err
			}
		}
	}

	if result.ResolvesAlert {
		if err := h.alerts.Resolve(ctx, aggregate.ID()); err != nil {
			return err
		}
	}

	return nil
}

// startAssignment marks the container's open assignment as in progress. A
// missing assignment is tolerated: the status feed is the source of truth.
func (h ApplyTransitionCommandHandler) startAssignment(
	ctx context.Context,
	uow UoW,
	aggregate *container.Container,
	now time.Time,
) error {
	open, err := uow.AssignmentRepository().GetOpenByContainer(ctx, aggregate.ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err = open.Start(now); err != nil {
		return err
	}
	return uow.AssignmentRepository().Update(ctx, open)
}

// cancelAssignment supersedes the open assignment after a status revert and
// frees the driver the aggregate released.
func (h ApplyTransitionCommandHandler) cancelAssignment(
	ctx context.Context,
	uow UoW,
	aggregate *container.Container,
	result container.TransitionResult,
	now time.Time,
) error {
	open, err := uow.AssignmentRepository().GetOpenByContainer(ctx, aggregate.ID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}
	if err == nil {
		if err = open.Cancel(); err != nil {
			return err
		}
		if err = uow.AssignmentRepository().Update(ctx, open); err != nil {
			return err
		}
	}

	return h.releaseDriver(ctx, uow, result, now)
}

// closeLeg finishes the open assignment at a driver-releasing stage, writes
// the matching training records, and frees the driver.
func (h ApplyTransitionCommandHandler) closeLeg(
	ctx context.Context,
	uow UoW,
	aggregate *container.Container,
	result container.TransitionResult,
	command ApplyTransitionCommand,
) error {
	now := command.OccurredAt()
	durations := aggregate.LegDurations()

	open, err := uow.AssignmentRepository().GetOpenByContainer(ctx, aggregate.ID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	if err == nil {
		actual := legActuals(result.To, durations)
		if err = open.Complete(actual); err != nil {
			return err
		}
		if err = uow.AssignmentRepository().Update(ctx, open); err != nil {
			return err
		}

		if result.To == container.ArrivedAtDestination && durations.RouteMinutes != nil {
			record, recErr := timerecord.NewTravelRecord(
				kernel.NewUUID(),
				aggregate.Origin(), aggregate.Destination(),
				open.EstimatedMinutes(), *durations.RouteMinutes,
				nil, now,
			)
			if recErr != nil {
				return recErr
			}
			if err = uow.TimeRecordRepository().AddRecord(ctx, record); err != nil {
				return err
			}
		}
	}

	if result.To == container.Unloaded && durations.UnloadMinutes != nil {
		record, recErr := timerecord.NewOperationRecord(
			kernel.NewUUID(),
			aggregate.Destination(), unloadingOperation,
			h.unloadBaseline, *durations.UnloadMinutes,
			now,
		)
		if recErr != nil {
			return recErr
		}
		if err = uow.TimeRecordRepository().AddRecord(ctx, record); err != nil {
			return err
		}
	}

	return h.releaseDriver(ctx, uow, result, now)
}

// releaseDriver frees the driver the transition released, if any.
func (h ApplyTransitionCommandHandler) releaseDriver(
	ctx context.Context,
	uow UoW,
	result container.TransitionResult,
	now time.Time,
) error {
	if result.ReleasedDriver == nil {
		return nil
	}

	d, err := uow.DriverRepository().Get(ctx, *result.ReleasedDriver)
	if err != nil {
		return err
	}

	d.Release(now)
	return uow.DriverRepository().Update(ctx, d)
}

// legActuals maps the derived container durations onto the assignment's
// actual-times breakdown for the stage closing the leg.
func legActuals(target container.Status, durations container.Durations) assignment.ActualTimes {
	switch target {
	case container.ArrivedAtDestination:
		actual := assignment.ActualTimes{}
		if durations.RouteMinutes != nil {
			actual.TotalMinutes = *durations.RouteMinutes
			actual.RouteMinutes = durations.RouteMinutes
		}
		return actual
	case container.Finalized:
		actual := assignment.ActualTimes{}
		if durations.ReturnMinutes != nil {
			actual.TotalMinutes = *durations.ReturnMinutes
		}
		return actual
	default:
		return assignment.ActualTimes{}
	}
}
