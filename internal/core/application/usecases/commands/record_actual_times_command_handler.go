package commands

import (
	"context"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/assignment"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/timerecord"
)

// RecordActualTimesCommandHandler closes an assignment with its observed
// execution times and feeds the splits back into the prediction training set.
// An already completed assignment only refines its breakdown; training
// records are written either way, outlier-flagged at construction.
type RecordActualTimesCommandHandler struct {
	uowFactory     UoWFactory
	unloadBaseline int
}

// NewRecordActualTimesCommandHandler creates the handler. A non-positive
// unloadBaselineMinutes falls back to the default.
func NewRecordActualTimesCommandHandler(
	uowFactory UoWFactory,
	unloadBaselineMinutes int,
) RecordActualTimesCommandHandler {
	if unloadBaselineMinutes <= 0 {
		unloadBaselineMinutes = defaultUnloadBaselineMinutes
	}
	return RecordActualTimesCommandHandler{
		uowFactory:     uowFactory,
		unloadBaseline: unloadBaselineMinutes,
	}
}

// Handle processes the command in one transaction: assignment update first,
// then the training records derived from the reported splits.
func (h RecordActualTimesCommandHandler) Handle(
	ctx context.Context,
	command RecordActualTimesCommand,
) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	a, err := uow.AssignmentRepository().Get(ctx, command.AssignmentID())
	if err != nil {
		return err
	}

	actual := assignment.ActualTimes{
		TotalMinutes:  command.TotalMinutes(),
		RouteMinutes:  command.RouteMinutes(),
		UnloadMinutes: command.UnloadMinutes(),
	}

	if a.Status().IsOpen() {
		err = a.Complete(actual)
	} else {
		err = a.RecordActual(actual)
	}
	if err != nil {
		return err
	}

	if err = uow.AssignmentRepository().Update(ctx, a); err != nil {
		return err
	}

	if err = h.writeTrainingRecords(ctx, uow, a, command); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// writeTrainingRecords turns the reported splits into travel and operation
// records keyed by the assignment's route.
func (h RecordActualTimesCommandHandler) writeTrainingRecords(
	ctx context.Context,
	uow UoW,
	a *assignment.Assignment,
	command RecordActualTimesCommand,
) error {
	c, err := uow.ContainerRepository().Get(ctx, a.ContainerID())
	if err != nil {
		return err
	}

	if route := command.RouteMinutes(); route != nil && *route > 0 {
		record, recErr := timerecord.NewTravelRecord(
			kernel.NewUUID(),
			c.Origin(), c.Destination(),
			a.EstimatedMinutes(), *route,
			command.DistanceKM(), command.RecordedAt(),
		)
		if recErr != nil {
			return recErr
		}
		if err = uow.TimeRecordRepository().AddRecord(ctx, record); err != nil {
			return err
		}
	}

	if unload := command.UnloadMinutes(); unload != nil && *unload > 0 {
		record, recErr := timerecord.NewOperationRecord(
			kernel.NewUUID(),
			c.Destination(), unloadingOperation,
			h.unloadBaseline, *unload,
			command.RecordedAt(),
		)
		if recErr != nil {
			return recErr
		}
		if err = uow.TimeRecordRepository().AddRecord(ctx, record); err != nil {
			return err
		}
	}

	return nil
}
