package commands_test

import (
	"testing"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/application/usecases/commands"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/assignment"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/container"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/timerecord"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var recordedAtTest = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type actualsFixture struct {
	containerRepo  *MockContainerRepository
	assignmentRepo *MockAssignmentRepository
	timeRecordRepo *MockTimeRecordRepository
	uow            *MockUoW
	factory        *MockUoWFactory
	handler        commands.RecordActualTimesCommandHandler
}

func newActualsFixture(t *testing.T) *actualsFixture {
	t.Helper()
	f := &actualsFixture{
		containerRepo:  new(MockContainerRepository),
		assignmentRepo: new(MockAssignmentRepository),
		timeRecordRepo: new(MockTimeRecordRepository),
		uow:            new(MockUoW),
		factory:        new(MockUoWFactory),
	}
	f.uow.On("ContainerRepository").Return(f.containerRepo).Maybe()
	f.uow.On("AssignmentRepository").Return(f.assignmentRepo).Maybe()
	f.uow.On("TimeRecordRepository").Return(f.timeRecordRepo).Maybe()
	f.uow.On("Begin", mock.Anything).Return(nil)
	f.uow.On("Rollback", mock.Anything).Return(nil)
	f.factory.On("Create").Return(f.uow)
	f.handler = commands.NewRecordActualTimesCommandHandler(f.factory, 0)
	return f
}

func actualsScenario(t *testing.T) (*container.Container, *assignment.Assignment) {
	t.Helper()
	pickup := recordedAtTest.Add(-2 * time.Hour)
	c, err := container.RestoreContainer(
		kernel.NewUUID(), "MSKU1234567", "Terminal STI", "CD Quilicura",
		container.ArrivedAtDestination, nil, &pickup, nil,
		container.Timestamps{}, container.Durations{},
	)
	require.NoError(t, err)

	a, err := assignment.NewAssignment(
		kernel.NewUUID(), c.ID(), kernel.NewUUID(),
		assignment.KindDelivery, pickup, 90,
	)
	require.NoError(t, err)
	return c, a
}

func TestRecordActualTimesCommandHandler_Handle_ClosesOpenAssignment(t *testing.T) {
	ctx := t.Context()
	f := newActualsFixture(t)
	c, a := actualsScenario(t)
	route, unload := 95, 35
	distance := 42.5

	f.assignmentRepo.On("Get", ctx, a.ID()).Return(a, nil).Once()
	f.assignmentRepo.On("Update", ctx, a).Return(nil).Once()
	f.containerRepo.On("Get", ctx, c.ID()).Return(c, nil).Once()
	f.timeRecordRepo.On("AddRecord", ctx, mock.MatchedBy(func(r *timerecord.Record) bool {
		return r.Key().Kind == timerecord.KindTravel &&
			r.ActualMinutes() == 95 && r.DistanceKM() != nil
	})).Return(nil).Once()
	f.timeRecordRepo.On("AddRecord", ctx, mock.MatchedBy(func(r *timerecord.Record) bool {
		return r.Key().Kind == timerecord.KindOperation && r.ActualMinutes() == 35
	})).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()

	cmd, err := commands.NewRecordActualTimesCommand(a.ID(), 130, &route, &unload, &distance, recordedAtTest)
	require.NoError(t, err)

	require.NoError(t, f.handler.Handle(ctx, cmd))

	assert.Equal(t, assignment.StatusCompleted, a.Status())
	require.NotNil(t, a.Actual())
	assert.Equal(t, 130, a.Actual().TotalMinutes)
	f.timeRecordRepo.AssertExpectations(t)
	f.uow.AssertExpectations(t)
}

func TestRecordActualTimesCommandHandler_Handle_RefinesCompletedAssignment(t *testing.T) {
	ctx := t.Context()
	f := newActualsFixture(t)
	c, a := actualsScenario(t)
	route := 95
	require.NoError(t, a.Complete(assignment.ActualTimes{TotalMinutes: 95, RouteMinutes: &route}))
	unload := 35

	f.assignmentRepo.On("Get", ctx, a.ID()).Return(a, nil).Once()
	f.assignmentRepo.On("Update", ctx, a).Return(nil).Once()
	f.containerRepo.On("Get", ctx, c.ID()).Return(c, nil).Once()
	f.timeRecordRepo.On("AddRecord", ctx, mock.MatchedBy(func(r *timerecord.Record) bool {
		return r.Key().Kind == timerecord.KindOperation
	})).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()

	cmd, err := commands.NewRecordActualTimesCommand(a.ID(), 130, nil, &unload, nil, recordedAtTest)
	require.NoError(t, err)

	require.NoError(t, f.handler.Handle(ctx, cmd))

	require.NotNil(t, a.Actual().RouteMinutes)
	assert.Equal(t, 95, *a.Actual().RouteMinutes)
	require.NotNil(t, a.Actual().UnloadMinutes)
	assert.Equal(t, 35, *a.Actual().UnloadMinutes)
	f.timeRecordRepo.AssertExpectations(t)
}

func TestRecordActualTimesCommandHandler_Handle_OutlierStillRecorded(t *testing.T) {
	ctx := t.Context()
	f := newActualsFixture(t)
	c, a := actualsScenario(t)
	route := 300 // over triple the 90-minute estimate

	f.assignmentRepo.On("Get", ctx, a.ID()).Return(a, nil).Once()
	f.assignmentRepo.On("Update", ctx, a).Return(nil).Once()
	f.containerRepo.On("Get", ctx, c.ID()).Return(c, nil).Once()
	f.timeRecordRepo.On("AddRecord", ctx, mock.MatchedBy(func(r *timerecord.Record) bool {
		return r.IsOutlier()
	})).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()

	cmd, err := commands.NewRecordActualTimesCommand(a.ID(), 300, &route, nil, nil, recordedAtTest)
	require.NoError(t, err)

	require.NoError(t, f.handler.Handle(ctx, cmd))
	f.timeRecordRepo.AssertExpectations(t)
}

func TestNewRecordActualTimesCommand_Validation(t *testing.T) {
	t.Run("negative_total_rejected", func(t *testing.T) {
		_, err := commands.NewRecordActualTimesCommand(kernel.NewUUID(), -1, nil, nil, nil, recordedAtTest)
		require.Error(t, err)
	})

	t.Run("zero_value_rejected_by_handler", func(t *testing.T) {
		f := newActualsFixture(t)
		err := f.handler.Handle(t.Context(), commands.RecordActualTimesCommand{})
		require.ErrorIs(t, err, commands.ErrRecordActualTimesCommandIsNotConstructed)
		f.factory.AssertNotCalled(t, "Create")
	})
}
