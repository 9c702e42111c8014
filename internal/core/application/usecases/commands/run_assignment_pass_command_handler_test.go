package commands_test

import (
	"testing"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/application/usecases/commands"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/assignment"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/container"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/driver"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/timerecord"
	"github.com/Safary16/soptraloc-sub001/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var passAt = time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)

type passFixture struct {
	containerRepo  *MockContainerRepository
	driverRepo     *MockDriverRepository
	assignmentRepo *MockAssignmentRepository
	timeRecordRepo *MockTimeRecordRepository
	uow            *MockUoW
	factory        *MockUoWFactory
	handler        commands.RunAssignmentPassCommandHandler
}

func newPassFixture(t *testing.T) *passFixture {
	t.Helper()
	f := &passFixture{
		containerRepo:  new(MockContainerRepository),
		driverRepo:     new(MockDriverRepository),
		assignmentRepo: new(MockAssignmentRepository),
		timeRecordRepo: new(MockTimeRecordRepository),
		uow:            new(MockUoW),
		factory:        new(MockUoWFactory),
	}
	f.uow.On("ContainerRepository").Return(f.containerRepo).Maybe()
	f.uow.On("DriverRepository").Return(f.driverRepo).Maybe()
	f.uow.On("AssignmentRepository").Return(f.assignmentRepo).Maybe()
	f.uow.On("TimeRecordRepository").Return(f.timeRecordRepo).Maybe()
	f.uow.On("Begin", mock.Anything).Return(nil)
	f.uow.On("Rollback", mock.Anything).Return(nil)
	f.factory.On("Create").Return(f.uow)
	f.handler = commands.NewRunAssignmentPassCommandHandler(f.factory, nil, 0)
	return f
}

func schedulableContainer(t *testing.T, number string, pickupAt time.Time) *container.Container {
	t.Helper()
	c, err := container.RestoreContainer(
		kernel.NewUUID(), number, "Terminal STI", "CD Quilicura",
		container.Scheduled, nil, &pickupAt, nil,
		container.Timestamps{}, container.Durations{},
	)
	require.NoError(t, err)
	return c
}

func rosterDriver(t *testing.T, name string) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(kernel.NewUUID(), name, 4)
	require.NoError(t, err)
	d.MarkPresent(passAt.Add(-time.Hour))
	return d
}

func mustPassCommand(t *testing.T) commands.RunAssignmentPassCommand {
	t.Helper()
	cmd, err := commands.NewRunAssignmentPassCommand(passAt)
	require.NoError(t, err)
	return cmd
}

func TestRunAssignmentPassCommandHandler_Handle_EndToEnd(t *testing.T) {
	ctx := t.Context()
	f := newPassFixture(t)

	c1 := schedulableContainer(t, "MSKU1111111", passAt.Add(time.Hour))
	c2 := schedulableContainer(t, "MSKU2222222", passAt.Add(2*time.Hour))
	d1 := rosterDriver(t, "Pedro Soto")
	d2 := rosterDriver(t, "Ana Rojas")

	f.containerRepo.On("GetAllAssignable", ctx, passAt).Return([]*container.Container{c1, c2}, nil).Once()
	f.driverRepo.On("GetAllAvailable", ctx).Return([]*driver.Driver{d1, d2}, nil).Once()
	f.assignmentRepo.On("GetAllOpen", ctx).Return([]*assignment.Assignment{}, nil).Once()
	f.timeRecordRepo.On("GetEstimate", ctx, mock.Anything).Return(nil, errs.ErrObjectNotFound)

	// Per-pair commit transactions re-read both aggregates.
	f.containerRepo.On("Get", ctx, c1.ID()).Return(c1, nil).Once()
	f.containerRepo.On("Get", ctx, c2.ID()).Return(c2, nil).Once()
	f.driverRepo.On("Get", ctx, d1.ID()).Return(d1, nil).Once()
	f.driverRepo.On("Get", ctx, d2.ID()).Return(d2, nil).Once()
	f.assignmentRepo.On("Add", ctx, mock.MatchedBy(func(a *assignment.Assignment) bool {
		return a.Kind() == assignment.KindDelivery && a.EstimatedMinutes() == 90
	})).Return(nil).Twice()
	f.containerRepo.On("Update", ctx, mock.AnythingOfType("*container.Container")).Return(nil).Twice()
	f.driverRepo.On("Update", ctx, mock.AnythingOfType("*driver.Driver")).Return(nil).Twice()
	f.uow.On("Commit", ctx).Return(nil).Twice()

	result, err := f.handler.Handle(ctx, mustPassCommand(t))

	require.NoError(t, err)
	assert.Equal(t, 2, result.AssignedCount)
	assert.Empty(t, result.Pending)
	assert.Equal(t, container.Assigned, c1.Status())
	assert.Equal(t, container.Assigned, c2.Status())
	require.NotNil(t, c1.AssignedDriver())
	require.NotNil(t, d1.AssignedContainer())
	require.NotNil(t, d2.AssignedContainer())
	f.assignmentRepo.AssertExpectations(t)
	f.uow.AssertExpectations(t)
}

func TestRunAssignmentPassCommandHandler_Handle_EmptyBacklog(t *testing.T) {
	ctx := t.Context()
	f := newPassFixture(t)

	f.containerRepo.On("GetAllAssignable", ctx, passAt).Return([]*container.Container{}, nil).Once()

	result, err := f.handler.Handle(ctx, mustPassCommand(t))

	require.NoError(t, err)
	assert.Zero(t, result.AssignedCount)
	assert.Empty(t, result.Pending)
	f.driverRepo.AssertNotCalled(t, "GetAllAvailable", mock.Anything)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestRunAssignmentPassCommandHandler_Handle_LearnedEstimateSizesWindow(t *testing.T) {
	ctx := t.Context()
	f := newPassFixture(t)

	c := schedulableContainer(t, "MSKU1111111", passAt.Add(time.Hour))
	d := rosterDriver(t, "Pedro Soto")

	key := timerecord.SegmentKey{Kind: timerecord.KindTravel, From: "Terminal STI", To: "CD Quilicura"}
	learned, err := timerecord.NewLearnedEstimate(key, 120, 85, 30, passAt.Add(-24*time.Hour))
	require.NoError(t, err)

	f.containerRepo.On("GetAllAssignable", ctx, passAt).Return([]*container.Container{c}, nil).Once()
	f.driverRepo.On("GetAllAvailable", ctx).Return([]*driver.Driver{d}, nil).Once()
	f.assignmentRepo.On("GetAllOpen", ctx).Return([]*assignment.Assignment{}, nil).Once()
	f.timeRecordRepo.On("GetEstimate", ctx, key).Return(learned, nil)

	f.containerRepo.On("Get", ctx, c.ID()).Return(c, nil).Once()
	f.driverRepo.On("Get", ctx, d.ID()).Return(d, nil).Once()
	f.assignmentRepo.On("Add", ctx, mock.MatchedBy(func(a *assignment.Assignment) bool {
		return a.EstimatedMinutes() == 120
	})).Return(nil).Once()
	f.containerRepo.On("Update", ctx, c).Return(nil).Once()
	f.driverRepo.On("Update", ctx, d).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()

	result, err := f.handler.Handle(ctx, mustPassCommand(t))

	require.NoError(t, err)
	assert.Equal(t, 1, result.AssignedCount)
	f.assignmentRepo.AssertExpectations(t)
}

func TestRunAssignmentPassCommandHandler_Handle_OpenAssignmentBlocksDriver(t *testing.T) {
	ctx := t.Context()
	f := newPassFixture(t)

	c := schedulableContainer(t, "MSKU1111111", passAt.Add(time.Hour))
	d := rosterDriver(t, "Pedro Soto")

	// The driver's only slot is already reserved over the candidate window.
	open, err := assignment.NewAssignment(
		kernel.NewUUID(), kernel.NewUUID(), d.ID(),
		assignment.KindDelivery, passAt.Add(time.Hour), 90,
	)
	require.NoError(t, err)

	f.containerRepo.On("GetAllAssignable", ctx, passAt).Return([]*container.Container{c}, nil).Once()
	f.driverRepo.On("GetAllAvailable", ctx).Return([]*driver.Driver{d}, nil).Once()
	f.assignmentRepo.On("GetAllOpen", ctx).Return([]*assignment.Assignment{open}, nil).Once()
	f.timeRecordRepo.On("GetEstimate", ctx, mock.Anything).Return(nil, errs.ErrObjectNotFound)

	result, err := f.handler.Handle(ctx, mustPassCommand(t))

	require.NoError(t, err)
	assert.Zero(t, result.AssignedCount)
	require.Len(t, result.Pending, 1)
	assert.Equal(t, "MSKU1111111", result.Pending[0].Number)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestRunAssignmentPassCommandHandler_Handle_StalePairIsIsolated(t *testing.T) {
	ctx := t.Context()
	f := newPassFixture(t)

	c1 := schedulableContainer(t, "MSKU1111111", passAt.Add(time.Hour))
	c2 := schedulableContainer(t, "MSKU2222222", passAt.Add(2*time.Hour))
	d1 := rosterDriver(t, "Pedro Soto")
	d2 := rosterDriver(t, "Ana Rojas")

	// Between snapshot and commit, c1 got a driver from a concurrent pass.
	takenDriver := kernel.NewUUID()
	pickup1 := passAt.Add(time.Hour)
	staleC1, err := container.RestoreContainer(
		c1.ID(), "MSKU1111111", "Terminal STI", "CD Quilicura",
		container.Assigned, &takenDriver, &pickup1, nil,
		container.Timestamps{}, container.Durations{},
	)
	require.NoError(t, err)

	f.containerRepo.On("GetAllAssignable", ctx, passAt).Return([]*container.Container{c1, c2}, nil).Once()
	f.driverRepo.On("GetAllAvailable", ctx).Return([]*driver.Driver{d1, d2}, nil).Once()
	f.assignmentRepo.On("GetAllOpen", ctx).Return([]*assignment.Assignment{}, nil).Once()
	f.timeRecordRepo.On("GetEstimate", ctx, mock.Anything).Return(nil, errs.ErrObjectNotFound)

	f.containerRepo.On("Get", ctx, c1.ID()).Return(staleC1, nil).Once()
	f.containerRepo.On("Get", ctx, c2.ID()).Return(c2, nil).Once()
	f.driverRepo.On("Get", ctx, mock.Anything).Return(d2, nil).Once()
	f.assignmentRepo.On("Add", ctx, mock.AnythingOfType("*assignment.Assignment")).Return(nil).Once()
	f.containerRepo.On("Update", ctx, c2).Return(nil).Once()
	f.driverRepo.On("Update", ctx, d2).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()

	result, err := f.handler.Handle(ctx, mustPassCommand(t))

	require.NoError(t, err)
	assert.Equal(t, 1, result.AssignedCount)
	require.Len(t, result.Pending, 1)
	assert.Equal(t, "MSKU1111111", result.Pending[0].Number)
	assert.Contains(t, result.Pending[0].Reason, "not committed")
	assert.Equal(t, container.Assigned, c2.Status())
}

func TestRunAssignmentPassCommandHandler_Handle_RerunAssignsNothing(t *testing.T) {
	ctx := t.Context()
	f := newPassFixture(t)

	c := schedulableContainer(t, "MSKU1111111", passAt.Add(time.Hour))
	d := rosterDriver(t, "Pedro Soto")

	// First pass pairs the only container with the only driver.
	f.containerRepo.On("GetAllAssignable", ctx, passAt).Return([]*container.Container{c}, nil).Once()
	f.driverRepo.On("GetAllAvailable", ctx).Return([]*driver.Driver{d}, nil).Once()
	f.assignmentRepo.On("GetAllOpen", ctx).Return([]*assignment.Assignment{}, nil).Once()
	f.timeRecordRepo.On("GetEstimate", ctx, mock.Anything).Return(nil, errs.ErrObjectNotFound)
	f.containerRepo.On("Get", ctx, c.ID()).Return(c, nil).Once()
	f.driverRepo.On("Get", ctx, d.ID()).Return(d, nil).Once()
	f.assignmentRepo.On("Add", ctx, mock.AnythingOfType("*assignment.Assignment")).Return(nil).Once()
	f.containerRepo.On("Update", ctx, c).Return(nil).Once()
	f.driverRepo.On("Update", ctx, d).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()

	first, err := f.handler.Handle(ctx, mustPassCommand(t))
	require.NoError(t, err)
	require.Equal(t, 1, first.AssignedCount)

	// The committed pair has left the backlog, so the rerun is a no-op.
	f.containerRepo.On("GetAllAssignable", ctx, passAt).Return([]*container.Container{}, nil).Once()

	second, err := f.handler.Handle(ctx, mustPassCommand(t))

	require.NoError(t, err)
	assert.Zero(t, second.AssignedCount)
	assert.Empty(t, second.Pending)
	f.uow.AssertNumberOfCalls(t, "Commit", 1)
	f.containerRepo.AssertExpectations(t)
}
