package commands_test

import (
	"context"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/application/usecases/commands"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/assignment"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/container"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/driver"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/timerecord"
	"github.com/Safary16/soptraloc-sub001/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockContainerRepository struct{ mock.Mock }

func (m *MockContainerRepository) Add(ctx context.Context, c *container.Container) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContainerRepository) Update(ctx context.Context, c *container.Container) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContainerRepository) Get(ctx context.Context, id kernel.UUID) (*container.Container, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*container.Container), args.Error(1)
}

func (m *MockContainerRepository) GetByNumber(ctx context.Context, number string) (*container.Container, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*container.Container), args.Error(1)
}

func (m *MockContainerRepository) GetAllAssignable(ctx context.Context, asOf time.Time) ([]*container.Container, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*container.Container), args.Error(1)
}

func (m *MockContainerRepository) GetAllWithDemurrageBefore(ctx context.Context, deadline time.Time) ([]*container.Container, error) {
	args := m.Called(ctx, deadline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*container.Container), args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Update(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetAllAvailable(ctx context.Context) ([]*driver.Driver, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Driver), args.Error(1)
}

type MockAssignmentRepository struct{ mock.Mock }

func (m *MockAssignmentRepository) Add(ctx context.Context, a *assignment.Assignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Update(ctx context.Context, a *assignment.Assignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) GetOpenByContainer(ctx context.Context, containerID kernel.UUID) (*assignment.Assignment, error) {
	args := m.Called(ctx, containerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) GetAllOpen(ctx context.Context) ([]*assignment.Assignment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*assignment.Assignment), args.Error(1)
}

type MockTimeRecordRepository struct{ mock.Mock }

func (m *MockTimeRecordRepository) AddRecord(ctx context.Context, r *timerecord.Record) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockTimeRecordRepository) GetRecordsByKey(ctx context.Context, key timerecord.SegmentKey) ([]*timerecord.Record, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*timerecord.Record), args.Error(1)
}

func (m *MockTimeRecordRepository) GetTrainableKeys(ctx context.Context, minSamples int) ([]timerecord.SegmentKey, error) {
	args := m.Called(ctx, minSamples)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]timerecord.SegmentKey), args.Error(1)
}

func (m *MockTimeRecordRepository) GetEstimate(ctx context.Context, key timerecord.SegmentKey) (*timerecord.LearnedEstimate, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*timerecord.LearnedEstimate), args.Error(1)
}

func (m *MockTimeRecordRepository) UpsertEstimate(ctx context.Context, e *timerecord.LearnedEstimate) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) ContainerRepository() ports.ContainerRepository {
	args := m.Called()
	return args.Get(0).(ports.ContainerRepository)
}

func (m *MockUoW) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}

func (m *MockUoW) AssignmentRepository() ports.AssignmentRepository {
	args := m.Called()
	return args.Get(0).(ports.AssignmentRepository)
}

func (m *MockUoW) TimeRecordRepository() ports.TimeRecordRepository {
	args := m.Called()
	return args.Get(0).(ports.TimeRecordRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockTimeRecordUoWFactory struct{ mock.Mock }

func (m *MockTimeRecordUoWFactory) Create() commands.TimeRecordUoW {
	args := m.Called()
	return args.Get(0).(commands.TimeRecordUoW)
}

type MockAlertCollaborator struct{ mock.Mock }

func (m *MockAlertCollaborator) CreateIfNeeded(ctx context.Context, containerID kernel.UUID, reason string) error {
	args := m.Called(ctx, containerID, reason)
	return args.Error(0)
}

func (m *MockAlertCollaborator) Resolve(ctx context.Context, containerID kernel.UUID) error {
	args := m.Called(ctx, containerID)
	return args.Error(0)
}

type MockAuditCollaborator struct{ mock.Mock }

func (m *MockAuditCollaborator) RecordMovement(ctx context.Context, containerID kernel.UUID, from, to container.Status, actor string) error {
	args := m.Called(ctx, containerID, from, to, actor)
	return args.Error(0)
}
