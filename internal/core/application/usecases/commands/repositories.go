// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: validation,
// transaction management, and persistence.
package commands

import (
	"context"

	"github.com/Safary16/soptraloc-sub001/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command
// handlers. These abstractions ensure data consistency across aggregate
// boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// ContainerRepoFactory provides access to the container repository
	// within a transaction.
	ContainerRepoFactory interface {
		ContainerRepository() ports.ContainerRepository
	}

	// DriverRepoFactory provides access to the driver repository within a
	// transaction.
	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	// AssignmentRepoFactory provides access to the assignment repository
	// within a transaction.
	AssignmentRepoFactory interface {
		AssignmentRepository() ports.AssignmentRepository
	}

	// TimeRecordRepoFactory provides access to the time record repository
	// within a transaction.
	TimeRecordRepoFactory interface {
		TimeRecordRepository() ports.TimeRecordRepository
	}

	// TimeRecordUoW manages transactions for prediction-model-only
	// operations (estimate recomputation).
	TimeRecordUoW interface {
		TxManager
		TimeRecordRepoFactory
	}

	// TimeRecordUoWFactory creates new prediction-model unit of work
	// instances.
	TimeRecordUoWFactory interface {
		Create() TimeRecordUoW
	}

	// UoW manages transactions across the full aggregate set. Used by
	// commands that coordinate containers, drivers, assignments and the
	// training set in one business operation.
	//
	// Example:
	//
	//	uow := factory.Create()
	//	err := uow.Begin(ctx)
	//	defer uow.Rollback(ctx)
	//
	//	containerRepo := uow.ContainerRepository()
	//	driverRepo := uow.DriverRepository()
	//	// ... perform operations
	//
	//	err = uow.Commit(ctx)
	UoW interface {
		TxManager
		ContainerRepoFactory
		DriverRepoFactory
		AssignmentRepoFactory
		TimeRecordRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate
	// operations.
	UoWFactory interface {
		Create() UoW
	}
)
