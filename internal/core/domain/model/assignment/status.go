package assignment

import (
	"fmt"

	"github.com/Safary16/soptraloc-sub001/internal/pkg/errs"
)

// Status represents the lifecycle state of an assignment.
//
// State transitions:
//
//	Pending ──> InProgress ──> Completed
//	   │             │
//	   └─────────────┴──> Cancelled
//
// Completed and Cancelled are final. An assignment is cancelled when the
// container status is reverted, superseding the assignment.
type Status int

const (
	// StatusUnknown catches uninitialized Status values.
	StatusUnknown Status = iota

	// StatusPending is the initial state after the scheduler creates the
	// assignment.
	StatusPending

	// StatusInProgress means the container is en route for this leg.
	StatusInProgress

	// StatusCompleted means the leg finished and actual times were recorded.
	StatusCompleted

	// StatusCancelled means the assignment was superseded before completion.
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "unknown",
		StatusPending:    "pending",
		StatusInProgress: "in_progress",
		StatusCompleted:  "completed",
		StatusCancelled:  "cancelled",
	}
}

// Validate checks if the Status is one of the valid states.
func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("assignment status",
			fmt.Errorf("%d is not a valid status", s))
	}
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsOpen reports whether the assignment still occupies its driver's time
// window (pending or in progress). Open assignments participate in the
// scheduler's conflict checks.
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusInProgress
}

// Start transitions to InProgress. Only pending assignments can start.
func (s Status) Start() (Status, error) {
	if s != StatusPending {
		return 0, errs.NewValueIsInvalidErrorWithCause("assignment status",
			fmt.Errorf("%s is not a valid status to start", s))
	}
	return StatusInProgress, nil
}

// Complete transitions to Completed. Pending assignments may complete
// directly: a leg can close before the en-route event was observed.
func (s Status) Complete() (Status, error) {
	if !s.IsOpen() {
		return 0, errs.NewValueIsInvalidErrorWithCause("assignment status",
			fmt.Errorf("%s is not a valid status to complete", s))
	}
	return StatusCompleted, nil
}

// Cancel transitions to Cancelled. Only open assignments can be cancelled.
func (s Status) Cancel() (Status, error) {
	if !s.IsOpen() {
		return 0, errs.NewValueIsInvalidErrorWithCause("assignment status",
			fmt.Errorf("%s is not a valid status to cancel", s))
	}
	return StatusCancelled, nil
}
