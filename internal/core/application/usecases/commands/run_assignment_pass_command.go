package commands

import (
	"errors"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/pkg/errs"
	"github.com/Safary16/soptraloc-sub001/internal/pkg/guard"
)

var ErrRunAssignmentPassCommandIsNotConstructed = errors.New(
	"RunAssignmentPassCommand must be created via NewRunAssignmentPassCommand constructor",
)

// RunAssignmentPassCommand triggers one scheduling pass over the assignable
// container backlog. The pass is idempotent: re-running it with no state
// change assigns nothing new.
//
// Example:
//
//	cmd, _ := NewRunAssignmentPassCommand(time.Now())
//	result, err := handler.Handle(ctx, cmd)
//	log.Printf("assigned %d, pending %d", result.AssignedCount, len(result.Pending))
type RunAssignmentPassCommand struct {
	at time.Time

	guard guard.ConstructorGuard
}

// NewRunAssignmentPassCommand creates a command for one scheduling pass at
// the given reference instant.
func NewRunAssignmentPassCommand(at time.Time) (RunAssignmentPassCommand, error) {
	if at.IsZero() {
		return RunAssignmentPassCommand{}, errs.NewValueIsRequiredError("at")
	}
	return RunAssignmentPassCommand{
		at:    at,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// At returns the pass reference instant used for scoring and estimates.
func (c RunAssignmentPassCommand) At() time.Time {
	return c.at
}

// Validate ensures the command was created through the constructor.
func (c RunAssignmentPassCommand) Validate() error {
	return c.guard.Validate(ErrRunAssignmentPassCommandIsNotConstructed)
}
