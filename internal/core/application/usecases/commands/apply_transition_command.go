package commands

import (
	"errors"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/pkg/errs"
	"github.com/Safary16/soptraloc-sub001/internal/pkg/guard"
)

var ErrApplyTransitionCommandIsNotConstructed = errors.New(
	"ApplyTransitionCommand must be created via NewApplyTransitionCommand constructor",
)

// ApplyTransitionCommand moves a container to a new lifecycle stage. The raw
// status arrives in the import vocabulary (aliases, legacy spellings) and is
// normalized before validation against the transition table.
//
// Example:
//
//	cmd, err := NewApplyTransitionCommand("MSKU1234567", "gate_out", time.Now(), "terminal-feed")
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type ApplyTransitionCommand struct {
	containerNumber string
	rawStatus       string
	occurredAt      time.Time
	actor           string

	guard guard.ConstructorGuard
}

// NewApplyTransitionCommand creates a transition command.
//
// Parameters:
//   - containerNumber: the ISO number identifying the container
//   - rawStatus: the incoming status value, normalized by the handler
//   - occurredAt: when the movement happened; stamps and durations use it
//   - actor: who reported the movement, recorded in the audit trail;
//     defaults to "system" when empty
func NewApplyTransitionCommand(
	containerNumber, rawStatus string,
	occurredAt time.Time,
	actor string,
) (ApplyTransitionCommand, error) {
	if containerNumber == "" {
		return ApplyTransitionCommand{}, errs.NewValueIsRequiredError("containerNumber")
	}
	if rawStatus == "" {
		return ApplyTransitionCommand{}, errs.NewValueIsRequiredError("rawStatus")
	}
	if occurredAt.IsZero() {
		return ApplyTransitionCommand{}, errs.NewValueIsRequiredError("occurredAt")
	}
	if actor == "" {
		actor = "system"
	}

	return ApplyTransitionCommand{
		containerNumber: containerNumber,
		rawStatus:       rawStatus,
		occurredAt:      occurredAt,
		actor:           actor,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// ContainerNumber returns the container's ISO number.
func (c ApplyTransitionCommand) ContainerNumber() string {
	return c.containerNumber
}

// RawStatus returns the incoming status value before normalization.
func (c ApplyTransitionCommand) RawStatus() string {
	return c.rawStatus
}

// OccurredAt returns the movement instant.
func (c ApplyTransitionCommand) OccurredAt() time.Time {
	return c.occurredAt
}

// Actor returns who reported the movement.
func (c ApplyTransitionCommand) Actor() string {
	return c.actor
}

// Validate ensures the command was created through the constructor.
func (c ApplyTransitionCommand) Validate() error {
	return c.guard.Validate(ErrApplyTransitionCommandIsNotConstructed)
}
