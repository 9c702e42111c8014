package commands

import (
	"errors"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/pkg/errs"
	"github.com/Safary16/soptraloc-sub001/internal/pkg/guard"
)

var ErrRecomputeEstimatesCommandIsNotConstructed = errors.New(
	"RecomputeEstimatesCommand must be created via NewRecomputeEstimatesCommand constructor",
)

// RecomputeEstimatesCommand triggers a batch recomputation of every
// trainable learned estimate.
type RecomputeEstimatesCommand struct {
	at time.Time

	guard guard.ConstructorGuard
}

// NewRecomputeEstimatesCommand creates the batch command. The instant is the
// recent/historical partition boundary reference and the estimates' update
// time.
func NewRecomputeEstimatesCommand(at time.Time) (RecomputeEstimatesCommand, error) {
	if at.IsZero() {
		return RecomputeEstimatesCommand{}, errs.NewValueIsRequiredError("at")
	}
	return RecomputeEstimatesCommand{
		at:    at,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// At returns the batch reference instant.
func (c RecomputeEstimatesCommand) At() time.Time {
	return c.at
}

// Validate ensures the command was created through the constructor.
func (c RecomputeEstimatesCommand) Validate() error {
	return c.guard.Validate(ErrRecomputeEstimatesCommandIsNotConstructed)
}
