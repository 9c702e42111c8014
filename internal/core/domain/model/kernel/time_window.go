package kernel

import (
	"fmt"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/pkg/errs"
)

// ErrTimeWindowIsNotConstructed indicates that a TimeWindow was not created
// via NewTimeWindow.
var ErrTimeWindowIsNotConstructed = errs.NewValueIsRequiredError("TimeWindow must be created via NewTimeWindow")

// TimeWindow is a half-open time interval [Start, End) used for assignment
// exclusivity checks. The half-open convention makes back-to-back windows
// legal: a window ending at 11:30 does not conflict with one starting at
// 11:30.
//
// TimeWindow is an immutable value object; the zero value is invalid.
type TimeWindow struct {
	start time.Time
	end   time.Time
}

// NewTimeWindow creates a window from a start instant and a positive duration
// in minutes.
//
// Returns a validation error when start is the zero time or minutes is not
// positive.
func NewTimeWindow(start time.Time, minutes int) (TimeWindow, error) {
	if start.IsZero() {
		return TimeWindow{}, errs.NewValueIsRequiredError("start")
	}
	if minutes <= 0 {
		return TimeWindow{}, errs.NewValueIsInvalidErrorWithCause("minutes",
			fmt.Errorf("%d is not greater than 0", minutes))
	}

	return TimeWindow{
		start: start,
		end:   start.Add(time.Duration(minutes) * time.Minute),
	}, nil
}

// Start returns the inclusive lower bound of the window.
func (w TimeWindow) Start() time.Time {
	return w.start
}

// End returns the exclusive upper bound of the window.
func (w TimeWindow) End() time.Time {
	return w.end
}

// Minutes returns the window length in whole minutes.
func (w TimeWindow) Minutes() int {
	return int(w.end.Sub(w.start) / time.Minute)
}

// Overlaps reports whether two half-open windows intersect.
//
// Windows overlap iff each starts before the other ends. Touching boundaries
// ([10:00,11:30) and [11:30,12:00)) do not overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.start.Before(other.end) && other.start.Before(w.end)
}

// Validate checks that the window was created via NewTimeWindow.
func (w TimeWindow) Validate() error {
	if w.start.IsZero() || w.end.IsZero() {
		return ErrTimeWindowIsNotConstructed
	}
	return nil
}
