package kernel_test

import (
	"testing"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWindow(t *testing.T, hour, minute, minutes int) kernel.TimeWindow {
	t.Helper()
	start := time.Date(2026, 3, 14, hour, minute, 0, 0, time.UTC)
	w, err := kernel.NewTimeWindow(start, minutes)
	require.NoError(t, err)
	return w
}

func TestNewTimeWindow(t *testing.T) {
	t.Run("valid_window", func(t *testing.T) {
		w := mustWindow(t, 10, 0, 90)

		assert.Equal(t, 90, w.Minutes())
		assert.Equal(t, w.Start().Add(90*time.Minute), w.End())
		require.NoError(t, w.Validate())
	})

	t.Run("zero_start_rejected", func(t *testing.T) {
		_, err := kernel.NewTimeWindow(time.Time{}, 30)
		require.Error(t, err)
	})

	t.Run("non_positive_minutes_rejected", func(t *testing.T) {
		_, err := kernel.NewTimeWindow(time.Now(), 0)
		require.Error(t, err)

		_, err = kernel.NewTimeWindow(time.Now(), -10)
		require.Error(t, err)
	})
}

func TestTimeWindow_Overlaps(t *testing.T) {
	// Existing assignment occupies [10:00, 11:30).
	existing := mustWindow(t, 10, 0, 90)

	testCases := []struct {
		name      string
		candidate kernel.TimeWindow
		overlaps  bool
	}{
		{"starts_inside", mustWindow(t, 11, 0, 45), true},
		{"fully_inside", mustWindow(t, 10, 15, 30), true},
		{"covers_existing", mustWindow(t, 9, 0, 240), true},
		{"ends_inside", mustWindow(t, 9, 30, 60), true},
		{"starts_at_existing_end", mustWindow(t, 11, 30, 30), false},
		{"ends_at_existing_start", mustWindow(t, 9, 0, 60), false},
		{"fully_before", mustWindow(t, 7, 0, 60), false},
		{"fully_after", mustWindow(t, 13, 0, 60), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlaps, existing.Overlaps(tc.candidate))
			// Overlap is symmetric.
			assert.Equal(t, tc.overlaps, tc.candidate.Overlaps(existing))
		})
	}
}

func TestTimeWindow_Validate(t *testing.T) {
	t.Run("zero_value_is_invalid", func(t *testing.T) {
		var w kernel.TimeWindow
		require.Error(t, w.Validate())
	})
}
