package assignment_test

import (
	"testing"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/assignment"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var windowStart = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func newPendingAssignment(t *testing.T) *assignment.Assignment {
	t.Helper()
	a, err := assignment.NewAssignment(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		assignment.KindDelivery, windowStart, 90,
	)
	require.NoError(t, err)
	return a
}

func TestNewAssignment(t *testing.T) {
	t.Run("starts_pending", func(t *testing.T) {
		a := newPendingAssignment(t)

		assert.Equal(t, assignment.StatusPending, a.Status())
		assert.True(t, a.Status().IsOpen())
		assert.Nil(t, a.StartedAt())
		assert.Nil(t, a.Actual())
	})

	t.Run("rejects_invalid_kind", func(t *testing.T) {
		_, err := assignment.NewAssignment(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			assignment.Kind("relocation"), windowStart, 90,
		)
		require.Error(t, err)
	})

	t.Run("rejects_non_positive_estimate", func(t *testing.T) {
		_, err := assignment.NewAssignment(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			assignment.KindDelivery, windowStart, 0,
		)
		require.Error(t, err)
	})
}

func TestAssignment_Window(t *testing.T) {
	a := newPendingAssignment(t)

	window, err := a.Window()

	require.NoError(t, err)
	assert.Equal(t, windowStart, window.Start())
	assert.Equal(t, windowStart.Add(90*time.Minute), window.End())
}

func TestAssignment_Start(t *testing.T) {
	t.Run("pending_starts_once", func(t *testing.T) {
		a := newPendingAssignment(t)
		startAt := windowStart.Add(5 * time.Minute)

		require.NoError(t, a.Start(startAt))

		assert.Equal(t, assignment.StatusInProgress, a.Status())
		require.NotNil(t, a.StartedAt())
		assert.Equal(t, startAt, *a.StartedAt())
	})

	t.Run("started_assignment_cannot_start_again", func(t *testing.T) {
		a := newPendingAssignment(t)
		require.NoError(t, a.Start(windowStart))

		require.Error(t, a.Start(windowStart.Add(time.Minute)))
	})
}

func TestAssignment_Complete(t *testing.T) {
	t.Run("in_progress_completes_with_actuals", func(t *testing.T) {
		a := newPendingAssignment(t)
		require.NoError(t, a.Start(windowStart))
		routeMinutes := 80

		err := a.Complete(assignment.ActualTimes{TotalMinutes: 80, RouteMinutes: &routeMinutes})

		require.NoError(t, err)
		assert.Equal(t, assignment.StatusCompleted, a.Status())
		assert.False(t, a.Status().IsOpen())
		require.NotNil(t, a.Actual())
		assert.Equal(t, 80, a.Actual().TotalMinutes)
	})

	t.Run("pending_completes_directly", func(t *testing.T) {
		// The arrival event can land before the en-route event was observed.
		a := newPendingAssignment(t)

		require.NoError(t, a.Complete(assignment.ActualTimes{TotalMinutes: 70}))
		assert.Equal(t, assignment.StatusCompleted, a.Status())
	})

	t.Run("completed_cannot_complete_again", func(t *testing.T) {
		a := newPendingAssignment(t)
		require.NoError(t, a.Complete(assignment.ActualTimes{TotalMinutes: 70}))

		require.Error(t, a.Complete(assignment.ActualTimes{TotalMinutes: 75}))
	})

	t.Run("negative_total_rejected", func(t *testing.T) {
		a := newPendingAssignment(t)
		require.Error(t, a.Complete(assignment.ActualTimes{TotalMinutes: -1}))
	})
}

func TestAssignment_RecordActual(t *testing.T) {
	t.Run("backfills_unload_split_after_completion", func(t *testing.T) {
		a := newPendingAssignment(t)
		routeMinutes := 80
		require.NoError(t, a.Complete(assignment.ActualTimes{TotalMinutes: 80, RouteMinutes: &routeMinutes}))

		unloadMinutes := 35
		err := a.RecordActual(assignment.ActualTimes{TotalMinutes: 115, UnloadMinutes: &unloadMinutes})

		require.NoError(t, err)
		require.NotNil(t, a.Actual().RouteMinutes)
		assert.Equal(t, 80, *a.Actual().RouteMinutes)
		require.NotNil(t, a.Actual().UnloadMinutes)
		assert.Equal(t, 35, *a.Actual().UnloadMinutes)
		assert.Equal(t, 115, a.Actual().TotalMinutes)
	})

	t.Run("open_assignment_cannot_record", func(t *testing.T) {
		a := newPendingAssignment(t)
		require.Error(t, a.RecordActual(assignment.ActualTimes{TotalMinutes: 10}))
	})
}

func TestAssignment_Cancel(t *testing.T) {
	t.Run("pending_cancels", func(t *testing.T) {
		a := newPendingAssignment(t)

		require.NoError(t, a.Cancel())
		assert.Equal(t, assignment.StatusCancelled, a.Status())
	})

	t.Run("completed_cannot_cancel", func(t *testing.T) {
		a := newPendingAssignment(t)
		require.NoError(t, a.Complete(assignment.ActualTimes{TotalMinutes: 60}))

		require.Error(t, a.Cancel())
	})
}

func TestKind_Validate(t *testing.T) {
	require.NoError(t, assignment.KindDelivery.Validate())
	require.NoError(t, assignment.KindReturn.Validate())
	require.Error(t, assignment.Kind("").Validate())
}
