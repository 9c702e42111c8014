package container_test

import (
	"testing"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/container"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	t.Run("all_canonical_values_are_valid", func(t *testing.T) {
		for _, s := range container.AllStatuses() {
			require.NoError(t, s.Validate(), s)
		}
	})

	t.Run("unknown_value_is_invalid", func(t *testing.T) {
		err := container.Status("teleported").Validate()
		require.ErrorIs(t, err, container.ErrUnknownRawStatus)
	})
}

func TestStatus_CanTransitionTo(t *testing.T) {
	legal := map[container.Status][]container.Status{
		container.NotArrived:           {container.Discharged, container.InSequence},
		container.InSequence:           {container.Released, container.PendingGate, container.Scheduled, container.Assigned},
		container.PendingGate:          {container.Released},
		container.Discharged:           {container.Released, container.InSequence, container.PendingGate},
		container.Released:             {container.Scheduled},
		container.Scheduled:            {container.Assigned},
		container.Assigned:             {container.EnRoute, container.Scheduled},
		container.EnRoute:              {container.ArrivedAtDestination},
		container.ArrivedAtDestination: {container.Unloaded},
		container.Unloaded:             {container.AvailableForReturn},
		container.AvailableForReturn:   {container.EnRouteReturn},
		container.EnRouteReturn:        {container.Finalized},
		container.Finalized:            {},
	}

	t.Run("closure_over_the_full_table", func(t *testing.T) {
		// Every (state, target) pair is either in the legal set, the
		// idempotent no-op, or rejected. No default fallback exists.
		for _, from := range container.AllStatuses() {
			allowed := map[container.Status]bool{from: true}
			for _, to := range legal[from] {
				allowed[to] = true
			}
			for _, to := range container.AllStatuses() {
				assert.Equal(t, allowed[to], from.CanTransitionTo(to),
					"%s -> %s", from, to)
			}
		}
	})

	t.Run("terminal_state_has_empty_edge_set", func(t *testing.T) {
		assert.True(t, container.Finalized.IsTerminal())
		assert.Empty(t, container.Finalized.AllowedTransitions())
	})

	t.Run("non_terminal_states_have_edges", func(t *testing.T) {
		for _, s := range container.AllStatuses() {
			if s == container.Finalized {
				continue
			}
			assert.NotEmpty(t, s.AllowedTransitions(), s)
		}
	})
}

func TestNormalizeStatus(t *testing.T) {
	testCases := []struct {
		raw      string
		expected container.Status
	}{
		{"released", container.Released},
		{"  Released ", container.Released},
		{"EN_ROUTE", container.EnRoute},
		{"en route", container.EnRoute},
		{"arrived-at-destination", container.ArrivedAtDestination},
		{"gate_out", container.Released},
		{"customs_released", container.Released},
		{"LIBERADO", container.Released},
		{"por arribar", container.NotArrived},
		{"programado", container.Scheduled},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := container.NormalizeStatus(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}

	t.Run("unmapped_values_are_flagged_not_guessed", func(t *testing.T) {
		_, err := container.NormalizeStatus("warehouse_17")
		require.ErrorIs(t, err, container.ErrUnknownRawStatus)
		assert.Contains(t, err.Error(), "warehouse_17")
	})
}

func TestInvalidTransitionError_Message(t *testing.T) {
	err := &container.InvalidTransitionError{
		From:    container.Released,
		To:      container.EnRoute,
		Allowed: []container.Status{container.Scheduled},
	}

	assert.Equal(t, "invalid status transition: released -> en_route (allowed: scheduled)", err.Error())
	require.ErrorIs(t, err, container.ErrInvalidTransition)
}
