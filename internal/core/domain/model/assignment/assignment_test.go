package assignment_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAssignment(t *testing.T, candidates ...kernel.UUID) *assignment.Assignment {
	t.Helper()
	if len(candidates) == 0 {
		candidates = []kernel.UUID{kernel.NewUUID(), kernel.NewUUID()}
	}

	broadcast, err := assignment.NewAssignment(
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		candidates,
		time.Now(),
	)
	require.NoError(t, err)
	return broadcast
}

func TestNewAssignment(t *testing.T) {
	t.Run("starts_open_and_unclaimed", func(t *testing.T) {
		broadcast := newTestAssignment(t)

		assert.Equal(t, assignment.Open, broadcast.Status())
		assert.Nil(t, broadcast.Courier())
		assert.Nil(t, broadcast.AcceptedAt())
	})

	t.Run("requires_candidates", func(t *testing.T) {
		_, err := assignment.NewAssignment(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			nil, time.Now())

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects_empty_candidate_id", func(t *testing.T) {
		_, err := assignment.NewAssignment(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			[]kernel.UUID{{}}, time.Now())

		require.Error(t, err)
	})
}

func TestAssignment_Validate(t *testing.T) {
	t.Run("zero_value_is_invalid", func(t *testing.T) {
		var broadcast assignment.Assignment

		require.ErrorIs(t, broadcast.Validate(), assignment.ErrAssignmentIsNotConstructed)
	})
}

func TestAssignment_IsAddressedTo(t *testing.T) {
	courierID := kernel.NewUUID()
	broadcast := newTestAssignment(t, kernel.NewUUID(), courierID)

	assert.True(t, broadcast.IsAddressedTo(courierID))
	assert.False(t, broadcast.IsAddressedTo(kernel.NewUUID()))
}

func TestAssignment_Claim(t *testing.T) {
	t.Run("first_claim_wins", func(t *testing.T) {
		courierID := kernel.NewUUID()
		broadcast := newTestAssignment(t, courierID)
		acceptedAt := time.Now()

		require.NoError(t, broadcast.Claim(courierID, acceptedAt))

		assert.Equal(t, assignment.Claimed, broadcast.Status())
		require.NotNil(t, broadcast.Courier())
		assert.True(t, courierID.IsEqual(*broadcast.Courier()))
		require.NotNil(t, broadcast.AcceptedAt())
		assert.True(t, acceptedAt.Equal(*broadcast.AcceptedAt()))
	})

	t.Run("second_claim_fails_with_already_resolved", func(t *testing.T) {
		winner := kernel.NewUUID()
		loser := kernel.NewUUID()
		broadcast := newTestAssignment(t, winner, loser)
		require.NoError(t, broadcast.Claim(winner, time.Now()))

		err := broadcast.Claim(loser, time.Now())

		require.ErrorIs(t, err, assignment.ErrAlreadyResolved)
		assert.True(t, winner.IsEqual(*broadcast.Courier()))
	})

	t.Run("completed_broadcast_cannot_be_claimed", func(t *testing.T) {
		broadcast := newTestAssignment(t)
		require.NoError(t, broadcast.Complete())

		err := broadcast.Claim(kernel.NewUUID(), time.Now())

		require.ErrorIs(t, err, assignment.ErrAlreadyResolved)
	})
}

func TestAssignment_Complete(t *testing.T) {
	t.Run("completes_claimed_assignment", func(t *testing.T) {
		courierID := kernel.NewUUID()
		broadcast := newTestAssignment(t, courierID)
		require.NoError(t, broadcast.Claim(courierID, time.Now()))

		require.NoError(t, broadcast.Complete())

		assert.Equal(t, assignment.Completed, broadcast.Status())
	})

	t.Run("terminates_open_broadcast", func(t *testing.T) {
		broadcast := newTestAssignment(t)

		require.NoError(t, broadcast.Complete())

		assert.Equal(t, assignment.Completed, broadcast.Status())
	})

	t.Run("completed_is_final", func(t *testing.T) {
		broadcast := newTestAssignment(t)
		require.NoError(t, broadcast.Complete())

		require.ErrorIs(t, broadcast.Complete(), assignment.ErrAlreadyResolved)
	})
}

func TestStatus(t *testing.T) {
	t.Run("string_representation", func(t *testing.T) {
		assert.Equal(t, "Open", assignment.Open.String())
		assert.Equal(t, "Claimed", assignment.Claimed.String())
		assert.Equal(t, "Completed", assignment.Completed.String())
		assert.Equal(t, "Unknown", assignment.Status(42).String())
	})

	t.Run("validate_rejects_out_of_range", func(t *testing.T) {
		require.ErrorIs(t, assignment.Status(42).Validate(), errs.ErrValueIsInvalid)
		require.NoError(t, assignment.Claimed.Validate())
	})
}
