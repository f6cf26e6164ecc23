package order_test

import (
	"testing"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	valid := []order.Status{
		order.Pending, order.Accepted, order.Preparing, order.Ready,
		order.OutForDelivery, order.Delivered, order.Cancelled,
	}
	for _, status := range valid {
		t.Run(status.String(), func(t *testing.T) {
			require.NoError(t, status.Validate())
		})
	}

	t.Run("unknown_is_invalid", func(t *testing.T) {
		require.ErrorIs(t, order.Unknown.Validate(), errs.ErrValueIsInvalid)
	})

	t.Run("out_of_range_is_invalid", func(t *testing.T) {
		require.ErrorIs(t, order.Status(99).Validate(), errs.ErrValueIsInvalid)
	})
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "Pending", order.Pending.String())
	assert.Equal(t, "OutForDelivery", order.OutForDelivery.String())
	assert.Equal(t, "Unknown", order.Status(99).String())
}

func TestStatus_Advance(t *testing.T) {
	tests := []struct {
		name    string
		from    order.Status
		to      order.Status
		allowed bool
	}{
		{"pending_to_accepted", order.Pending, order.Accepted, true},
		{"pending_to_preparing", order.Pending, order.Preparing, true},
		{"pending_to_ready", order.Pending, order.Ready, true},
		{"pending_to_out_for_delivery", order.Pending, order.OutForDelivery, false},
		{"accepted_to_preparing", order.Accepted, order.Preparing, true},
		{"accepted_to_ready", order.Accepted, order.Ready, false},
		{"preparing_to_ready", order.Preparing, order.Ready, true},
		{"ready_to_out_for_delivery", order.Ready, order.OutForDelivery, true},
		{"ready_backwards_to_preparing", order.Ready, order.Preparing, false},
		{"advance_to_delivered_rejected", order.OutForDelivery, order.Delivered, false},
		{"advance_to_cancelled_rejected", order.Preparing, order.Cancelled, false},
		{"delivered_is_final", order.Delivered, order.OutForDelivery, false},
		{"cancelled_is_final", order.Cancelled, order.Accepted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := tt.from.Advance(tt.to)

			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, next)
				return
			}
			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		})
	}
}

func TestStatus_Cancel(t *testing.T) {
	t.Run("cancellable_from_any_active_state", func(t *testing.T) {
		for _, status := range []order.Status{
			order.Pending, order.Accepted, order.Preparing, order.Ready, order.OutForDelivery,
		} {
			next, err := status.Cancel()
			require.NoError(t, err, status.String())
			assert.Equal(t, order.Cancelled, next)
		}
	})

	t.Run("delivered_cannot_be_cancelled", func(t *testing.T) {
		_, err := order.Delivered.Cancel()
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("cancelled_cannot_be_cancelled_again", func(t *testing.T) {
		_, err := order.Cancelled.Cancel()
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStatus_Deliver(t *testing.T) {
	t.Run("deliverable_from_out_for_delivery", func(t *testing.T) {
		next, err := order.OutForDelivery.Deliver()

		require.NoError(t, err)
		assert.Equal(t, order.Delivered, next)
	})

	t.Run("not_deliverable_from_other_states", func(t *testing.T) {
		for _, status := range []order.Status{
			order.Pending, order.Accepted, order.Preparing, order.Ready, order.Delivered, order.Cancelled,
		} {
			_, err := status.Deliver()
			require.ErrorIs(t, err, errs.ErrValueIsInvalid, status.String())
		}
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, order.Delivered.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())
	assert.False(t, order.Pending.IsTerminal())
	assert.False(t, order.OutForDelivery.IsTerminal())
}

func TestStatusFromString(t *testing.T) {
	t.Run("parses_canonical_names", func(t *testing.T) {
		status, err := order.StatusFromString("Preparing")

		require.NoError(t, err)
		assert.Equal(t, order.Preparing, status)
	})

	t.Run("rejects_unknown_names", func(t *testing.T) {
		_, err := order.StatusFromString("Cooking")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects_unknown_literal", func(t *testing.T) {
		_, err := order.StatusFromString("Unknown")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
