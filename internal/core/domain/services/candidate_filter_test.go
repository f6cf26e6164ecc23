package services_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const locationMaxAge = 2 * time.Minute

func onlineCourier(t *testing.T, name string, reportedAt time.Time) *courier.Courier {
	t.Helper()
	created, err := courier.NewCourier(kernel.NewUUID(), name, "")
	require.NoError(t, err)

	point, err := kernel.NewGeoPoint(28.6139, 77.2090)
	require.NoError(t, err)
	require.NoError(t, created.ReportLocation(point, reportedAt))
	require.NoError(t, created.SetOnline(true))
	return created
}

func TestCandidateFilter_FilterEligible(t *testing.T) {
	filter := services.NewCandidateFilter()
	now := time.Now()

	t.Run("keeps_nearest_first_order", func(t *testing.T) {
		nearest := onlineCourier(t, "Nearest", now)
		middle := onlineCourier(t, "Middle", now)
		farthest := onlineCourier(t, "Farthest", now)

		eligible, err := filter.FilterEligible(
			[]*courier.Courier{nearest, middle, farthest}, nil, now, locationMaxAge)

		require.NoError(t, err)
		require.Len(t, eligible, 3)
		assert.True(t, nearest.ID().IsEqual(eligible[0]))
		assert.True(t, middle.ID().IsEqual(eligible[1]))
		assert.True(t, farthest.ID().IsEqual(eligible[2]))
	})

	t.Run("drops_busy_couriers", func(t *testing.T) {
		free := onlineCourier(t, "Free", now)
		busy := onlineCourier(t, "Busy", now)

		eligible, err := filter.FilterEligible(
			[]*courier.Courier{busy, free},
			map[kernel.UUID]struct{}{busy.ID(): {}},
			now, locationMaxAge)

		require.NoError(t, err)
		require.Len(t, eligible, 1)
		assert.True(t, free.ID().IsEqual(eligible[0]))
	})

	t.Run("drops_offline_couriers", func(t *testing.T) {
		offline := onlineCourier(t, "Offline", now)
		require.NoError(t, offline.SetOnline(false))

		eligible, err := filter.FilterEligible(
			[]*courier.Courier{offline}, nil, now, locationMaxAge)

		require.NoError(t, err)
		assert.Empty(t, eligible)
	})

	t.Run("drops_stale_locations", func(t *testing.T) {
		stale := onlineCourier(t, "Stale", now.Add(-10*time.Minute))

		eligible, err := filter.FilterEligible(
			[]*courier.Courier{stale}, nil, now, locationMaxAge)

		require.NoError(t, err)
		assert.Empty(t, eligible)
	})

	t.Run("empty_input_yields_empty_result", func(t *testing.T) {
		eligible, err := filter.FilterEligible(nil, nil, now, locationMaxAge)

		require.NoError(t, err)
		assert.Empty(t, eligible)
	})

	t.Run("rejects_unconstructed_courier", func(t *testing.T) {
		_, err := filter.FilterEligible(
			[]*courier.Courier{{}}, nil, now, locationMaxAge)

		require.ErrorIs(t, err, courier.ErrCourierIsNotConstructed)
	})
}
