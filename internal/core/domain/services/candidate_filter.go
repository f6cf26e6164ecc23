package services

import (
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CandidateFilter selects the couriers a broadcast may be addressed to.
//
// The filter is a pure domain service: it receives couriers already ordered
// nearest first by the geospatial index and removes everyone who must not
// receive the offer. It never reorders the input, so proximity ranking
// established upstream survives filtering.
//
// A courier is eligible when all of the following hold:
//   - the courier is online
//   - the last location report is within the freshness window
//   - the courier holds no claimed assignment (not in the busy set)
type CandidateFilter interface {
	// FilterEligible returns the IDs of eligible couriers, preserving the
	// input order. The busy set holds courier IDs with claimed assignments.
	FilterEligible(
		couriers []*courier.Courier,
		busy map[kernel.UUID]struct{},
		now time.Time,
		locationMaxAge time.Duration,
	) ([]kernel.UUID, error)
}

// NewCandidateFilter creates the standard CandidateFilter implementation.
func NewCandidateFilter() CandidateFilter {
	return &candidateFilter{}
}

type candidateFilter struct{}

func (f *candidateFilter) FilterEligible(
	couriers []*courier.Courier,
	busy map[kernel.UUID]struct{},
	now time.Time,
	locationMaxAge time.Duration,
) ([]kernel.UUID, error) {
	eligible := make([]kernel.UUID, 0, len(couriers))

	for _, candidate := range couriers {
		if err := candidate.Validate(); err != nil {
			return nil, err
		}

		if !candidate.IsOnline() {
			continue
		}
		if !candidate.HasFreshLocation(now, locationMaxAge) {
			continue
		}
		if _, isBusy := busy[candidate.ID()]; isBusy {
			continue
		}

		eligible = append(eligible, candidate.ID())
	}

	return eligible, nil
}
