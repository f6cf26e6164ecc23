package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
)

// AssignmentRepository defines the persistence contract for delivery
// assignments.
//
// Claiming and terminating are conditional writes, not load-modify-store
// sequences: under broadcast-and-claim many couriers race for the same open
// assignment, and the repository resolves that race with a single atomic
// status transition in the store.
type AssignmentRepository interface {
	// Add persists a new open assignment. The store enforces the
	// one-live-broadcast invariant: when an open or claimed assignment
	// already exists for the same shop order, Add fails with
	// assignment.ErrAlreadyResolved.
	Add(ctx context.Context, aggregate *assignment.Assignment) error

	// Get retrieves an assignment by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error)

	// ClaimOpen atomically transitions the assignment from Open to Claimed
	// on behalf of the courier, recording the acceptance time. Returns
	// claimed=false without error when the assignment was not open anymore;
	// exactly one concurrent caller observes claimed=true.
	ClaimOpen(
		ctx context.Context,
		id kernel.UUID,
		courierID kernel.UUID,
		acceptedAt time.Time,
	) (claimed bool, err error)

	// Terminate atomically moves a not-yet-completed assignment to
	// Completed. Used both by the delivery completion handshake and by
	// cancellation. Returns terminated=false when the assignment was
	// already completed.
	Terminate(ctx context.Context, id kernel.UUID) (terminated bool, err error)

	// GetOpenForCandidate retrieves all open assignments whose candidate
	// set contains the courier, oldest first.
	GetOpenForCandidate(ctx context.Context, courierID kernel.UUID) ([]*assignment.Assignment, error)

	// GetClaimedByCourier retrieves the courier's claimed assignment.
	// Returns an ObjectNotFoundError when the courier holds none.
	GetClaimedByCourier(ctx context.Context, courierID kernel.UUID) (*assignment.Assignment, error)

	// GetClaimedCourierIDs returns the subset of the given courier IDs that
	// currently hold a claimed assignment. This is the busy set used by
	// candidate filtering.
	GetClaimedCourierIDs(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]struct{}, error)

	// HasActiveForShopOrder reports whether the shop order has an open or
	// claimed assignment. Guards dispatch against creating a second live
	// broadcast for the same shop order.
	HasActiveForShopOrder(ctx context.Context, shopOrderID kernel.UUID) (bool, error)
}
