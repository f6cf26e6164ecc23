package assignment

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrAssignmentIsNotConstructed is returned when an Assignment instance was
	// not created through the NewAssignment or RestoreAssignment factory methods.
	ErrAssignmentIsNotConstructed = errors.New(
		"Assignment must be created via NewAssignment constructor")

	// ErrAlreadyResolved is returned when a claim or completion races an
	// assignment that is no longer in the expected state. Under the
	// broadcast-and-claim protocol this is an expected outcome, not a bug:
	// every courier except the winner observes it.
	ErrAlreadyResolved = errors.New("assignment is already resolved")
)

// Assignment is one broadcast-and-claim cycle for a shop order.
//
// It is created in Open status addressed to an immutable candidate set,
// claimed by exactly one courier, and completed (or terminated) once the
// delivery finishes or the shop order is cancelled.
//
// The in-memory Claim method enforces the state transition, but the race
// between concurrent claimers is resolved by the persistence layer with a
// single conditional write. Callers must never implement claiming as a
// read-then-write sequence on top of this aggregate.
type Assignment struct {
	id          kernel.UUID
	orderID     kernel.UUID
	shopID      kernel.UUID
	shopOrderID kernel.UUID

	// candidates is the courier set the broadcast was addressed to.
	// Fixed at creation; later location changes never amend it.
	candidates []kernel.UUID

	courierID  *kernel.UUID
	status     Status
	createdAt  time.Time
	acceptedAt *time.Time

	isConstructed bool
}

// NewAssignment creates an open broadcast addressed to the given candidates.
// The candidate set must be non-empty: dispatch with zero candidates is a
// no-op upstream and never produces a broadcast record.
func NewAssignment(
	id kernel.UUID,
	orderID kernel.UUID,
	shopID kernel.UUID,
	shopOrderID kernel.UUID,
	candidates []kernel.UUID,
	createdAt time.Time,
) (*Assignment, error) {
	if err := errors.Join(
		id.Validate(), orderID.Validate(), shopID.Validate(), shopOrderID.Validate(),
	); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, errs.NewValueIsRequiredError("candidates")
	}
	for _, candidate := range candidates {
		if err := candidate.Validate(); err != nil {
			return nil, err
		}
	}

	return &Assignment{
		id:            id,
		orderID:       orderID,
		shopID:        shopID,
		shopOrderID:   shopOrderID,
		candidates:    candidates,
		status:        Open,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// RestoreAssignment reconstructs an assignment from persistence.
func RestoreAssignment(
	id kernel.UUID,
	orderID kernel.UUID,
	shopID kernel.UUID,
	shopOrderID kernel.UUID,
	candidates []kernel.UUID,
	courierID *kernel.UUID,
	status Status,
	createdAt time.Time,
	acceptedAt *time.Time,
) (*Assignment, error) {
	if err := errors.Join(id.Validate(), shopOrderID.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &Assignment{
		id:            id,
		orderID:       orderID,
		shopID:        shopID,
		shopOrderID:   shopOrderID,
		candidates:    candidates,
		courierID:     courierID,
		status:        status,
		createdAt:     createdAt,
		acceptedAt:    acceptedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Assignment was created through a factory method.
func (a *Assignment) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAssignmentIsNotConstructed
	}
	return nil
}

// ID returns the assignment identifier.
func (a *Assignment) ID() kernel.UUID {
	return a.id
}

// OrderID returns the referenced order.
func (a *Assignment) OrderID() kernel.UUID {
	return a.orderID
}

// ShopID returns the referenced restaurant.
func (a *Assignment) ShopID() kernel.UUID {
	return a.shopID
}

// ShopOrderID returns the shop order this broadcast dispatches.
func (a *Assignment) ShopOrderID() kernel.UUID {
	return a.shopOrderID
}

// Candidates returns the courier set the broadcast was addressed to.
func (a *Assignment) Candidates() []kernel.UUID {
	return a.candidates
}

// Courier returns the courier that claimed the assignment.
// Returns nil while the assignment is still open.
func (a *Assignment) Courier() *kernel.UUID {
	return a.courierID
}

// Status returns the current lifecycle status.
func (a *Assignment) Status() Status {
	return a.status
}

// CreatedAt returns the broadcast creation timestamp.
func (a *Assignment) CreatedAt() time.Time {
	return a.createdAt
}

// AcceptedAt returns the claim timestamp, if claimed.
func (a *Assignment) AcceptedAt() *time.Time {
	return a.acceptedAt
}

// IsAddressedTo reports whether the courier is in the candidate set.
func (a *Assignment) IsAddressedTo(courierID kernel.UUID) bool {
	for _, candidate := range a.candidates {
		if candidate.IsEqual(courierID) {
			return true
		}
	}
	return false
}

// Claim records the winning courier and stamps the acceptance time.
//
// Fails with ErrAlreadyResolved when the assignment is no longer open.
// This method only mutates the in-memory aggregate; the authoritative
// arbitration between concurrent claims is the conditional update in the
// assignment repository.
func (a *Assignment) Claim(courierID kernel.UUID, at time.Time) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := courierID.Validate(); err != nil {
		return err
	}

	newStatus, err := a.status.Claim()
	if err != nil {
		return err
	}

	a.status = newStatus
	a.courierID = &courierID
	a.acceptedAt = &at
	return nil
}

// Complete moves the assignment to its terminal state, freeing the courier
// for subsequent dispatches.
func (a *Assignment) Complete() error {
	if err := a.Validate(); err != nil {
		return err
	}

	newStatus, err := a.status.Complete()
	if err != nil {
		return err
	}

	a.status = newStatus
	return nil
}
