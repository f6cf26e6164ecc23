package order

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrShopOrderIsNotConstructed is returned when a ShopOrder instance was not
	// created through the NewShopOrder or RestoreShopOrder factory methods.
	ErrShopOrderIsNotConstructed = errors.New("ShopOrder must be created via NewShopOrder constructor")

	// ErrInvalidOrExpiredCode is returned by the completion handshake when the
	// submitted delivery code does not match the issued one, no code was issued,
	// or the code's validity window has elapsed.
	ErrInvalidOrExpiredCode = errors.New("delivery code is invalid or expired")

	// ErrAlreadyDelivered is returned when the completion handshake targets a
	// shop order that was already finalized. The first verification wins;
	// repeats must not re-stamp timestamps or re-fire notifications.
	ErrAlreadyDelivered = errors.New("shop order is already delivered")

	// ErrCancelReasonIsRequired is returned when a courier cancels without a reason.
	ErrCancelReasonIsRequired = errs.NewValueIsRequiredError("reason")

	// ErrCustomerCancelNotAllowed is returned when a customer attempts to cancel
	// a shop order that the restaurant has already started working on.
	ErrCustomerCancelNotAllowed = errors.New("customer may only cancel a pending shop order")
)

// CancelActor identifies who requested a shop order cancellation.
// Cancellation rules differ by actor: customers may only cancel while the
// shop order is still Pending, and couriers must provide a reason.
type CancelActor int

const (
	// CancelActorUnknown is an invalid zero value.
	CancelActorUnknown CancelActor = iota
	// CancelledByCustomer marks a cancellation requested by the ordering customer.
	CancelledByCustomer
	// CancelledByOperator marks a cancellation requested by the restaurant operator.
	CancelledByOperator
	// CancelledByCourier marks a cancellation requested by the assigned courier.
	CancelledByCourier
)

// String returns the human-readable actor name.
func (a CancelActor) String() string {
	switch a {
	case CancelledByCustomer:
		return "customer"
	case CancelledByOperator:
		return "operator"
	case CancelledByCourier:
		return "courier"
	default:
		return "unknown"
	}
}

// Validate checks the actor is a member of the closed set.
func (a CancelActor) Validate() error {
	if a < CancelledByCustomer || a > CancelledByCourier {
		return errs.NewValueIsInvalidErrorWithCause("cancel actor", fmt.Errorf("%d is not a valid actor", a))
	}
	return nil
}

// ShopOrder is the per-restaurant portion of an order and the unit that is
// dispatched and delivered. It owns the status lifecycle, the reference to
// its current delivery assignment, and the delivery code handshake state.
//
// Invariants:
//   - Line item snapshots are immutable after construction
//   - Status transitions follow the Status transition table
//   - Delivered is only reachable through CompleteDelivery
//   - At most one open or claimed assignment exists per shop order
//     (enforced by the dispatch workflow, referenced here)
type ShopOrder struct {
	id         kernel.UUID
	shopID     kernel.UUID
	shopName   string
	operatorID kernel.UUID

	items    []LineItem
	subtotal decimal.Decimal
	status   Status

	// assignmentID references the current or most recent delivery assignment.
	assignmentID *kernel.UUID

	// courierID is the courier currently holding the shop order (nil until a claim).
	courierID *kernel.UUID

	deliveryCode  *string
	codeExpiresAt *time.Time
	deliveredAt   *time.Time

	cancelReason string

	isConstructed bool
}

// NewShopOrder creates a shop order in Pending status with the given line item
// snapshots. The subtotal is computed from the items and frozen.
//
// Parameters:
//   - id: unique identifier for the shop order
//   - shopID: the restaurant this portion belongs to
//   - shopName: restaurant display name captured at order time
//   - operatorID: the restaurant operator identity
//   - items: at least one line item snapshot
func NewShopOrder(
	id kernel.UUID,
	shopID kernel.UUID,
	shopName string,
	operatorID kernel.UUID,
	items []LineItem,
) (*ShopOrder, error) {
	if err := errors.Join(id.Validate(), shopID.Validate(), operatorID.Validate()); err != nil {
		return nil, err
	}
	if shopName == "" {
		return nil, errs.NewValueIsRequiredError("shop name")
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}

	subtotal := decimal.Zero
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		subtotal = subtotal.Add(item.Total())
	}

	return &ShopOrder{
		id:            id,
		shopID:        shopID,
		shopName:      shopName,
		operatorID:    operatorID,
		items:         items,
		subtotal:      subtotal,
		status:        Pending,
		isConstructed: true,
	}, nil
}

// RestoreShopOrder reconstructs a shop order from persistence without
// re-running checkout-time validation. The status must still be a member of
// the closed state set.
func RestoreShopOrder(
	id kernel.UUID,
	shopID kernel.UUID,
	shopName string,
	operatorID kernel.UUID,
	items []LineItem,
	subtotal decimal.Decimal,
	status Status,
	assignmentID *kernel.UUID,
	courierID *kernel.UUID,
	deliveryCode *string,
	codeExpiresAt *time.Time,
	deliveredAt *time.Time,
	cancelReason string,
) (*ShopOrder, error) {
	if err := errors.Join(id.Validate(), shopID.Validate(), operatorID.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &ShopOrder{
		id:            id,
		shopID:        shopID,
		shopName:      shopName,
		operatorID:    operatorID,
		items:         items,
		subtotal:      subtotal,
		status:        status,
		assignmentID:  assignmentID,
		courierID:     courierID,
		deliveryCode:  deliveryCode,
		codeExpiresAt: codeExpiresAt,
		deliveredAt:   deliveredAt,
		cancelReason:  cancelReason,
		isConstructed: true,
	}, nil
}

// Validate ensures the ShopOrder was created through a factory method.
func (s *ShopOrder) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrShopOrderIsNotConstructed
	}
	return nil
}

// ID returns the shop order identifier.
func (s *ShopOrder) ID() kernel.UUID {
	return s.id
}

// ShopID returns the owning restaurant identifier.
func (s *ShopOrder) ShopID() kernel.UUID {
	return s.shopID
}

// ShopName returns the restaurant display name captured at order time.
func (s *ShopOrder) ShopName() string {
	return s.shopName
}

// OperatorID returns the restaurant operator identity.
func (s *ShopOrder) OperatorID() kernel.UUID {
	return s.operatorID
}

// Items returns the line item snapshots.
func (s *ShopOrder) Items() []LineItem {
	return s.items
}

// Subtotal returns the frozen sum of all line item totals.
func (s *ShopOrder) Subtotal() decimal.Decimal {
	return s.subtotal
}

// Status returns the current lifecycle status.
func (s *ShopOrder) Status() Status {
	return s.status
}

// Assignment returns the current or most recent delivery assignment reference.
// Returns nil if the shop order was never dispatched.
func (s *ShopOrder) Assignment() *kernel.UUID {
	return s.assignmentID
}

// Courier returns the courier currently holding the shop order.
// Returns nil until an assignment is claimed.
func (s *ShopOrder) Courier() *kernel.UUID {
	return s.courierID
}

// DeliveryCode returns the issued one-time code, if any.
func (s *ShopOrder) DeliveryCode() *string {
	return s.deliveryCode
}

// CodeExpiresAt returns the expiry of the issued one-time code, if any.
func (s *ShopOrder) CodeExpiresAt() *time.Time {
	return s.codeExpiresAt
}

// DeliveredAt returns the delivery completion timestamp, if delivered.
func (s *ShopOrder) DeliveredAt() *time.Time {
	return s.deliveredAt
}

// CancelReason returns the reason recorded at cancellation, if any.
func (s *ShopOrder) CancelReason() string {
	return s.cancelReason
}

// NeedsDispatch reports whether the shop order is in a state that wants a
// courier but has none attached yet. A shop order may legitimately sit in
// Ready with no assignment after a dispatch attempt found no candidates.
func (s *ShopOrder) NeedsDispatch() bool {
	switch s.status {
	case Accepted, Preparing, Ready, OutForDelivery:
		return s.assignmentID == nil
	default:
		return false
	}
}

// Advance moves the status forward per the transition table.
// Delivered and Cancelled are rejected as advance targets; use
// CompleteDelivery and Cancel instead.
func (s *ShopOrder) Advance(next Status) error {
	if err := s.Validate(); err != nil {
		return err
	}

	newStatus, err := s.status.Advance(next)
	if err != nil {
		return err
	}

	s.status = newStatus
	return nil
}

// Cancel transitions the shop order to Cancelled, applying actor rules:
//   - customers may only cancel while the shop order is Pending
//   - couriers must provide a non-empty reason
//
// Cancellation of an already terminal shop order fails.
func (s *ShopOrder) Cancel(by CancelActor, reason string) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := by.Validate(); err != nil {
		return err
	}

	if by == CancelledByCustomer && s.status != Pending {
		return ErrCustomerCancelNotAllowed
	}
	if by == CancelledByCourier && reason == "" {
		return ErrCancelReasonIsRequired
	}

	newStatus, err := s.status.Cancel()
	if err != nil {
		return err
	}

	s.status = newStatus
	s.cancelReason = reason
	s.courierID = nil
	return nil
}

// LinkAssignment records a freshly broadcast delivery assignment as the
// current one. The previous reference, if any, is overwritten; the candidate
// set of an already created broadcast is never touched.
func (s *ShopOrder) LinkAssignment(assignmentID kernel.UUID) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := assignmentID.Validate(); err != nil {
		return err
	}

	s.assignmentID = &assignmentID
	return nil
}

// AssignCourier records the courier that claimed the current assignment.
func (s *ShopOrder) AssignCourier(courierID kernel.UUID) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := courierID.Validate(); err != nil {
		return err
	}

	s.courierID = &courierID
	return nil
}

// ReleaseAssignment drops the courier and assignment references, making the
// shop order eligible for re-dispatch. Used when a broadcast is terminated
// without completing the delivery.
func (s *ShopOrder) ReleaseAssignment() {
	s.assignmentID = nil
	s.courierID = nil
}

// IssueDeliveryCode stores a one-time delivery code with its expiry.
// Re-issuing overwrites any previously stored code. Not allowed on terminal
// shop orders.
func (s *ShopOrder) IssueDeliveryCode(code string, expiresAt time.Time) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if code == "" {
		return errs.NewValueIsRequiredError("delivery code")
	}
	if s.status.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to issue a delivery code", s.status.String()),
		)
	}

	s.deliveryCode = &code
	s.codeExpiresAt = &expiresAt
	return nil
}

// CompleteDelivery runs the verification half of the completion handshake.
//
// The submitted code is accepted when it matches the stored code before its
// expiry, or when it equals the master override code. On success the shop
// order becomes Delivered and deliveredAt is stamped with now.
//
// Returns:
//   - ErrAlreadyDelivered if the shop order was already finalized
//   - ErrInvalidOrExpiredCode on any mismatch or elapsed validity window
//   - a status transition error if the shop order is not out for delivery
func (s *ShopOrder) CompleteDelivery(code string, masterCode string, now time.Time) error {
	if err := s.Validate(); err != nil {
		return err
	}

	if s.status == Delivered {
		return ErrAlreadyDelivered
	}

	if !s.codeAccepted(code, masterCode, now) {
		return ErrInvalidOrExpiredCode
	}

	newStatus, err := s.status.Deliver()
	if err != nil {
		return err
	}

	s.status = newStatus
	s.deliveredAt = &now
	s.deliveryCode = nil
	s.codeExpiresAt = nil
	return nil
}

func (s *ShopOrder) codeAccepted(code string, masterCode string, now time.Time) bool {
	if code == "" {
		return false
	}
	if masterCode != "" && code == masterCode {
		return true
	}
	if s.deliveryCode == nil || s.codeExpiresAt == nil {
		return false
	}
	return code == *s.deliveryCode && now.Before(*s.codeExpiresAt)
}
