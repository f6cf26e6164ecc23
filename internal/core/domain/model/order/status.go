package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a shop order.
// It implements a state machine with an explicit transition table so that
// arbitrary status writes are rejected.
//
// State transitions:
//
//	Pending ──┬──> Accepted ──> Preparing ──> Ready ──> OutForDelivery ──> Delivered
//	          ├────────────────────^           ^
//	          └────────────────────────────────┘
//
// Cancelled is reachable from every state except Delivered and is absorbing.
// Delivered is only reachable through the delivery completion handshake,
// never through a direct status advance.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status after checkout, awaiting the restaurant.
	Pending

	// Accepted indicates the restaurant confirmed the shop order.
	Accepted

	// Preparing indicates the kitchen is working on the shop order.
	Preparing

	// Ready indicates the shop order is prepared and awaiting pickup.
	Ready

	// OutForDelivery indicates a courier is carrying the shop order.
	OutForDelivery

	// Delivered indicates the completion handshake succeeded.
	// This is a final state with no further transitions allowed.
	Delivered

	// Cancelled indicates the shop order was abandoned.
	// This is a final state with no further transitions allowed.
	Cancelled
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		Pending:        "Pending",
		Accepted:       "Accepted",
		Preparing:      "Preparing",
		Ready:          "Ready",
		OutForDelivery: "OutForDelivery",
		Delivered:      "Delivered",
		Cancelled:      "Cancelled",
	}
}

// getAdvanceTargets returns the transition table for operator-driven advances.
// Pending may jump directly to any of the three kitchen states; afterwards the
// order moves strictly forward one step at a time. Delivered and Cancelled are
// deliberately absent: they are reached through the completion handshake and
// the cancellation path respectively.
func getAdvanceTargets() map[Status][]Status {
	return map[Status][]Status{
		Pending:   {Accepted, Preparing, Ready},
		Accepted:  {Preparing},
		Preparing: {Ready},
		Ready:     {OutForDelivery},
	}
}

// Validate checks if the Status value is a member of the closed state set.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if s < Pending || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanAdvanceTo reports whether an operator-driven advance to next is listed
// in the transition table.
func (s Status) CanAdvanceTo(next Status) bool {
	for _, target := range getAdvanceTargets()[s] {
		if target == next {
			return true
		}
	}
	return false
}

// Advance transitions the status forward to next.
//
// Valid transitions are those listed in the transition table; Delivered and
// Cancelled are never valid advance targets.
//
// Returns:
//   - (next, nil) on a valid transition
//   - (0, error) if the transition is not allowed from the current status
func (s Status) Advance(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return 0, err
	}

	if !s.CanAdvanceTo(next) {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s -> %s is not a valid transition", s.String(), next.String()),
		)
	}

	return next, nil
}

// Cancel transitions the status to Cancelled.
//
// Valid from every state except Delivered and Cancelled.
func (s Status) Cancel() (Status, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}

	if s.IsTerminal() {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to cancel", s.String()),
		)
	}

	return Cancelled, nil
}

// Deliver transitions the status to Delivered.
//
// Valid only from OutForDelivery. This method is reserved for the delivery
// completion handshake; operator advances never produce Delivered.
func (s Status) Deliver() (Status, error) {
	if s != OutForDelivery {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to deliver from", s.String()),
		)
	}

	return Delivered, nil
}

// StatusFromString parses a status name as used on the API surface.
// Matching is exact against the canonical names.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a known status", s))
}
