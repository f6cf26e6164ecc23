package assignment

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery assignment.
//
// State transitions:
//
//	Open ──> Claimed ──> Completed
//
// Open assignments are broadcasts visible to every addressed courier.
// Exactly one claim moves the assignment to Claimed; completion or
// termination moves it to Completed, which is final.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Open means the broadcast is live and unclaimed.
	Open

	// Claimed means exactly one courier won the broadcast and is carrying
	// the shop order. A courier holding a Claimed assignment is busy for
	// matching purposes.
	Claimed

	// Completed means the assignment is terminal, either through the
	// delivery completion handshake or through cancellation.
	Completed
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Open:      "Open",
		Claimed:   "Claimed",
		Completed: "Completed",
	}
}

// Validate checks if the Status value is a member of the closed state set.
func (s Status) Validate() error {
	if s < Open || s > Completed {
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

// StatusFromString parses a status name as stored in the database.
// Matching is exact against the canonical names.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a known status", s))
}

// Claim transitions the status to Claimed.
//
// Valid only from Open. Any other state fails with ErrAlreadyResolved,
// which is the expected outcome for every racer that lost the claim.
func (s Status) Claim() (Status, error) {
	if s != Open {
		return 0, ErrAlreadyResolved
	}
	return Claimed, nil
}

// Complete transitions the status to Completed.
//
// Valid from Open (terminating an unclaimed broadcast) and from Claimed
// (finishing or cancelling a delivery in progress). Completed is final.
func (s Status) Complete() (Status, error) {
	if s != Open && s != Claimed {
		return 0, ErrAlreadyResolved
	}
	return Completed, nil
}
