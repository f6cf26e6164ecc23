package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrClaimAssignmentCommandIsNotConstructed = errors.New(
		"ClaimAssignmentCommand must be created via NewClaimAssignmentCommand constructor",
	)

	// ErrCourierBusy is returned when the claiming courier already holds a
	// claimed assignment. One claimed assignment per courier at a time.
	ErrCourierBusy = errors.New("courier already holds a claimed assignment")
)

// ClaimAssignmentCommand represents a courier racing to claim an open
// broadcast. First valid accept wins; everyone else gets AlreadyResolved.
//
// Example:
//
//	cmd, err := NewClaimAssignmentCommand(assignmentID, courierID)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, assignment.ErrAlreadyResolved):
//	    // lost the race, move on
//	case errors.Is(err, commands.ErrCourierBusy):
//	    // finish the current delivery first
//	}
type ClaimAssignmentCommand struct { //nolint:recvcheck //using for validation
	assignmentID kernel.UUID
	courierID    kernel.UUID

	guard guard.ConstructorGuard
}

// NewClaimAssignmentCommand creates a claim command.
func NewClaimAssignmentCommand(
	assignmentID kernel.UUID,
	courierID kernel.UUID,
) (ClaimAssignmentCommand, error) {
	command := ClaimAssignmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setAssignmentID(assignmentID),
		command.setCourierID(courierID),
	); err != nil {
		return ClaimAssignmentCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrClaimAssignmentCommandIsNotConstructed if validation fails.
func (c ClaimAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrClaimAssignmentCommandIsNotConstructed)
}

// AssignmentID returns the broadcast being claimed.
func (c ClaimAssignmentCommand) AssignmentID() kernel.UUID {
	return c.assignmentID
}

// CourierID returns the claiming courier.
func (c ClaimAssignmentCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c *ClaimAssignmentCommand) setAssignmentID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.assignmentID = id
	return nil
}

func (c *ClaimAssignmentCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.courierID = id
	return nil
}
