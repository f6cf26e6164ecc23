package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrSetCourierAvailabilityCommandIsNotConstructed = errors.New(
	"SetCourierAvailabilityCommand must be created via NewSetCourierAvailabilityCommand constructor",
)

// SetCourierAvailabilityCommand flips a courier's online flag and records
// the notification channel the courier's client listens on.
type SetCourierAvailabilityCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	online    bool
	channelID string

	guard guard.ConstructorGuard
}

// NewSetCourierAvailabilityCommand creates an availability command.
// The channel ID may be empty when going offline.
func NewSetCourierAvailabilityCommand(
	courierID kernel.UUID,
	online bool,
	channelID string,
) (SetCourierAvailabilityCommand, error) {
	command := SetCourierAvailabilityCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setCourierID(courierID); err != nil {
		return SetCourierAvailabilityCommand{}, err
	}

	command.online = online
	command.channelID = channelID
	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSetCourierAvailabilityCommandIsNotConstructed if validation fails.
func (c SetCourierAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetCourierAvailabilityCommandIsNotConstructed)
}

// CourierID returns the courier flipping availability.
func (c SetCourierAvailabilityCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Online returns the requested availability.
func (c SetCourierAvailabilityCommand) Online() bool {
	return c.online
}

// ChannelID returns the notification channel identifier.
func (c SetCourierAvailabilityCommand) ChannelID() string {
	return c.channelID
}

func (c *SetCourierAvailabilityCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.courierID = id
	return nil
}
