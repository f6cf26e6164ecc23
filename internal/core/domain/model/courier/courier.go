package courier

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
)

// Courier represents a delivery courier known to the dispatch engine.
//
// The courier aggregate tracks identity, the last reported geolocation with
// its report time, the notification channel the courier listens on, and an
// online flag. Whether a courier is busy is NOT stored here: busyness is
// derived from claimed assignments, so that crashes and cancellations can
// never leave a courier permanently stuck in a busy state.
//
// Business rules:
//   - Courier must have a valid UUID and a non-empty name
//   - A location report always carries the time it was taken; candidate
//     search treats reports older than the staleness window as unusable
//   - Offline couriers are never matched regardless of location freshness
type Courier struct {
	// id uniquely identifies the courier
	id kernel.UUID
	// name is the human-readable name of the courier
	name string
	// phone is the courier's contact number, optional
	phone string
	// location is the last reported position, nil until the first report
	location *kernel.GeoPoint
	// locationAt is when the last location report was taken
	locationAt *time.Time
	// channelID addresses broadcast notifications to this courier
	channelID string
	// online reports whether the courier is accepting work
	online bool
	// guard ensures the courier was properly constructed
	guard guard.ConstructorGuard
}

// NewCourier creates a new Courier with the specified parameters.
// This is the only way to create a fresh Courier instance.
//
// A new courier starts offline with no reported location. It becomes
// eligible for dispatch only after going online and reporting a position.
func NewCourier(id kernel.UUID, name string, phone string) (*Courier, error) {
	courier := &Courier{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setName(name),
	); err != nil {
		return nil, err
	}

	courier.phone = phone
	return courier, nil
}

// RestoreCourier reconstructs a Courier aggregate from persistent storage.
// Unlike NewCourier, this constructor restores the full operational state
// including the last reported location and the online flag.
func RestoreCourier(
	id kernel.UUID,
	name string,
	phone string,
	location *kernel.GeoPoint,
	locationAt *time.Time,
	channelID string,
	online bool,
) (*Courier, error) {
	courier := &Courier{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setName(name),
	); err != nil {
		return nil, err
	}

	if location != nil {
		if err := location.Validate(); err != nil {
			return nil, err
		}
	}

	courier.phone = phone
	courier.location = location
	courier.locationAt = locationAt
	courier.channelID = channelID
	courier.online = online
	return courier, nil
}

// IsEqual compares two couriers for equality based on their unique identifiers.
func (c *Courier) IsEqual(other *Courier) bool {
	if other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

// Validate checks if the Courier was properly constructed via a factory method.
// The zero value of Courier is invalid and will fail this validation.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// ID returns the unique identifier of the courier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// Name returns the human-readable name of the courier.
func (c *Courier) Name() string {
	return c.name
}

// Phone returns the courier's contact number. May be empty.
func (c *Courier) Phone() string {
	return c.phone
}

// Location returns the last reported position, or nil if the courier has
// never reported one.
func (c *Courier) Location() *kernel.GeoPoint {
	return c.location
}

// LocationAt returns when the last location report was taken, or nil.
func (c *Courier) LocationAt() *time.Time {
	return c.locationAt
}

// ChannelID returns the notification channel the courier listens on.
func (c *Courier) ChannelID() string {
	return c.channelID
}

// IsOnline reports whether the courier is accepting work.
func (c *Courier) IsOnline() bool {
	return c.online
}

// ReportLocation records a fresh location report.
//
// The report time is supplied by the caller so that the domain stays clock
// free. Reports are accepted even while offline; the online flag, not the
// location, decides dispatch eligibility.
func (c *Courier) ReportLocation(location kernel.GeoPoint, at time.Time) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = &location
	c.locationAt = &at
	return nil
}

// HasFreshLocation reports whether the last location report is usable for
// candidate search: taken no longer than maxAge before now.
func (c *Courier) HasFreshLocation(now time.Time, maxAge time.Duration) bool {
	if c.location == nil || c.locationAt == nil {
		return false
	}
	return now.Sub(*c.locationAt) <= maxAge
}

// SetOnline flips the courier's availability for dispatch.
func (c *Courier) SetOnline(online bool) error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.online = online
	return nil
}

// SetChannel records the notification channel the courier listens on.
func (c *Courier) SetChannel(channelID string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.channelID = channelID
	return nil
}

// setID sets the courier's unique identifier with validation.
// This is an internal setter used during courier construction.
func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.id = id
	return nil
}

// setName sets the courier's name with validation.
// This is an internal setter used during courier construction.
func (c *Courier) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}

	c.name = name
	return nil
}
