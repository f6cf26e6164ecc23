// Package guard provides a defensive construction check for domain objects.
// Embedding a ConstructorGuard in a struct makes zero-value instances
// detectable, so entities and value objects can enforce creation through
// their designated constructor functions.
package guard

import "errors"

// ErrDefaultConstructorGuard is the fallback error returned by Validate
// when no specific validation error is provided.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as properly constructed.
// A zero-value guard fails validation, which lets domain objects reject
// instances that bypassed their constructors.
//
// Example:
//
//	type Courier struct {
//	    id    kernel.UUID
//	    guard guard.ConstructorGuard
//	}
//
//	func NewCourier(id kernel.UUID) Courier {
//	    return Courier{id: id, guard: guard.NewConstructorGuard()}
//	}
//
//	func (c Courier) Validate() error {
//	    return c.guard.Validate(ErrCourierIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking the owning object as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil if the owning object was created through its
// constructor, otherwise the provided validation error
// (or ErrDefaultConstructorGuard when validationError is nil).
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
