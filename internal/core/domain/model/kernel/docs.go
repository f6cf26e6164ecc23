// Package kernel contains shared value objects used across the domain model.
//
// The kernel provides:
//   - UUID: validated entity identifiers wrapping github.com/google/uuid
//   - GeoPoint: immutable geographic coordinates with distance calculation
//
// All kernel types are immutable value objects created through constructor
// functions. Zero values are invalid and fail Validate, which protects
// aggregates that embed them from being built in an inconsistent state.
package kernel
