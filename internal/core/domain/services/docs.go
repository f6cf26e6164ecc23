// Package services contains stateless domain services.
//
// Domain services hold business logic that spans aggregates and does not
// naturally belong to any single one. The candidate filter decides which
// couriers a dispatch broadcast may be addressed to; it is pure and works
// entirely on values handed in by the application layer.
package services
