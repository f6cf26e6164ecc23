// Package assignmentrepo provides data transfer objects and mapping functions for
// assignment persistence. This package implements the repository pattern for the
// assignment domain aggregate, including the conditional claim write that
// arbitrates racing couriers.
package assignmentrepo

import (
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AssignmentDTO represents the database structure for persisting assignments.
// Candidates are stored as a text array of courier IDs so the read side can
// match offers to couriers with a single ANY() predicate.
//
// The partial unique index on shop_order_id is the authoritative guard for
// the one-live-broadcast invariant: at most one row per shop order may sit
// in a non-completed status, and a second concurrent insert fails at the
// store instead of slipping past the application-level active check.
type AssignmentDTO struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID      `gorm:"type:uuid;index"`
	ShopID      uuid.UUID      `gorm:"type:uuid"`
	ShopOrderID uuid.UUID      `gorm:"type:uuid;uniqueIndex:uniq_assignments_live_shop_order,where:status <> 'Completed'"`
	Candidates  pq.StringArray `gorm:"type:text[]"`
	CourierID   *uuid.UUID     `gorm:"type:uuid;index"`
	Status      string         `gorm:"index"`
	CreatedAt   time.Time
	AcceptedAt  *time.Time
}

// TableName specifies the database table name for assignment entities.
// Overrides GORM's default naming convention to use "assignments".
func (AssignmentDTO) TableName() string {
	return "assignments"
}

// fromDomain converts an assignment domain aggregate to its database representation.
func fromDomain(aggregate *assignment.Assignment) AssignmentDTO {
	candidates := make(pq.StringArray, 0, len(aggregate.Candidates()))
	for _, candidate := range aggregate.Candidates() {
		candidates = append(candidates, candidate.String())
	}

	var courierID *uuid.UUID
	if id := aggregate.Courier(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	return AssignmentDTO{
		ID:          aggregate.ID().Bytes(),
		OrderID:     aggregate.OrderID().Bytes(),
		ShopID:      aggregate.ShopID().Bytes(),
		ShopOrderID: aggregate.ShopOrderID().Bytes(),
		Candidates:  candidates,
		CourierID:   courierID,
		Status:      aggregate.Status().String(),
		CreatedAt:   aggregate.CreatedAt(),
		AcceptedAt:  aggregate.AcceptedAt(),
	}
}

// toDomain converts a database DTO to an assignment domain aggregate using
// RestoreAssignment.
func toDomain(dto AssignmentDTO) (*assignment.Assignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	shopID, err := kernel.UUIDFromBytes(dto.ShopID[:])
	if err != nil {
		return nil, err
	}

	shopOrderID, err := kernel.UUIDFromBytes(dto.ShopOrderID[:])
	if err != nil {
		return nil, err
	}

	candidates := make([]kernel.UUID, 0, len(dto.Candidates))
	for _, candidate := range dto.Candidates {
		candidateID, candidateErr := kernel.UUIDFromString(candidate)
		if candidateErr != nil {
			return nil, candidateErr
		}
		candidates = append(candidates, candidateID)
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	status, err := assignment.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return assignment.RestoreAssignment(
		id,
		orderID,
		shopID,
		shopOrderID,
		candidates,
		courierID,
		status,
		dto.CreatedAt,
		dto.AcceptedAt,
	)
}
