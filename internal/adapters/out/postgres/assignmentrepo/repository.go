package assignmentrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// GormAssignmentRepository implements AssignmentRepository using GORM.
type GormAssignmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormAssignmentRepository creates a new GORM assignment repository.
func NewGormAssignmentRepository(db *gorm.DB, tracker aggregateTracker) *GormAssignmentRepository {
	return &GormAssignmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new assignment to the database. The partial unique index on
// shop_order_id rejects a second live broadcast for the same shop order;
// that rejection surfaces as assignment.ErrAlreadyResolved so callers can
// treat the lost race as a no-op.
func (r *GormAssignmentRepository) Add(ctx context.Context, aggregate *assignment.Assignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isDuplicateKey(err) {
			return assignment.ErrAlreadyResolved
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// isDuplicateKey recognizes a unique constraint violation from the postgres
// driver (SQLSTATE 23505) or gorm's translated form.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Get retrieves an assignment by ID.
func (r *GormAssignmentRepository) Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("assignment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ClaimOpen atomically flips an open assignment to claimed for the given
// courier. The status predicate makes the UPDATE the arbiter between racing
// claims: exactly one racer matches the row, everyone else affects zero
// rows and gets claimed=false.
func (r *GormAssignmentRepository) ClaimOpen(
	ctx context.Context,
	id kernel.UUID,
	courierID kernel.UUID,
	acceptedAt time.Time,
) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&AssignmentDTO{}).
		Where("id = ? AND status = ?", id.Bytes(), assignment.Open.String()).
		Updates(map[string]any{
			"status":      assignment.Claimed.String(),
			"courier_id":  courierID.Bytes(),
			"accepted_at": acceptedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// Terminate moves an assignment to completed unless it already is.
// Reports whether this call performed the transition.
func (r *GormAssignmentRepository) Terminate(ctx context.Context, id kernel.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&AssignmentDTO{}).
		Where("id = ? AND status <> ?", id.Bytes(), assignment.Completed.String()).
		Update("status", assignment.Completed.String())
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// GetOpenForCandidate retrieves the open assignments addressed to the courier.
func (r *GormAssignmentRepository) GetOpenForCandidate(
	ctx context.Context,
	courierID kernel.UUID,
) ([]*assignment.Assignment, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dtos []AssignmentDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "status = ? AND ? = ANY(candidates)",
			assignment.Open.String(), courierID.String()).Error
	if err != nil {
		return nil, err
	}

	assignments := make([]*assignment.Assignment, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, toDomainErr := toDomain(dto)
		if toDomainErr != nil {
			return nil, toDomainErr
		}
		assignments = append(assignments, aggregate)
	}

	return assignments, nil
}

// GetClaimedByCourier retrieves the assignment the courier is carrying.
func (r *GormAssignmentRepository) GetClaimedByCourier(
	ctx context.Context,
	courierID kernel.UUID,
) (*assignment.Assignment, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	err := r.db.WithContext(ctx).
		First(&dto, "status = ? AND courier_id = ?",
			assignment.Claimed.String(), courierID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("claimed assignment", courierID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetClaimedCourierIDs reports which of the given couriers currently hold a
// claimed assignment.
func (r *GormAssignmentRepository) GetClaimedCourierIDs(
	ctx context.Context,
	ids []kernel.UUID,
) (map[kernel.UUID]struct{}, error) {
	claimed := make(map[kernel.UUID]struct{}, len(ids))
	if len(ids) == 0 {
		return claimed, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	var courierIDs []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&AssignmentDTO{}).
		Where("status = ? AND courier_id IN ?", assignment.Claimed.String(), raw).
		Pluck("courier_id", &courierIDs).Error
	if err != nil {
		return nil, err
	}

	for _, courierID := range courierIDs {
		id, idErr := kernel.UUIDFromBytes(courierID[:])
		if idErr != nil {
			return nil, idErr
		}
		claimed[id] = struct{}{}
	}

	return claimed, nil
}

// HasActiveForShopOrder reports whether a live (open or claimed) assignment
// exists for the shop order.
func (r *GormAssignmentRepository) HasActiveForShopOrder(
	ctx context.Context,
	shopOrderID kernel.UUID,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&AssignmentDTO{}).
		Where("shop_order_id = ? AND status <> ?",
			shopOrderID.Bytes(), assignment.Completed.String()).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
