package orderrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// shopOrderMutableColumns are the shop order fields that change after
// checkout. Selected explicitly so zero values (cleared courier, empty
// cancel reason) are written too.
var shopOrderMutableColumns = []string{
	"status",
	"assignment_id",
	"courier_id",
	"delivery_code",
	"code_expires_at",
	"delivered_at",
	"cancel_reason",
}

// GormOrderRepository implements OrderRepository using GORM.
//
// Shop order writes are optimistically locked: the repository remembers the
// version each shop order carried when it was loaded or added through this
// instance, and Update predicates on that version. A stale write fails with
// errs.ErrVersionConflict instead of reverting a concurrent writer's columns.
// Not safe for concurrent use; each unit of work gets its own instance.
type GormOrderRepository struct {
	db       *gorm.DB
	tracker  aggregateTracker
	versions map[uuid.UUID]int
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:       db,
		tracker:  tracker,
		versions: make(map[uuid.UUID]int),
	}
}

// Add saves a new order with all its shop orders and line items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	for i := range dto.ShopOrders {
		dto.ShopOrders[i].Version = 1
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	for _, shopOrderDTO := range dto.ShopOrders {
		r.versions[shopOrderDTO.ID] = shopOrderDTO.Version
	}
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database. Line items are frozen at
// checkout and are never rewritten; only the mutable order and shop order
// columns are touched.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("paid", "rating").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	for _, shopOrderDTO := range dto.ShopOrders {
		if err := r.updateShopOrder(ctx, shopOrderDTO); err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// updateShopOrder writes the mutable shop order columns guarded by the
// version the row carried when this repository loaded it. Affecting zero
// rows with a version predicate means a concurrent writer got there first.
func (r *GormOrderRepository) updateShopOrder(ctx context.Context, dto ShopOrderDTO) error {
	expected, tracked := r.versions[dto.ID]
	if !tracked {
		result := r.db.WithContext(ctx).
			Model(&ShopOrderDTO{}).
			Where("id = ?", dto.ID).
			Select(shopOrderMutableColumns).
			Updates(&dto)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}

	dto.Version = expected + 1
	columns := make([]string, 0, len(shopOrderMutableColumns)+1)
	columns = append(columns, shopOrderMutableColumns...)
	columns = append(columns, "version")

	result := r.db.WithContext(ctx).
		Model(&ShopOrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, expected).
		Select(columns).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&ShopOrderDTO{}).
			Where("id = ?", dto.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errs.ErrVersionConflict
		}
		return gorm.ErrRecordNotFound
	}

	r.versions[dto.ID] = dto.Version
	return nil
}

// Get retrieves an order by ID with all its shop orders and line items.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("ShopOrders.Items").
		Preload("ShopOrders").
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	for _, shopOrderDTO := range dto.ShopOrders {
		r.versions[shopOrderDTO.ID] = shopOrderDTO.Version
	}

	return toDomain(dto)
}

// GetByShopOrder retrieves the order aggregate owning the given shop order.
func (r *GormOrderRepository) GetByShopOrder(
	ctx context.Context,
	shopOrderID kernel.UUID,
) (*order.Order, error) {
	if err := shopOrderID.Validate(); err != nil {
		return nil, err
	}

	var shopOrderDTO ShopOrderDTO
	err := r.db.WithContext(ctx).
		Select("order_id").
		First(&shopOrderDTO, "id = ?", shopOrderID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("shop order", shopOrderID.String())
		}
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(shopOrderDTO.OrderID[:])
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, orderID)
}
