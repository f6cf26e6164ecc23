package commands_test

import (
	"context"
	"sync"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// memStore is a mutex-serialized in-memory store backing the fake unit of
// work. Transactions take the store lock in Begin and release it on the
// first Commit or Rollback, so concurrent handlers interleave the same way
// serializable database transactions would. Used by the concurrent-claim
// and end-to-end scenario tests.
type memStore struct {
	mu          sync.Mutex
	orders      map[kernel.UUID]*order.Order
	couriers    map[kernel.UUID]*courier.Courier
	assignments map[kernel.UUID]*assignment.Assignment
}

func newMemStore() *memStore {
	return &memStore{
		orders:      make(map[kernel.UUID]*order.Order),
		couriers:    make(map[kernel.UUID]*courier.Courier),
		assignments: make(map[kernel.UUID]*assignment.Assignment),
	}
}

type memUoWFactory struct{ store *memStore }

func newMemUoWFactory(store *memStore) *memUoWFactory {
	return &memUoWFactory{store: store}
}

func (f *memUoWFactory) Create() commands.UoW {
	return &memUoW{store: f.store}
}

// CreateCourierUoW adapts the factory to courier-only handlers.
func (f *memUoWFactory) CreateCourierUoW() commands.CourierUoW {
	return &memUoW{store: f.store}
}

type courierUoWAdapter struct{ factory *memUoWFactory }

func (a courierUoWAdapter) Create() commands.CourierUoW {
	return a.factory.CreateCourierUoW()
}

type memUoW struct {
	store  *memStore
	active bool
}

func (u *memUoW) Begin(context.Context) error {
	u.store.mu.Lock()
	u.active = true
	return nil
}

func (u *memUoW) Commit(context.Context) error {
	if u.active {
		u.active = false
		u.store.mu.Unlock()
	}
	return nil
}

func (u *memUoW) Rollback(context.Context) error {
	if u.active {
		u.active = false
		u.store.mu.Unlock()
	}
	return nil
}

func (u *memUoW) OrderRepository() ports.OrderRepository {
	return &memOrderRepo{store: u.store}
}

func (u *memUoW) CourierRepository() ports.CourierRepository {
	return &memCourierRepo{store: u.store}
}

func (u *memUoW) AssignmentRepository() ports.AssignmentRepository {
	return &memAssignmentRepo{store: u.store}
}

type memOrderRepo struct{ store *memStore }

func (r *memOrderRepo) Add(_ context.Context, aggregate *order.Order) error {
	r.store.orders[aggregate.ID()] = aggregate
	return nil
}

func (r *memOrderRepo) Update(_ context.Context, aggregate *order.Order) error {
	r.store.orders[aggregate.ID()] = aggregate
	return nil
}

func (r *memOrderRepo) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	aggregate, ok := r.store.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderId", id.String())
	}
	return aggregate, nil
}

func (r *memOrderRepo) GetByShopOrder(_ context.Context, shopOrderID kernel.UUID) (*order.Order, error) {
	for _, aggregate := range r.store.orders {
		for _, shopOrder := range aggregate.ShopOrders() {
			if shopOrder.ID().IsEqual(shopOrderID) {
				return aggregate, nil
			}
		}
	}
	return nil, errs.NewObjectNotFoundError("shopOrderId", shopOrderID.String())
}

type memCourierRepo struct{ store *memStore }

func (r *memCourierRepo) Add(_ context.Context, aggregate *courier.Courier) error {
	r.store.couriers[aggregate.ID()] = aggregate
	return nil
}

func (r *memCourierRepo) Update(_ context.Context, aggregate *courier.Courier) error {
	r.store.couriers[aggregate.ID()] = aggregate
	return nil
}

func (r *memCourierRepo) Get(_ context.Context, id kernel.UUID) (*courier.Courier, error) {
	aggregate, ok := r.store.couriers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("courierId", id.String())
	}
	return aggregate, nil
}

func (r *memCourierRepo) GetByIDs(_ context.Context, ids []kernel.UUID) ([]*courier.Courier, error) {
	out := make([]*courier.Courier, 0, len(ids))
	for _, id := range ids {
		if aggregate, ok := r.store.couriers[id]; ok {
			out = append(out, aggregate)
		}
	}
	return out, nil
}

type memAssignmentRepo struct{ store *memStore }

func (r *memAssignmentRepo) Add(_ context.Context, aggregate *assignment.Assignment) error {
	// Mirrors the store-level guarantee: one live broadcast per shop order.
	for _, existing := range r.store.assignments {
		if existing.ShopOrderID().IsEqual(aggregate.ShopOrderID()) &&
			existing.Status() != assignment.Completed {
			return assignment.ErrAlreadyResolved
		}
	}
	r.store.assignments[aggregate.ID()] = aggregate
	return nil
}

func (r *memAssignmentRepo) Get(_ context.Context, id kernel.UUID) (*assignment.Assignment, error) {
	aggregate, ok := r.store.assignments[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("assignmentId", id.String())
	}
	return aggregate, nil
}

func (r *memAssignmentRepo) ClaimOpen(
	_ context.Context,
	id kernel.UUID,
	courierID kernel.UUID,
	acceptedAt time.Time,
) (bool, error) {
	aggregate, ok := r.store.assignments[id]
	if !ok || aggregate.Status() != assignment.Open {
		return false, nil
	}
	if err := aggregate.Claim(courierID, acceptedAt); err != nil {
		return false, nil
	}
	return true, nil
}

func (r *memAssignmentRepo) Terminate(_ context.Context, id kernel.UUID) (bool, error) {
	aggregate, ok := r.store.assignments[id]
	if !ok || aggregate.Status() == assignment.Completed {
		return false, nil
	}
	return true, aggregate.Complete()
}

func (r *memAssignmentRepo) GetOpenForCandidate(
	_ context.Context,
	courierID kernel.UUID,
) ([]*assignment.Assignment, error) {
	var out []*assignment.Assignment
	for _, aggregate := range r.store.assignments {
		if aggregate.Status() == assignment.Open && aggregate.IsAddressedTo(courierID) {
			out = append(out, aggregate)
		}
	}
	return out, nil
}

func (r *memAssignmentRepo) GetClaimedByCourier(
	_ context.Context,
	courierID kernel.UUID,
) (*assignment.Assignment, error) {
	for _, aggregate := range r.store.assignments {
		claimer := aggregate.Courier()
		if aggregate.Status() == assignment.Claimed && claimer != nil && claimer.IsEqual(courierID) {
			return aggregate, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("courierId", courierID.String())
}

func (r *memAssignmentRepo) GetClaimedCourierIDs(
	_ context.Context,
	ids []kernel.UUID,
) (map[kernel.UUID]struct{}, error) {
	claimed := make(map[kernel.UUID]struct{})
	for _, aggregate := range r.store.assignments {
		if aggregate.Status() != assignment.Claimed || aggregate.Courier() == nil {
			continue
		}
		for _, id := range ids {
			if aggregate.Courier().IsEqual(id) {
				claimed[id] = struct{}{}
			}
		}
	}
	return claimed, nil
}

func (r *memAssignmentRepo) HasActiveForShopOrder(
	_ context.Context,
	shopOrderID kernel.UUID,
) (bool, error) {
	for _, aggregate := range r.store.assignments {
		if aggregate.ShopOrderID().IsEqual(shopOrderID) &&
			aggregate.Status() != assignment.Completed {
			return true, nil
		}
	}
	return false, nil
}

// fakeGeoIndex is a deterministic stand-in for the Redis geo index: it
// returns a fixed nearest-first list regardless of the query.
type fakeGeoIndex struct {
	nearest []kernel.UUID
}

func (f *fakeGeoIndex) UpsertCourier(context.Context, kernel.UUID, kernel.GeoPoint) error {
	return nil
}

func (f *fakeGeoIndex) RemoveCourier(context.Context, kernel.UUID) error {
	return nil
}

func (f *fakeGeoIndex) NearestCouriers(
	context.Context, kernel.GeoPoint, float64, int,
) ([]kernel.UUID, error) {
	return f.nearest, nil
}

// nopPublisher swallows every notification.
type nopPublisher struct{}

func (nopPublisher) PublishAssignmentOffer(context.Context, ports.AssignmentOfferNotification) error {
	return nil
}

func (nopPublisher) PublishStatusChanged(context.Context, ports.StatusChangedNotification) error {
	return nil
}

func (nopPublisher) PublishCancellation(context.Context, ports.CancellationNotification) error {
	return nil
}

func (nopPublisher) PublishDeliveryCompleted(context.Context, ports.DeliveryCompletedNotification) error {
	return nil
}

func (nopPublisher) SendDeliveryCode(context.Context, ports.DeliveryCodeNotification) error {
	return nil
}
