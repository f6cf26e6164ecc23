package commands_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByShopOrder(ctx context.Context, shopOrderID kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, shopOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetByIDs(ctx context.Context, ids []kernel.UUID) ([]*courier.Courier, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

type MockAssignmentRepository struct{ mock.Mock }

func (m *MockAssignmentRepository) Add(ctx context.Context, aggregate *assignment.Assignment) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) ClaimOpen(
	ctx context.Context,
	id kernel.UUID,
	courierID kernel.UUID,
	acceptedAt time.Time,
) (bool, error) {
	args := m.Called(ctx, id, courierID, acceptedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssignmentRepository) Terminate(ctx context.Context, id kernel.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssignmentRepository) GetOpenForCandidate(
	ctx context.Context,
	courierID kernel.UUID,
) ([]*assignment.Assignment, error) {
	args := m.Called(ctx, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*assignment.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) GetClaimedByCourier(
	ctx context.Context,
	courierID kernel.UUID,
) (*assignment.Assignment, error) {
	args := m.Called(ctx, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) GetClaimedCourierIDs(
	ctx context.Context,
	ids []kernel.UUID,
) (map[kernel.UUID]struct{}, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[kernel.UUID]struct{}), args.Error(1)
}

func (m *MockAssignmentRepository) HasActiveForShopOrder(
	ctx context.Context,
	shopOrderID kernel.UUID,
) (bool, error) {
	args := m.Called(ctx, shopOrderID)
	return args.Bool(0), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

func (m *MockUoW) AssignmentRepository() ports.AssignmentRepository {
	args := m.Called()
	return args.Get(0).(ports.AssignmentRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockCourierUoW struct{ mock.Mock }

func (m *MockCourierUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCourierUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCourierUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCourierUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

type MockCourierUoWFactory struct{ mock.Mock }

func (m *MockCourierUoWFactory) Create() commands.CourierUoW {
	args := m.Called()
	return args.Get(0).(commands.CourierUoW)
}

type MockGeoIndex struct{ mock.Mock }

func (m *MockGeoIndex) UpsertCourier(ctx context.Context, courierID kernel.UUID, location kernel.GeoPoint) error {
	args := m.Called(ctx, courierID, location)
	return args.Error(0)
}

func (m *MockGeoIndex) RemoveCourier(ctx context.Context, courierID kernel.UUID) error {
	args := m.Called(ctx, courierID)
	return args.Error(0)
}

func (m *MockGeoIndex) NearestCouriers(
	ctx context.Context,
	center kernel.GeoPoint,
	radiusKm float64,
	limit int,
) ([]kernel.UUID, error) {
	args := m.Called(ctx, center, radiusKm, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) PublishAssignmentOffer(
	ctx context.Context,
	notification ports.AssignmentOfferNotification,
) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockPublisher) PublishStatusChanged(
	ctx context.Context,
	notification ports.StatusChangedNotification,
) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockPublisher) PublishCancellation(
	ctx context.Context,
	notification ports.CancellationNotification,
) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockPublisher) PublishDeliveryCompleted(
	ctx context.Context,
	notification ports.DeliveryCompletedNotification,
) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockPublisher) SendDeliveryCode(
	ctx context.Context,
	notification ports.DeliveryCodeNotification,
) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

type MockDispatcher struct{ mock.Mock }

func (m *MockDispatcher) Dispatch(
	ctx context.Context,
	uow commands.UoW,
	aggregate *order.Order,
	shopOrder *order.ShopOrder,
	radiusKm float64,
) error {
	args := m.Called(ctx, uow, aggregate, shopOrder, radiusKm)
	return args.Error(0)
}

// Shared test fixtures.

func testShopOrder(t *testing.T) *order.ShopOrder {
	t.Helper()
	item, err := order.NewLineItem(
		kernel.NewUUID(), "Paneer Tikka", decimal.RequireFromString("320.00"), 1)
	require.NoError(t, err)

	shopOrder, err := order.NewShopOrder(
		kernel.NewUUID(), kernel.NewUUID(), "Tandoori Nights", kernel.NewUUID(),
		[]order.LineItem{item})
	require.NoError(t, err)
	return shopOrder
}

func testOrder(t *testing.T, shopOrders ...*order.ShopOrder) *order.Order {
	t.Helper()
	if len(shopOrders) == 0 {
		shopOrders = []*order.ShopOrder{testShopOrder(t)}
	}
	address, err := kernel.NewGeoPoint(28.60, 77.10)
	require.NoError(t, err)

	aggregate, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), order.PaymentCashOnDelivery,
		"14 Lodhi Road, New Delhi", address, time.Now(), shopOrders)
	require.NoError(t, err)
	return aggregate
}

func testOpenAssignment(t *testing.T, shopOrder *order.ShopOrder, candidates ...kernel.UUID) *assignment.Assignment {
	t.Helper()
	if len(candidates) == 0 {
		candidates = []kernel.UUID{kernel.NewUUID()}
	}

	broadcast, err := assignment.NewAssignment(
		kernel.NewUUID(), kernel.NewUUID(), shopOrder.ShopID(), shopOrder.ID(),
		candidates, time.Now())
	require.NoError(t, err)
	return broadcast
}
