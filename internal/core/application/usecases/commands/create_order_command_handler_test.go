package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func checkoutDrafts(t *testing.T) []commands.ShopOrderDraft {
	t.Helper()
	return []commands.ShopOrderDraft{
		{
			ShopID:     kernel.NewUUID(),
			ShopName:   "Tandoori Nights",
			OperatorID: kernel.NewUUID(),
			Items: []commands.LineItemDraft{
				{
					MenuItemID: kernel.NewUUID(),
					Name:       "Paneer Tikka",
					Price:      decimal.RequireFromString("320.00"),
					Quantity:   2,
				},
			},
		},
		{
			ShopID:     kernel.NewUUID(),
			ShopName:   "Momo House",
			OperatorID: kernel.NewUUID(),
			Items: []commands.LineItemDraft{
				{
					MenuItemID: kernel.NewUUID(),
					Name:       "Veg Momos",
					Price:      decimal.RequireFromString("150.00"),
					Quantity:   1,
				},
			},
		},
	}
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	address, err := kernel.NewGeoPoint(28.60, 77.10)
	require.NoError(t, err)

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), order.PaymentCashOnDelivery,
		"14 Lodhi Road, New Delhi", address, checkoutDrafts(t))
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	var persisted *order.Order
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).
			Run(func(args mock.Arguments) {
				persisted = args.Get(1).(*order.Order)
			}).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.True(t, cmd.OrderID().IsEqual(persisted.ID()))
	require.Len(t, persisted.ShopOrders(), 2)
	for _, shopOrder := range persisted.ShopOrders() {
		assert.Equal(t, order.Pending, shopOrder.Status())
	}
	assert.True(t, decimal.RequireFromString("790.00").Equal(persisted.Total()))
	uow.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_EmptyCartRejected(t *testing.T) {
	address, err := kernel.NewGeoPoint(28.60, 77.10)
	require.NoError(t, err)

	_, err = commands.NewCreateOrderCommand(
		kernel.NewUUID(), order.PaymentCashOnDelivery,
		"14 Lodhi Road, New Delhi", address, nil)

	require.Error(t, err)
}

func TestCreateOrderCommandHandler_Handle_NotConstructedCommand(t *testing.T) {
	handler := commands.NewCreateOrderCommandHandler(new(MockUoWFactory))

	err := handler.Handle(t.Context(), commands.CreateOrderCommand{})

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
}
