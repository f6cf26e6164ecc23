package order_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, shopOrders ...*order.ShopOrder) *order.Order {
	t.Helper()
	if len(shopOrders) == 0 {
		shopOrders = []*order.ShopOrder{newTestShopOrder(t)}
	}
	address, err := kernel.NewGeoPoint(28.60, 77.10)
	require.NoError(t, err)

	aggregate, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		order.PaymentCashOnDelivery,
		"14 Lodhi Road, New Delhi",
		address,
		time.Now(),
		shopOrders,
	)
	require.NoError(t, err)
	return aggregate
}

func TestNewOrder(t *testing.T) {
	t.Run("computes_total_across_shop_orders", func(t *testing.T) {
		first := newTestShopOrder(t)
		second := newTestShopOrder(t)

		aggregate := newTestOrder(t, first, second)

		expected := first.Subtotal().Add(second.Subtotal())
		assert.True(t, expected.Equal(aggregate.Total()))
		assert.False(t, aggregate.IsPaid())
		assert.Nil(t, aggregate.Rating())
	})

	t.Run("requires_shop_orders", func(t *testing.T) {
		address, err := kernel.NewGeoPoint(28.60, 77.10)
		require.NoError(t, err)

		_, err = order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), order.PaymentCard,
			"14 Lodhi Road", address, time.Now(), nil)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects_unsupported_payment_method", func(t *testing.T) {
		address, err := kernel.NewGeoPoint(28.60, 77.10)
		require.NoError(t, err)

		_, err = order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), order.PaymentMethod("cheque"),
			"14 Lodhi Road", address, time.Now(),
			[]*order.ShopOrder{newTestShopOrder(t)})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrder_Validate(t *testing.T) {
	t.Run("zero_value_is_invalid", func(t *testing.T) {
		var aggregate order.Order

		require.ErrorIs(t, aggregate.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_ShopOrderLookup(t *testing.T) {
	t.Run("finds_by_shop_order_id", func(t *testing.T) {
		target := newTestShopOrder(t)
		aggregate := newTestOrder(t, newTestShopOrder(t), target)

		found, err := aggregate.ShopOrder(target.ID())

		require.NoError(t, err)
		assert.Same(t, target, found)
	})

	t.Run("finds_by_shop_id", func(t *testing.T) {
		target := newTestShopOrder(t)
		aggregate := newTestOrder(t, target)

		found, err := aggregate.ShopOrderForShop(target.ShopID())

		require.NoError(t, err)
		assert.Same(t, target, found)
	})

	t.Run("unknown_shop_order_id_fails", func(t *testing.T) {
		aggregate := newTestOrder(t)

		_, err := aggregate.ShopOrder(kernel.NewUUID())

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("unknown_shop_id_fails", func(t *testing.T) {
		aggregate := newTestOrder(t)

		_, err := aggregate.ShopOrderForShop(kernel.NewUUID())

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestOrder_Rate(t *testing.T) {
	deliverShopOrder := func(t *testing.T, shopOrder *order.ShopOrder) {
		t.Helper()
		advanceToOutForDelivery(t, shopOrder)
		issued := time.Now()
		require.NoError(t, shopOrder.IssueDeliveryCode("482913", issued.Add(5*time.Minute)))
		require.NoError(t, shopOrder.CompleteDelivery("482913", "", issued.Add(time.Minute)))
	}

	t.Run("rates_after_delivery", func(t *testing.T) {
		shopOrder := newTestShopOrder(t)
		aggregate := newTestOrder(t, shopOrder)
		deliverShopOrder(t, shopOrder)

		require.NoError(t, aggregate.Rate(4))

		require.NotNil(t, aggregate.Rating())
		assert.Equal(t, 4, *aggregate.Rating())
	})

	t.Run("rejects_rating_before_delivery", func(t *testing.T) {
		aggregate := newTestOrder(t)

		err := aggregate.Rate(5)

		require.ErrorIs(t, err, order.ErrRatingBeforeDelivery)
	})

	t.Run("rejects_out_of_range_rating", func(t *testing.T) {
		shopOrder := newTestShopOrder(t)
		aggregate := newTestOrder(t, shopOrder)
		deliverShopOrder(t, shopOrder)

		require.ErrorIs(t, aggregate.Rate(0), errs.ErrValueIsOutOfRange)
		require.ErrorIs(t, aggregate.Rate(6), errs.ErrValueIsOutOfRange)
	})
}

func TestLineItem(t *testing.T) {
	t.Run("total_multiplies_price_by_quantity", func(t *testing.T) {
		item := mustLineItem(t, "Garlic Naan", "45.50", 3)

		assert.True(t, decimal.RequireFromString("136.50").Equal(item.Total()))
	})

	t.Run("rejects_negative_price", func(t *testing.T) {
		_, err := order.NewLineItem(
			kernel.NewUUID(), "Samosa", decimal.RequireFromString("-1"), 1)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects_zero_quantity", func(t *testing.T) {
		_, err := order.NewLineItem(
			kernel.NewUUID(), "Samosa", decimal.RequireFromString("30"), 0)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects_empty_name", func(t *testing.T) {
		_, err := order.NewLineItem(
			kernel.NewUUID(), "", decimal.RequireFromString("30"), 1)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}
