package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// CreateOrderCommandHandler handles the business logic for checkout.
// Builds the order aggregate with frozen price snapshots and persists it.
// Every shop order starts in Pending; dispatch begins only once the
// restaurant operator advances the status.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
}

// NewCreateOrderCommandHandler creates a handler for checkout operations.
func NewCreateOrderCommandHandler(uowFactory UoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the checkout command.
// Creates the order aggregate and persists it within a transaction.
// Automatically rolls back on any error to prevent partial data.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, err := h.buildOrder(cmd)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

// buildOrder turns the checkout drafts into the order aggregate.
func (h *CreateOrderCommandHandler) buildOrder(cmd CreateOrderCommand) (*order.Order, error) {
	shopOrders := make([]*order.ShopOrder, 0, len(cmd.ShopOrders()))
	for _, draft := range cmd.ShopOrders() {
		items := make([]order.LineItem, 0, len(draft.Items))
		for _, itemDraft := range draft.Items {
			item, err := order.NewLineItem(
				itemDraft.MenuItemID, itemDraft.Name, itemDraft.Price, itemDraft.Quantity)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}

		shopOrder, err := order.NewShopOrder(
			kernel.NewUUID(), draft.ShopID, draft.ShopName, draft.OperatorID, items)
		if err != nil {
			return nil, err
		}
		shopOrders = append(shopOrders, shopOrder)
	}

	return order.NewOrder(
		cmd.OrderID(),
		cmd.CustomerID(),
		cmd.PaymentMethod(),
		cmd.AddressText(),
		cmd.DeliveryAddress(),
		time.Now(),
		shopOrders,
	)
}
