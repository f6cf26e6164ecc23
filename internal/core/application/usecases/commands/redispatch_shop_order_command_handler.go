package commands

import (
	"context"
	"errors"
	"log/slog"
)

// RedispatchShopOrderCommandHandler retries dispatch for shop orders left
// without a courier. The widened escalation radius is used on every retry:
// a shop order only reaches this handler after the standard radius came up
// empty.
type RedispatchShopOrderCommandHandler struct {
	uowFactory UoWFactory
	dispatcher Dispatcher
	settings   DispatchSettings
	logger     *slog.Logger
}

// NewRedispatchShopOrderCommandHandler creates a handler for dispatch retries.
func NewRedispatchShopOrderCommandHandler(
	uowFactory UoWFactory,
	dispatcher Dispatcher,
	settings DispatchSettings,
	logger *slog.Logger,
) RedispatchShopOrderCommandHandler {
	return RedispatchShopOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		settings:   settings,
		logger:     logger.With("component", "redispatch_shop_order"),
	}
}

// Handle processes the dispatch retry.
// A shop order that no longer needs dispatch (courier attached, terminal
// state, or live broadcast) is a no-op. Zero candidates is not an error;
// the next retry tick will try again.
func (h *RedispatchShopOrderCommandHandler) Handle(
	ctx context.Context,
	cmd RedispatchShopOrderCommand,
) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	shopOrder, err := aggregate.ShopOrder(cmd.ShopOrderID())
	if err != nil {
		return err
	}

	if !shopOrder.NeedsDispatch() {
		return nil
	}

	err = h.dispatcher.Dispatch(ctx, uow, aggregate, shopOrder, h.settings.EscalationRadiusKm)
	if err != nil {
		if errors.Is(err, ErrNoCandidatesAvailable) {
			h.logger.InfoContext(ctx, "dispatch retry found no candidates",
				"shopOrderId", cmd.ShopOrderID().String())
			return nil
		}
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
