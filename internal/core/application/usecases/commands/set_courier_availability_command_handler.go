package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/ports"
)

// SetCourierAvailabilityCommandHandler handles online/offline switches.
//
// Going online publishes the courier's last known position to the geo index
// when one exists; going offline removes the courier from the index so
// dispatch stops seeing them immediately.
type SetCourierAvailabilityCommandHandler struct {
	uowFactory CourierUoWFactory
	geoIndex   ports.CourierGeoIndex
	logger     *slog.Logger
}

// NewSetCourierAvailabilityCommandHandler creates a handler for availability switches.
func NewSetCourierAvailabilityCommandHandler(
	uowFactory CourierUoWFactory,
	geoIndex ports.CourierGeoIndex,
	logger *slog.Logger,
) SetCourierAvailabilityCommandHandler {
	return SetCourierAvailabilityCommandHandler{
		uowFactory: uowFactory,
		geoIndex:   geoIndex,
		logger:     logger.With("component", "set_courier_availability"),
	}
}

// Handle processes the availability switch.
func (h *SetCourierAvailabilityCommandHandler) Handle(
	ctx context.Context,
	cmd SetCourierAvailabilityCommand,
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

	courierRepo := uow.CourierRepository()
	courierEntity, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	if err = courierEntity.SetOnline(cmd.Online()); err != nil {
		return err
	}
	if err = courierEntity.SetChannel(cmd.ChannelID()); err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, courierEntity); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.syncGeoIndex(ctx, cmd, courierEntity)
	return nil
}

// syncGeoIndex mirrors the availability change into the index. Best effort;
// the candidate filter re-checks the online flag against the store anyway.
func (h *SetCourierAvailabilityCommandHandler) syncGeoIndex(
	ctx context.Context,
	cmd SetCourierAvailabilityCommand,
	courierEntity *courier.Courier,
) {
	var err error
	switch {
	case !cmd.Online():
		err = h.geoIndex.RemoveCourier(ctx, cmd.CourierID())
	case courierEntity.Location() != nil:
		err = h.geoIndex.UpsertCourier(ctx, cmd.CourierID(), *courierEntity.Location())
	}

	if err != nil {
		h.logger.WarnContext(ctx, "geo index sync failed",
			"courierId", cmd.CourierID().String(),
			"online", cmd.Online(),
			"error", err)
	}
}
