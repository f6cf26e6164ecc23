package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/ports"
)

// UpdateCourierLocationCommandHandler records courier location reports.
//
// The courier store is the source of truth; the geospatial index is a
// lookup structure refreshed on every report. Offline couriers still get
// their position persisted but are not written to the index.
type UpdateCourierLocationCommandHandler struct {
	uowFactory CourierUoWFactory
	geoIndex   ports.CourierGeoIndex
	logger     *slog.Logger
}

// NewUpdateCourierLocationCommandHandler creates a handler for location reports.
func NewUpdateCourierLocationCommandHandler(
	uowFactory CourierUoWFactory,
	geoIndex ports.CourierGeoIndex,
	logger *slog.Logger,
) UpdateCourierLocationCommandHandler {
	return UpdateCourierLocationCommandHandler{
		uowFactory: uowFactory,
		geoIndex:   geoIndex,
		logger:     logger.With("component", "update_courier_location"),
	}
}

// Handle processes the location report.
// Persists the latest-known position, then refreshes the geo index. An
// index refresh failure is logged but does not fail the report: the next
// report heals the index.
func (h *UpdateCourierLocationCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateCourierLocationCommand,
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

	if err = courierEntity.ReportLocation(cmd.Location(), time.Now()); err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, courierEntity); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if courierEntity.IsOnline() {
		if err = h.geoIndex.UpsertCourier(ctx, cmd.CourierID(), cmd.Location()); err != nil {
			h.logger.WarnContext(ctx, "geo index refresh failed",
				"courierId", cmd.CourierID().String(),
				"error", err)
		}
	}

	return nil
}
