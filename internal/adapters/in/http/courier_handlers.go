package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// CreateCourier handles POST /api/v1/couriers - registers a new courier.
// Couriers start offline; they appear in dispatch only after going online
// and reporting a location.
func (s *Server) CreateCourier(ctx echo.Context) error {
	var request createCourierRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewCreateCourierCommand(request.Name, request.Phone)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.createCourierHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, createCourierResponse{
		CourierID: cmd.CourierID().String(),
	})
}

// UpdateCourierLocation handles PUT /api/v1/couriers/:courierId/location -
// the periodic position report from the courier app.
func (s *Server) UpdateCourierLocation(ctx echo.Context) error {
	courierID, err := pathUUID(ctx, "courierId")
	if err != nil {
		return respondError(ctx, err)
	}

	var request updateLocationRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	location, err := kernel.NewGeoPoint(request.Latitude, request.Longitude)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewUpdateCourierLocationCommand(courierID, location)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.updateLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SetCourierAvailability handles PUT /api/v1/couriers/:courierId/availability -
// shift start and end.
func (s *Server) SetCourierAvailability(ctx echo.Context) error {
	courierID, err := pathUUID(ctx, "courierId")
	if err != nil {
		return respondError(ctx, err)
	}

	var request setAvailabilityRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewSetCourierAvailabilityCommand(courierID, request.Online, request.ChannelID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.setAvailabilityHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetOpenBroadcasts handles GET /api/v1/couriers/:courierId/offers - the
// open assignment offers this courier may claim.
func (s *Server) GetOpenBroadcasts(ctx echo.Context) error {
	courierID, err := pathUUID(ctx, "courierId")
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetOpenBroadcastsQuery(courierID)
	if err != nil {
		return respondError(ctx, err)
	}

	broadcasts, err := s.getOpenBroadcastsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]broadcastResponse, len(broadcasts))
	for i, broadcast := range broadcasts {
		response[i] = broadcastResponse{
			AssignmentID: broadcast.AssignmentID.String(),
			ShopOrderID:  broadcast.ShopOrderID.String(),
			ShopName:     broadcast.ShopName,
			AddressText:  broadcast.AddressText,
			DeliveryLat:  broadcast.Destination.Latitude(),
			DeliveryLon:  broadcast.Destination.Longitude(),
			CreatedAt:    broadcast.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetCourierActiveJob handles GET /api/v1/couriers/:courierId/active-job.
// Returns 204 when the courier holds no claimed assignment.
func (s *Server) GetCourierActiveJob(ctx echo.Context) error {
	courierID, err := pathUUID(ctx, "courierId")
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetCourierActiveJobQuery(courierID)
	if err != nil {
		return respondError(ctx, err)
	}

	job, err := s.getCourierActiveJobHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	if job == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	return ctx.JSON(http.StatusOK, activeJobResponse{
		AssignmentID: job.AssignmentID.String(),
		ShopOrderID:  job.ShopOrderID.String(),
		ShopName:     job.ShopName,
		Status:       job.Status,
		AddressText:  job.AddressText,
		DeliveryLat:  job.Destination.Latitude(),
		DeliveryLon:  job.Destination.Longitude(),
		AcceptedAt:   job.AcceptedAt,
	})
}
