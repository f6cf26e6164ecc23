package http

import (
	"errors"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// apiError is the uniform error body of the REST API.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// respondError maps application errors onto HTTP statuses. Racing claims and
// repeated completions come back as 409 so courier apps can tell "too late"
// apart from "bad request".
func respondError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, assignment.ErrAlreadyResolved),
		errors.Is(err, commands.ErrCourierBusy),
		errors.Is(err, order.ErrAlreadyDelivered),
		errors.Is(err, order.ErrCustomerCancelNotAllowed):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrVersionConflict):
		status = http.StatusConflict
	case errors.Is(err, order.ErrInvalidOrExpiredCode):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status = http.StatusBadRequest
	}

	return ctx.JSON(status, apiError{
		Code:    status,
		Message: err.Error(),
	})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, apiError{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
