package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"uk.co.dudmesh.napbook/internal/model"
)

// httpError maps a service error onto the status code a client sees.
func httpError(err error) error {
	return echo.NewHTTPError(statusCode(err)).SetInternal(err)
}

func statusCode(err error) int {
	var storeErr *model.StoreError
	switch {
	case errors.Is(err, model.ErrorBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrorConflict):
		return http.StatusConflict
	case errors.Is(err, model.ErrorUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &storeErr):
		return storeErr.StatusCode
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(c echo.Context) error {
	return echo.NewHTTPError(http.StatusBadRequest, "malformed request path")
}
