package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"quitanda/internal/common"
)

// serviceError translates the service error taxonomy into HTTP statuses:
// NotFound 404, Conflict 409, InvalidArgument 400, anything else 500.
func serviceError(err error) *echo.HTTPError {
	switch {
	case common.IsNotFound(err):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case common.IsConflict(err):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case common.IsInvalidArgument(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
