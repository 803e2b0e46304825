// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fixme/internal/modules/identity"
	"fixme/internal/modules/provider"
	"fixme/internal/modules/request"
	"fixme/internal/modules/vehicle"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeRequestError(c *gin.Context, err error) {
	switch err {
	case request.ErrBadRequest, request.ErrNoLocation:
		writeError(c, http.StatusBadRequest, err.Error())
	case request.ErrNotFound, vehicle.ErrNotFound, provider.ErrNotFound, identity.ErrNotFound:
		writeError(c, http.StatusNotFound, err.Error())
	case identity.ErrForbidden:
		writeError(c, http.StatusForbidden, err.Error())
	case request.ErrInvalidState, request.ErrConflict:
		writeError(c, http.StatusConflict, err.Error())
	case request.ErrCancelUndefined:
		writeError(c, http.StatusNotImplemented, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeVehicleError(c *gin.Context, err error) {
	switch err {
	case vehicle.ErrBadRequest:
		writeError(c, http.StatusBadRequest, err.Error())
	case vehicle.ErrNotFound, identity.ErrNotFound:
		writeError(c, http.StatusNotFound, err.Error())
	case identity.ErrForbidden:
		writeError(c, http.StatusForbidden, err.Error())
	case vehicle.ErrActiveRequests:
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeProviderError(c *gin.Context, err error) {
	switch err {
	case provider.ErrBadRequest:
		writeError(c, http.StatusBadRequest, err.Error())
	case provider.ErrNotFound, identity.ErrNotFound:
		writeError(c, http.StatusNotFound, err.Error())
	case identity.ErrForbidden:
		writeError(c, http.StatusForbidden, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
