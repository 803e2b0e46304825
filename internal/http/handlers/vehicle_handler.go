// README: Customer vehicle handlers (add/list/update/delete).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fixme/internal/http/middleware"
	"fixme/internal/modules/vehicle"
	"fixme/internal/types"
)

type VehicleHandler struct {
	vehicles *vehicle.Service
}

func NewVehicleHandler(svc *vehicle.Service) *VehicleHandler {
	return &VehicleHandler{vehicles: svc}
}

type vehicleReq struct {
	PlateNumber string `json:"plate_number"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	Year        *int   `json:"year"`
	Category    string `json:"category"`
}

type vehicleResp struct {
	ID          string `json:"id"`
	PlateNumber string `json:"plate_number"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	Year        *int   `json:"year,omitempty"`
	Category    string `json:"category"`
}

func toVehicleResp(v *vehicle.Vehicle) vehicleResp {
	return vehicleResp{
		ID:          string(v.ID),
		PlateNumber: v.PlateNumber,
		Make:        v.Make,
		Model:       v.Model,
		Year:        v.Year,
		Category:    string(v.Category),
	}
}

func (h *VehicleHandler) Add(c *gin.Context) {
	var req vehicleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	category, ok := parseOptionalCategory(req.Category)
	if !ok {
		writeError(c, http.StatusBadRequest, "unknown category")
		return
	}

	v, err := h.vehicles.Add(c.Request.Context(), vehicle.AddCommand{
		OwnerID:     types.ID(middleware.CallerUID(c)),
		PlateNumber: req.PlateNumber,
		Make:        req.Make,
		Model:       req.Model,
		Year:        req.Year,
		Category:    category,
	})
	if err != nil {
		writeVehicleError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toVehicleResp(v))
}

func (h *VehicleHandler) List(c *gin.Context) {
	list, err := h.vehicles.List(c.Request.Context(), types.ID(middleware.CallerUID(c)))
	if err != nil {
		writeVehicleError(c, err)
		return
	}
	out := make([]vehicleResp, 0, len(list))
	for i := range list {
		out = append(out, toVehicleResp(&list[i]))
	}
	writeJSON(c, http.StatusOK, out)
}

func (h *VehicleHandler) Update(c *gin.Context) {
	var req vehicleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	category, ok := parseOptionalCategory(req.Category)
	if !ok {
		writeError(c, http.StatusBadRequest, "unknown category")
		return
	}

	v, err := h.vehicles.Update(c.Request.Context(), vehicle.UpdateCommand{
		OwnerID:     types.ID(middleware.CallerUID(c)),
		VehicleID:   types.ID(c.Param("id")),
		PlateNumber: req.PlateNumber,
		Make:        req.Make,
		Model:       req.Model,
		Year:        req.Year,
		Category:    category,
	})
	if err != nil {
		writeVehicleError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toVehicleResp(v))
}

func (h *VehicleHandler) Delete(c *gin.Context) {
	err := h.vehicles.Delete(c.Request.Context(), types.ID(middleware.CallerUID(c)), types.ID(c.Param("id")))
	if err != nil {
		writeVehicleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseOptionalCategory treats an empty value as "not provided"; the service
// applies the ALL default.
func parseOptionalCategory(s string) (types.VehicleCategory, bool) {
	if s == "" {
		return "", true
	}
	return types.ParseVehicleCategory(s)
}
