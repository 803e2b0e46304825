// README: Service request handlers, customer side and provider side.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fixme/internal/http/middleware"
	"fixme/internal/modules/request"
	"fixme/internal/types"
)

type RequestHandler struct {
	requests *request.Service
}

func NewRequestHandler(svc *request.Service) *RequestHandler {
	return &RequestHandler{requests: svc}
}

type createRequestReq struct {
	VehicleID   string  `json:"vehicle_id"`
	ServiceType string  `json:"service_type"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

type requestResp struct {
	ID              string    `json:"id"`
	CustomerID      string    `json:"customer_id"`
	ProviderID      *string   `json:"provider_id,omitempty"`
	VehicleID       string    `json:"vehicle_id"`
	VehicleCategory string    `json:"vehicle_category"`
	ServiceType     string    `json:"service_type"`
	Lat             float64   `json:"lat"`
	Lng             float64   `json:"lng"`
	Address         string    `json:"address,omitempty"`
	Description     string    `json:"description,omitempty"`
	Status          string    `json:"status"`
	ProgressStage   string    `json:"progress_stage"`
	CreatedAt       time.Time `json:"created_at"`
}

func toRequestResp(r *request.ServiceRequest) requestResp {
	resp := requestResp{
		ID:              string(r.ID),
		CustomerID:      string(r.CustomerID),
		VehicleID:       string(r.VehicleID),
		VehicleCategory: string(r.VehicleCategory),
		ServiceType:     string(r.ServiceType),
		Lat:             r.Location.Lat,
		Lng:             r.Location.Lng,
		Address:         r.Address,
		Description:     r.Description,
		Status:          string(r.Status),
		ProgressStage:   string(r.ProgressStage),
		CreatedAt:       r.CreatedAt,
	}
	if r.ProviderID != nil {
		id := string(*r.ProviderID)
		resp.ProviderID = &id
	}
	return resp
}

func toRequestList(list []request.ServiceRequest) []requestResp {
	out := make([]requestResp, 0, len(list))
	for i := range list {
		out = append(out, toRequestResp(&list[i]))
	}
	return out
}

// --- customer side ---

func (h *RequestHandler) Create(c *gin.Context) {
	var req createRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	serviceType, ok := types.ParseServiceType(req.ServiceType)
	if !ok {
		writeError(c, http.StatusBadRequest, "unknown service type")
		return
	}

	r, err := h.requests.Create(c.Request.Context(), request.CreateCommand{
		CustomerID:  types.ID(middleware.CallerUID(c)),
		VehicleID:   types.ID(req.VehicleID),
		Description: req.Description,
		Location:    types.Point{Lat: req.Lat, Lng: req.Lng},
		ServiceType: serviceType,
	})
	if err != nil {
		writeRequestError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toRequestResp(r))
}

func (h *RequestHandler) ListMine(c *gin.Context) {
	list, err := h.requests.ListByCustomer(c.Request.Context(), types.ID(middleware.CallerUID(c)))
	if err != nil {
		writeRequestError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toRequestList(list))
}

type assignReq struct {
	ProviderID string `json:"provider_id"`
}

func (h *RequestHandler) Assign(c *gin.Context) {
	var req assignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProviderID == "" {
		writeError(c, http.StatusBadRequest, "missing provider_id")
		return
	}

	r, err := h.requests.Assign(c.Request.Context(), request.AssignCommand{
		CustomerID: types.ID(middleware.CallerUID(c)),
		RequestID:  types.ID(c.Param("id")),
		ProviderID: types.ID(req.ProviderID),
	})
	if err != nil {
		writeRequestError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toRequestResp(r))
}

func (h *RequestHandler) Confirm(c *gin.Context) {
	r, err := h.requests.Confirm(c.Request.Context(), request.ConfirmCommand{
		CustomerID: types.ID(middleware.CallerUID(c)),
		RequestID:  types.ID(c.Param("id")),
	})
	if err != nil {
		writeRequestError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toRequestResp(r))
}

func (h *RequestHandler) Cancel(c *gin.Context) {
	err := h.requests.Cancel(c.Request.Context(), request.CancelCommand{
		ActorID:   types.ID(middleware.CallerUID(c)),
		RequestID: types.ID(c.Param("id")),
	})
	if err != nil {
		writeRequestError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- provider side ---

type nearbyRequestResp struct {
	Request    requestResp `json:"request"`
	DistanceKm float64     `json:"distance_km"`
}

func (h *RequestHandler) NearbyPending(c *gin.Context) {
	radiusKm := 0.0
	if v := c.Query("radius_km"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid radius")
			return
		}
		radiusKm = r
	}

	list, err := h.requests.NearbyPending(c.Request.Context(), types.ID(middleware.CallerUID(c)), radiusKm)
	if err != nil {
		writeRequestError(c, err)
		return
	}

	out := make([]nearbyRequestResp, 0, len(list))
	for i := range list {
		out = append(out, nearbyRequestResp{
			Request:    toRequestResp(&list[i].Request),
			DistanceKm: list[i].DistanceKm,
		})
	}
	writeJSON(c, http.StatusOK, out)
}

func (h *RequestHandler) Inbox(c *gin.Context) {
	var status *request.Status
	if v := c.Query("status"); v != "" {
		st, ok := request.ParseStatus(v)
		if !ok {
			writeError(c, http.StatusBadRequest, "unknown status")
			return
		}
		status = &st
	}

	list, err := h.requests.Inbox(c.Request.Context(), types.ID(middleware.CallerUID(c)), status)
	if err != nil {
		writeRequestError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toRequestList(list))
}

// Jobs lists the provider's confirmed, in-flight work.
func (h *RequestHandler) Jobs(c *gin.Context) {
	list, err := h.requests.ConfirmedJobs(c.Request.Context(), types.ID(middleware.CallerUID(c)))
	if err != nil {
		writeRequestError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toRequestList(list))
}

func (h *RequestHandler) Accept(c *gin.Context) {
	r, err := h.requests.Accept(c.Request.Context(), request.AcceptCommand{
		ProviderID: types.ID(middleware.CallerUID(c)),
		RequestID:  types.ID(c.Param("id")),
	})
	if err != nil {
		writeRequestError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toRequestResp(r))
}

type progressReq struct {
	Stage string `json:"stage"`
}

func (h *RequestHandler) Progress(c *gin.Context) {
	var req progressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	r, err := h.requests.UpdateProgress(c.Request.Context(), request.ProgressCommand{
		ProviderID: types.ID(middleware.CallerUID(c)),
		RequestID:  types.ID(c.Param("id")),
		Stage:      request.ProgressStage(req.Stage),
	})
	if err != nil {
		writeRequestError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toRequestResp(r))
}
