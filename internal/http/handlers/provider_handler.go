// README: Provider business handlers and the customer-side nearby query.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fixme/internal/http/middleware"
	"fixme/internal/modules/provider"
	"fixme/internal/types"
)

type ProviderHandler struct {
	providers *provider.Service
}

func NewProviderHandler(svc *provider.Service) *ProviderHandler {
	return &ProviderHandler{providers: svc}
}

type businessReq struct {
	Name         string   `json:"name"`
	City         string   `json:"city"`
	Address      string   `json:"address"`
	Description  string   `json:"description"`
	Services     string   `json:"services"`
	OpeningHours string   `json:"opening_hours"`
	Categories   []string `json:"categories"`
	Offered      []string `json:"offered_services"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
}

type businessResp struct {
	UserID       string   `json:"user_id"`
	Name         string   `json:"name"`
	City         string   `json:"city"`
	Address      string   `json:"address"`
	Description  string   `json:"description,omitempty"`
	Services     string   `json:"services,omitempty"`
	OpeningHours string   `json:"opening_hours,omitempty"`
	Categories   []string `json:"categories"`
	Offered      []string `json:"offered_services"`
	Lat          *float64 `json:"lat,omitempty"`
	Lng          *float64 `json:"lng,omitempty"`
}

func toBusinessResp(b *provider.Business) businessResp {
	resp := businessResp{
		UserID:       string(b.UserID),
		Name:         b.Name,
		City:         b.City,
		Address:      b.Address,
		Description:  b.Description,
		Services:     b.Services,
		OpeningHours: b.OpeningHours,
		Categories:   make([]string, 0, len(b.Categories)),
		Offered:      make([]string, 0, len(b.Offered)),
	}
	for _, cat := range b.Categories {
		resp.Categories = append(resp.Categories, string(cat))
	}
	for _, svc := range b.Offered {
		resp.Offered = append(resp.Offered, string(svc))
	}
	if b.Location != nil {
		resp.Lat = &b.Location.Lat
		resp.Lng = &b.Location.Lng
	}
	return resp
}

func (h *ProviderHandler) UpsertBusiness(c *gin.Context) {
	var req businessReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	categories := make([]types.VehicleCategory, 0, len(req.Categories))
	for _, s := range req.Categories {
		cat, ok := types.ParseVehicleCategory(s)
		if !ok {
			writeError(c, http.StatusBadRequest, "unknown category "+s)
			return
		}
		categories = append(categories, cat)
	}
	offered := make([]types.ServiceType, 0, len(req.Offered))
	for _, s := range req.Offered {
		svc, ok := types.ParseServiceType(s)
		if !ok {
			writeError(c, http.StatusBadRequest, "unknown service type "+s)
			return
		}
		offered = append(offered, svc)
	}

	var location *types.Point
	if req.Lat != nil && req.Lng != nil {
		location = &types.Point{Lat: *req.Lat, Lng: *req.Lng}
	}

	b, err := h.providers.Upsert(c.Request.Context(), provider.UpsertCommand{
		UserID:       types.ID(middleware.CallerUID(c)),
		Name:         req.Name,
		City:         req.City,
		Address:      req.Address,
		Description:  req.Description,
		Services:     req.Services,
		OpeningHours: req.OpeningHours,
		Categories:   categories,
		Offered:      offered,
		Location:     location,
	})
	if err != nil {
		writeProviderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toBusinessResp(b))
}

func (h *ProviderHandler) GetBusiness(c *gin.Context) {
	b, err := h.providers.Get(c.Request.Context(), types.ID(middleware.CallerUID(c)))
	if err != nil {
		writeProviderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toBusinessResp(b))
}

type nearbyProviderResp struct {
	Business   businessResp `json:"business"`
	DistanceKm float64      `json:"distance_km"`
}

// Nearby is the customer-side matching query: approved businesses serving the
// category and offering the service type, closest first.
func (h *ProviderHandler) Nearby(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		writeError(c, http.StatusBadRequest, "invalid coordinates")
		return
	}

	category, ok := types.ParseVehicleCategory(c.Query("category"))
	if !ok {
		writeError(c, http.StatusBadRequest, "unknown category")
		return
	}
	serviceType, ok := types.ParseServiceType(c.Query("service_type"))
	if !ok {
		writeError(c, http.StatusBadRequest, "unknown service type")
		return
	}

	radiusKm := 0.0
	if v := c.Query("radius_km"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid radius")
			return
		}
		radiusKm = r
	}

	matches, err := h.providers.Nearby(c.Request.Context(), provider.NearbyQuery{
		Origin:      types.Point{Lat: lat, Lng: lng},
		RadiusKm:    radiusKm,
		Category:    category,
		ServiceType: serviceType,
	})
	if err != nil {
		writeProviderError(c, err)
		return
	}

	out := make([]nearbyProviderResp, 0, len(matches))
	for i := range matches {
		out = append(out, nearbyProviderResp{
			Business:   toBusinessResp(&matches[i].Business),
			DistanceKm: matches[i].DistanceKm,
		})
	}
	writeJSON(c, http.StatusOK, out)
}
