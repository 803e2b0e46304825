// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fixme/internal/ai"
	"fixme/internal/http/handlers"
	"fixme/internal/http/middleware"
	"fixme/internal/infra"
	"fixme/internal/modules/provider"
	"fixme/internal/modules/request"
	"fixme/internal/modules/vehicle"
)

type RouterDeps struct {
	Vehicles  *vehicle.Service
	Providers *provider.Service
	Requests  *request.Service
	Suggester ai.Suggester
	Verifier  infra.TokenVerifier
}

func NewRouter(deps RouterDeps) http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logging())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")
	api.Use(middleware.Auth(deps.Verifier))

	assistHandler := handlers.NewAssistHandler(deps.Suggester)
	api.POST("/assist/suggest", assistHandler.Suggest)

	vehicleHandler := handlers.NewVehicleHandler(deps.Vehicles)
	customer := api.Group("/customer")
	customer.POST("/vehicles", vehicleHandler.Add)
	customer.GET("/vehicles", vehicleHandler.List)
	customer.PUT("/vehicles/:id", vehicleHandler.Update)
	customer.DELETE("/vehicles/:id", vehicleHandler.Delete)

	providerHandler := handlers.NewProviderHandler(deps.Providers)
	customer.GET("/providers/nearby", providerHandler.Nearby)

	requestHandler := handlers.NewRequestHandler(deps.Requests)
	customer.POST("/requests", requestHandler.Create)
	customer.GET("/requests", requestHandler.ListMine)
	customer.POST("/requests/:id/assign", requestHandler.Assign)
	customer.POST("/requests/:id/confirm", requestHandler.Confirm)
	customer.POST("/requests/:id/cancel", requestHandler.Cancel)

	prov := api.Group("/provider")
	prov.PUT("/business", providerHandler.UpsertBusiness)
	prov.GET("/business", providerHandler.GetBusiness)
	prov.GET("/requests/nearby", requestHandler.NearbyPending)
	prov.GET("/requests", requestHandler.Inbox)
	prov.GET("/jobs", requestHandler.Jobs)
	prov.POST("/requests/:id/accept", requestHandler.Accept)
	prov.POST("/requests/:id/progress", requestHandler.Progress)

	return r
}
