// README: Entry point; loads config, wires module services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fixme/internal/ai"
	"fixme/internal/config"
	httptransport "fixme/internal/http"
	"fixme/internal/infra"
	"fixme/internal/maps"
	"fixme/internal/modules/identity"
	"fixme/internal/modules/provider"
	"fixme/internal/modules/request"
	"fixme/internal/modules/vehicle"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Firebase.ProjectID == "" {
		log.Fatal("FIXME_FIREBASE_PROJECT_ID is required")
	}
	verifier, err := infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		log.Fatalf("firebase init: %v", err)
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	identityStore := identity.NewStore(dbPool)

	vehicleStore := vehicle.NewStore(dbPool)

	providerStore := provider.NewStore(dbPool, redisClient)
	providerSvc := provider.NewService(providerStore, identityStore)

	var geocoder request.Geocoder
	if cfg.Maps.APIKey != "" {
		geocodeSvc, err := maps.NewGeocodeService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatalf("maps init: %v", err)
		}
		geocoder = geocodeSvc
	}

	requestStore := request.NewStore(dbPool)
	requestSvc := request.NewService(requestStore, identityStore, vehicleStore, providerSvc, geocoder)

	vehicleSvc := vehicle.NewService(vehicleStore, identityStore, requestStore)

	var suggester ai.Suggester
	if cfg.AI.GeminiKey != "" {
		gemini, err := ai.NewGeminiSuggester(ctx, cfg.AI.GeminiKey)
		if err != nil {
			log.Fatalf("gemini init: %v", err)
		}
		defer gemini.Close()
		suggester = gemini
	}

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Vehicles:  vehicleSvc,
		Providers: providerSvc,
		Requests:  requestSvc,
		Suggester: suggester,
		Verifier:  verifier,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
