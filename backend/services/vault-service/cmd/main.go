package main

import (
	"net/http"

	"github.com/campusforma/mono-repo/backend/services/vault-service/internal/app"
	"github.com/campusforma/mono-repo/backend/services/vault-service/internal/config"
	"github.com/campusforma/mono-repo/backend/services/vault-service/internal/controllers"
	"github.com/campusforma/mono-repo/backend/services/vault-service/internal/routes"
	"github.com/campusforma/mono-repo/backend/services/vault-service/internal/services"
	"github.com/campusforma/mono-repo/backend/shared/go-middleware"
	"github.com/campusforma/mono-repo/backend/shared/go-utils"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()
	defer cfg.Close()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize vault-service:", err)
	}
	defer application.Close()

	// Services
	documentService := services.NewDocumentURLService(
		application.Signer,
		cfg.AccessPolicy,
		application.Metrics,
		cfg.LDFlag_URLResolutionEnabled,
		cfg.LDFlag_SignedURLExpiry,
	)

	// Controllers
	healthController := controllers.NewHealthController(application)
	vaultController := controllers.NewVaultController(documentService)

	// Router setup
	router := mux.NewRouter()

	// Public Routes
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.Handle(routes.Metrics, application.Metrics.Handler()).Methods(http.MethodGet)

	// Secured routes
	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.SupabaseJWTSecret, cfg.JWTAudience))
	secured.HandleFunc(routes.VaultResolve, vaultController.ResolveHandler).Methods(http.MethodPost)

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("vault-service failed to start:", err)
	}
}
