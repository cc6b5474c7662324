package main

import (
	"context"
	"net/http"
	"time"
	_ "time/tzdata"

	"github.com/campusforma/mono-repo/backend/services/attendance-service/internal/app"
	"github.com/campusforma/mono-repo/backend/services/attendance-service/internal/config"
	"github.com/campusforma/mono-repo/backend/services/attendance-service/internal/constants"
	"github.com/campusforma/mono-repo/backend/services/attendance-service/internal/controllers"
	"github.com/campusforma/mono-repo/backend/services/attendance-service/internal/routes"
	"github.com/campusforma/mono-repo/backend/services/attendance-service/internal/services"
	"github.com/campusforma/mono-repo/backend/shared/go-middleware"
	"github.com/campusforma/mono-repo/backend/shared/go-utils"
	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()
	defer cfg.Close()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize attendance-service:", err)
	}
	defer application.Close()

	// Repositories
	repos := application.Repositories()

	// Services
	validatorService := services.NewCodeValidatorService(repos.Codes, application.Metrics)
	rateLimitService := services.NewRateLimitService(repos.RateLimits, application.Metrics)
	auditService := services.NewAuditLogService(repos.Attempts, repos.Actions, application.Metrics, nil)
	emargementService := services.NewEmargementService(rateLimitService, validatorService, auditService)
	cleanupService := services.NewAttemptCleanupService(repos.Attempts, cfg.AttemptRetentionDays)

	// Controllers
	healthController := controllers.NewHealthController(application)
	attendanceController := controllers.NewAttendanceController(emargementService, validatorService, rateLimitService, auditService)

	// Router setup
	router := mux.NewRouter()

	// Public Routes
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.Handle(routes.Metrics, application.Metrics.Handler()).Methods(http.MethodGet)

	// Public routes that read the session when one is sent
	optional := router.NewRoute().Subrouter()
	optional.Use(middleware.OptionalAuthMiddleware(cfg.SupabaseJWTSecret, cfg.JWTAudience))
	optional.HandleFunc(routes.AttendanceWeek, attendanceController.WeekHandler).Methods(http.MethodGet)

	// Secured routes for trainees
	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.SupabaseJWTSecret, cfg.JWTAudience))
	secured.HandleFunc(routes.AttendanceValidateCode, attendanceController.ValidateCodeHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.AttendanceRateLimit, attendanceController.RateLimitHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.AttendanceSubmit, attendanceController.SubmitCodeHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.AttendanceActions, attendanceController.LogActionHandler).Methods(http.MethodPost)

	// Cron job setup
	c := cron.New(cron.WithLocation(time.UTC))
	if cfg.UsesPostgres() {
		_, err = c.AddFunc(constants.AttemptCleanupCronSpec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), constants.AttemptCleanupJobTimeout)
			defer cancel()
			utils.Logger.Info("Starting attempt-log cleanup cron job...")
			if err := cleanupService.CleanupDaily(ctx); err != nil {
				utils.Logger.WithError(err).Error("Failed to clean up code attempts")
			}
		})
		if err != nil {
			utils.Logger.WithError(err).Fatal("Failed to schedule attempt cleanup cron")
		}
		c.Start()
		defer c.Stop()
		utils.Logger.Info("Scheduled attempt cleanup cron job")
	} else {
		utils.Logger.Info("REST transport: attempt cleanup is left to the database")
	}

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
		utils.Logger.Fatal("attendance-service failed to start:", err)
	}
}
