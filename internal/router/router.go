package router

import (
	"context"
	"log"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pawhaven/rescue-console/backend/internal/audit"
	"github.com/pawhaven/rescue-console/backend/internal/handlers"
	"github.com/pawhaven/rescue-console/backend/internal/middleware"
	"github.com/pawhaven/rescue-console/backend/internal/models"
	"github.com/pawhaven/rescue-console/backend/internal/notify"
	"github.com/pawhaven/rescue-console/backend/internal/obs"
	"github.com/pawhaven/rescue-console/backend/internal/registry"
	"github.com/pawhaven/rescue-console/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client, mongoDatabase string, cooldownDays int) {
	// AutoMigrate the audit trail table
	if err := pgdb.AutoMigrate(&models.AuditEvent{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(obs.MetricsHandler()))

	db := mgClient.Database(mongoDatabase)

	// --- Initialize Repositories ---
	accountRepo := repositories.NewMongoAccountRepository(db)
	auditRepo := repositories.NewPostgresAuditRepository(pgdb)
	notificationRepo := repositories.NewMongoNotificationRepository(db)
	settingsRepo := repositories.NewMongoSettingsRepository(db)

	// Stored settings override the env defaults when an admin has saved
	// them; a load failure falls back rather than blocking startup.
	toastDuration := notify.DefaultDisplayDuration
	loadCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	settings, err := settingsRepo.Load(loadCtx)
	cancel()
	if err != nil {
		log.Printf("Failed to load system settings, using defaults: %v", err)
	} else {
		cooldownDays = settings.ReactivationCooldownDays
		if settings.ToastDurationMillis > 0 {
			toastDuration = time.Duration(settings.ToastDurationMillis) * time.Millisecond
		}
	}

	// --- Core services ---
	trail := audit.NewTrail(auditRepo)
	broker := notify.NewBroker()
	toasts := notify.NewHub(toastDuration, notify.DefaultExitDuration, broker)
	accountRegistry := registry.NewService(accountRepo, trail, cooldownDays)

	feed := notify.NewFeed(notificationRepo, broker)
	go func() {
		for {
			if err := feed.Start(context.Background()); err != nil {
				log.Printf("Notification feed subscription ended: %v; retrying", err)
				time.Sleep(5 * time.Second)
				continue
			}
			return
		}
	}()

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(firebaseAuthClient, trail)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// Account lifecycle routes
	accountHandler := handlers.NewAccountHandler(accountRegistry, toasts)
	accountHandler.RegisterAccountRoutes(api)
	log.Println("Account routes configured.")

	// Audit trail routes
	auditHandler := handlers.NewAuditHandler(trail)
	auditHandler.RegisterAuditRoutes(api)
	log.Println("Audit routes configured.")

	// Notification feed and live stream routes
	notificationHandler := handlers.NewNotificationHandler(feed, toasts, broker)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Settings routes
	settingsHandler := handlers.NewSettingsHandler(settingsRepo, trail, toasts, accountRegistry)
	settingsHandler.RegisterSettingsRoutes(api)
	log.Println("Settings routes configured.")
}
