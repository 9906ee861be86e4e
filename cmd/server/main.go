package main

import (
	"fmt"
	"log"
	"net/http"

	"framerr/internal/api"
	"framerr/internal/api/handlers"
	"framerr/internal/api/middleware"
	"framerr/internal/engine/notify"
	"framerr/internal/engine/push"
	"framerr/internal/engine/webhooks"
	"framerr/internal/pkg/logger"
	"framerr/internal/pkg/metrics"
	"framerr/internal/platform/audit"
	"framerr/internal/platform/auth"
	"framerr/internal/platform/config"
	"framerr/internal/platform/database"
	"framerr/internal/platform/repositories"
	"framerr/internal/ws"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	integrationRepo := repositories.NewIntegrationRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	preferenceRepo := repositories.NewPreferenceRepository(db)
	widgetRepo := repositories.NewWidgetRepository(db)
	pushTargetRepo := repositories.NewPushTargetRepository(db)

	// Services
	tokenSvc := auth.NewTokenService(cfg.JWT)
	auditLogger := audit.NewLogger(db)
	appMetrics := metrics.New()

	hub := ws.NewHub()
	dispatcher := push.NewDispatcher(pushTargetRepo, cfg.Push)
	notifySvc := notify.NewService(notificationRepo, hub, dispatcher)
	eventRouter := webhooks.NewRouter(userRepo, preferenceRepo, notifySvc)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, tokenSvc)
	userHandler := handlers.NewUserHandler(userRepo, auditLogger)
	integrationHandler := handlers.NewIntegrationHandler(integrationRepo, auditLogger)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	preferenceHandler := handlers.NewPreferenceHandler(preferenceRepo)
	widgetHandler := handlers.NewWidgetHandler(widgetRepo)
	pushTargetHandler := handlers.NewPushTargetHandler(pushTargetRepo)
	webhookHandler := handlers.NewWebhookHandler(integrationRepo, eventRouter, appMetrics)
	wsHandler := handlers.NewWSHandler(hub, tokenSvc)
	healthHandler := handlers.NewHealthHandler(db, hub)
	metricsHandler := handlers.NewMetricsHandler(appMetrics)
	auditHandler := handlers.NewAuditHandler(auditLogger)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenSvc)
	proxyAuthMiddleware := middleware.NewProxyAuthMiddleware(cfg.Proxy, userRepo)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)

	// Router
	deps := &api.Dependencies{
		AuthHandler:         authHandler,
		UserHandler:         userHandler,
		IntegrationHandler:  integrationHandler,
		NotificationHandler: notificationHandler,
		PreferenceHandler:   preferenceHandler,
		WidgetHandler:       widgetHandler,
		PushTargetHandler:   pushTargetHandler,
		WebhookHandler:      webhookHandler,
		WSHandler:           wsHandler,
		HealthHandler:       healthHandler,
		MetricsHandler:      metricsHandler,
		AuditHandler:        auditHandler,
		AuthMiddleware:      authMiddleware,
		ProxyAuthMiddleware: proxyAuthMiddleware,
		RateLimiter:         rateLimiter,
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Server starting on %s", addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
