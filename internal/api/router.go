package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "framerr/internal/api/context"
	"framerr/internal/api/handlers"
	"framerr/internal/api/middleware"
	"framerr/internal/pkg/errors"
	"framerr/internal/platform/auth"
)

type Dependencies struct {
	AuthHandler         *handlers.AuthHandler
	UserHandler         *handlers.UserHandler
	IntegrationHandler  *handlers.IntegrationHandler
	NotificationHandler *handlers.NotificationHandler
	PreferenceHandler   *handlers.PreferenceHandler
	WidgetHandler       *handlers.WidgetHandler
	PushTargetHandler   *handlers.PushTargetHandler
	WebhookHandler      *handlers.WebhookHandler
	WSHandler           *handlers.WSHandler
	HealthHandler       *handlers.HealthHandler
	MetricsHandler      *handlers.MetricsHandler
	AuditHandler        *handlers.AuditHandler
	AuthMiddleware      *middleware.AuthMiddleware
	ProxyAuthMiddleware *middleware.ProxyAuthMiddleware
	RateLimiter         *middleware.RateLimiter
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	authMid := deps.AuthMiddleware
	proxyMid := deps.ProxyAuthMiddleware
	limiter := deps.RateLimiter

	// Producer webhooks: token in path, no session auth.
	router.POST("/api/webhooks/overseerr/:token",
		chain(deps.WebhookHandler.Overseerr, limiter.Limit("webhook")))
	router.POST("/api/webhooks/sonarr/:token",
		chain(deps.WebhookHandler.Sonarr, limiter.Limit("webhook")))
	router.POST("/api/webhooks/radarr/:token",
		chain(deps.WebhookHandler.Radarr, limiter.Limit("webhook")))

	// Authentication
	router.POST("/api/auth/signup", wrap(deps.AuthHandler.Signup))
	router.POST("/api/auth/login", wrap(deps.AuthHandler.Login))
	router.POST("/api/auth/refresh", wrap(deps.AuthHandler.Refresh))
	router.POST("/api/auth/logout", wrap(deps.AuthHandler.Logout))

	// User management
	router.GET("/api/users",
		chain(deps.UserHandler.List, proxyMid.Handle, authMid.Handle, requireRole("admin")))
	router.GET("/api/users/:user_id",
		chain(deps.UserHandler.Get, proxyMid.Handle, authMid.Handle))
	router.PATCH("/api/users/:user_id/role",
		chain(deps.UserHandler.UpdateRole, proxyMid.Handle, authMid.Handle, requireRole("admin")))
	router.PATCH("/api/users/:user_id/settings",
		chain(deps.UserHandler.UpdateSettings, proxyMid.Handle, authMid.Handle))
	router.DELETE("/api/users/:user_id",
		chain(deps.UserHandler.Delete, proxyMid.Handle, authMid.Handle, requireRole("admin")))

	// Service identities
	router.GET("/api/users/:user_id/identities",
		chain(deps.UserHandler.ListIdentities, proxyMid.Handle, authMid.Handle))
	router.POST("/api/users/:user_id/identities",
		chain(deps.UserHandler.AddIdentity, proxyMid.Handle, authMid.Handle))
	router.DELETE("/api/users/:user_id/identities/:service",
		chain(deps.UserHandler.DeleteIdentity, proxyMid.Handle, authMid.Handle))

	// Integrations (admin)
	router.GET("/api/integrations",
		chain(deps.IntegrationHandler.List, proxyMid.Handle, authMid.Handle, requireRole("admin")))
	router.PUT("/api/integrations/:service",
		chain(deps.IntegrationHandler.Upsert, proxyMid.Handle, authMid.Handle, requireRole("admin")))
	router.POST("/api/integrations/:service/rotate-token",
		chain(deps.IntegrationHandler.RotateToken, proxyMid.Handle, authMid.Handle, requireRole("admin")))

	// Notifications
	router.GET("/api/notifications",
		chain(deps.NotificationHandler.List, proxyMid.Handle, authMid.Handle))
	router.GET("/api/notifications/unread-count",
		chain(deps.NotificationHandler.UnreadCount, proxyMid.Handle, authMid.Handle))
	router.POST("/api/notifications/read-all",
		chain(deps.NotificationHandler.MarkAllRead, proxyMid.Handle, authMid.Handle))
	router.PATCH("/api/notifications/:notification_id/read",
		chain(deps.NotificationHandler.MarkRead, proxyMid.Handle, authMid.Handle))
	router.DELETE("/api/notifications/:notification_id",
		chain(deps.NotificationHandler.Delete, proxyMid.Handle, authMid.Handle))

	// Notification preferences
	router.GET("/api/preferences",
		chain(deps.PreferenceHandler.List, proxyMid.Handle, authMid.Handle))
	router.PUT("/api/preferences",
		chain(deps.PreferenceHandler.Set, proxyMid.Handle, authMid.Handle))

	// Dashboard widgets
	router.GET("/api/widgets",
		chain(deps.WidgetHandler.List, proxyMid.Handle, authMid.Handle))
	router.POST("/api/widgets",
		chain(deps.WidgetHandler.Create, proxyMid.Handle, authMid.Handle))
	router.PATCH("/api/widgets/:widget_id",
		chain(deps.WidgetHandler.Update, proxyMid.Handle, authMid.Handle))
	router.DELETE("/api/widgets/:widget_id",
		chain(deps.WidgetHandler.Delete, proxyMid.Handle, authMid.Handle))

	// Push targets
	router.GET("/api/push-targets",
		chain(deps.PushTargetHandler.List, proxyMid.Handle, authMid.Handle))
	router.POST("/api/push-targets",
		chain(deps.PushTargetHandler.Create, proxyMid.Handle, authMid.Handle))
	router.DELETE("/api/push-targets/:target_id",
		chain(deps.PushTargetHandler.Delete, proxyMid.Handle, authMid.Handle))

	// Audit log (admin)
	router.GET("/api/audit",
		chain(deps.AuditHandler.List, proxyMid.Handle, authMid.Handle, requireRole("admin")))

	// Live notification stream
	router.GET("/api/ws", wrap(deps.WSHandler.Serve))

	router.GET("/api/health", wrap(deps.HealthHandler.Check))
	router.GET("/api/metrics", wrap(deps.MetricsHandler.Export))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}

func requireRole(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(apiContext.Claims).(*auth.Claims)
			if !ok {
				errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Not authenticated", nil)
				return
			}

			allowed := false
			for _, role := range roles {
				if claims.Role == role {
					allowed = true
					break
				}
			}

			if !allowed {
				errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Insufficient permissions", nil)
				return
			}

			next(w, r)
		}
	}
}
