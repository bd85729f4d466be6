package http

import (
	"taskhub/internal/config"
	"taskhub/internal/http/handlers"
	"taskhub/internal/http/middleware"
	"taskhub/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes wires the full API surface onto the engine and returns the
// notification hub so the reminder dispatcher can push into it.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) *ws.Hub {
	hub := ws.NewHub()
	h := handlers.NewHandler(db, hub, handlers.HandlerConfig{MaxPerPage: cfg.MaxPerPage})
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit("api", cfg.APIRateLimit, cfg.APIRateWindow))
	registerAPIRoutes(v1, h, cfg)

	// Legacy /api prefix kept for older frontend builds
	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit("api", cfg.APIRateLimit, cfg.APIRateWindow))
	registerAPIRoutes(api, h, cfg)

	// Notification push for the browser
	r.GET("/ws", h.WS(hub))

	return hub
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, cfg *config.Config) {
	authRL := middleware.RedisRateLimit("auth", cfg.AuthRateLimit, cfg.AuthRateWindow)
	auth := middleware.JWT(h.Sessions)
	// mutating endpoints get an extra per-user limit
	writeRL := middleware.UserWriteRateLimit(cfg.WriteRateLimit, cfg.WriteRateWindow)

	// Auth
	api.POST("/auth/register", authRL, h.Register)
	api.POST("/auth/login", authRL, h.Login)
	api.POST("/auth/logout", auth, h.Logout)

	// Current user
	api.GET("/me", auth, h.Me)
	api.GET("/me/preferences", auth, h.GetPreferences)
	api.PUT("/me/preferences", auth, writeRL, h.UpdatePreferences)

	// Tasks
	api.GET("/tasks", auth, h.ListTasks)
	api.POST("/tasks", auth, writeRL, h.CreateTask)
	api.GET("/tasks/:id", auth, h.GetTask)
	api.PUT("/tasks/:id", auth, writeRL, h.UpdateTask)
	api.DELETE("/tasks/:id", auth, writeRL, h.DeleteTask)
	api.PATCH("/tasks/:id/complete", auth, writeRL, h.CompleteTask)
	api.PATCH("/tasks/:id/reopen", auth, writeRL, h.ReopenTask)

	// Projects
	api.GET("/projects", auth, h.ListProjects)
	api.POST("/projects", auth, writeRL, h.CreateProject)
	api.GET("/projects/:id", auth, h.GetProject)
	api.PUT("/projects/:id", auth, writeRL, h.UpdateProject)
	api.DELETE("/projects/:id", auth, writeRL, h.DeleteProject)

	// Tags
	api.GET("/tags", auth, h.ListTags)
	api.POST("/tags", auth, writeRL, h.CreateTag)
	api.PUT("/tags/:id", auth, writeRL, h.UpdateTag)
	api.DELETE("/tags/:id", auth, writeRL, h.DeleteTag)

	// Saved views
	api.GET("/saved-views", auth, h.ListSavedViews)
	api.POST("/saved-views", auth, writeRL, h.CreateSavedView)
	api.GET("/saved-views/:id", auth, h.GetSavedView)
	api.PUT("/saved-views/:id", auth, writeRL, h.UpdateSavedView)
	api.DELETE("/saved-views/:id", auth, writeRL, h.DeleteSavedView)

	// Notifications
	api.GET("/notifications/rules", auth, h.ListNotificationRules)
	api.POST("/notifications/rules", auth, writeRL, h.CreateNotificationRule)
	api.PUT("/notifications/rules/:id", auth, writeRL, h.UpdateNotificationRule)
	api.DELETE("/notifications/rules/:id", auth, writeRL, h.DeleteNotificationRule)
	api.GET("/notifications/logs", auth, h.ListNotificationLogs)
}
