package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/stemsi/exam-countdown/internal/config"
	"github.com/stemsi/exam-countdown/internal/handler"
	"github.com/stemsi/exam-countdown/internal/middleware"
	"github.com/stemsi/exam-countdown/internal/response"
)

const (
	catalogMaxAge      = 300
	streamPath         = "/api/v1/session/stream"
	sessionLimitWindow = time.Minute
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Catalog *handler.CatalogHandler
	Session *handler.SessionHandler
	WS      *handler.WSHandler
	System  *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// The returned RateLimiter must be stopped on shutdown.
func SetupRouter(handlers *Handlers, cfg *config.Config) (*gin.Engine, *middleware.RateLimiter) {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		SkipPaths: []string{streamPath},
	}))

	// Health check.
	router.GET("/health", handlers.System.Health)

	// ─── 1. Catalog (read-only reference data) ─────────────────────────
	catalogAPI := router.Group("/api/v1/catalog")
	catalogAPI.Use(middleware.CacheControl(catalogMaxAge))
	{
		catalogAPI.GET("/boards", handlers.Catalog.ListBoards)
		catalogAPI.GET("/boards/:board/subjects", handlers.Catalog.ListSubjects)
	}

	// ─── 2. Session (single active countdown) ──────────────────────────
	sessionLimiter := middleware.NewRateLimiter(cfg.SessionRateLimit, sessionLimitWindow)

	sessionAPI := router.Group("/api/v1/session")
	sessionAPI.Use(middleware.NoStore())
	{
		sessionAPI.GET("", handlers.Session.Get)
		sessionAPI.POST("", sessionLimiter.Middleware(), handlers.Session.Start)
		sessionAPI.DELETE("", sessionLimiter.Middleware(), handlers.Session.Stop)
		sessionAPI.GET("/events", handlers.Session.Events)
		sessionAPI.GET("/stream", handlers.Session.Stream)
	}

	// ─── 3. System ─────────────────────────────────────────────────────
	router.GET("/api/v1/system/status", middleware.NoStore(), handlers.System.Status)

	// ─── 4. WebSocket (classroom displays) ─────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/countdown", handlers.WS.CountdownStream)
	}

	return router, sessionLimiter
}
