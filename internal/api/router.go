package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/fleetwatch/internal/api/handlers"
	"github.com/your-org/fleetwatch/internal/channel"
	"github.com/your-org/fleetwatch/internal/config"
	"github.com/your-org/fleetwatch/internal/ratelimit"
	"github.com/your-org/fleetwatch/internal/registry"
	"github.com/your-org/fleetwatch/internal/session"
	"github.com/your-org/fleetwatch/pkg/dto"
)

type RouterConfig struct {
	Server   config.ServerConfig
	Registry *registry.Registry
	Sessions *session.Manager
	Limiter  *ratelimit.Limiter
	Hub      *channel.Hub
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Server.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	r.Use(SecurityHeadersMiddleware(cfg.Server.Production()))
	r.Use(corsMiddleware(cfg.Server))

	// System endpoints (no rate limit)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Persistent channel
	r.GET("/ws", cfg.Hub.ServeWS)

	// Request/response surface, rate limited as a group
	apiGroup := r.Group("/api")
	apiGroup.Use(RateLimitMiddleware(cfg.Limiter))

	systemH := handlers.NewSystemHandler(cfg.Registry)
	apiGroup.GET("/systems", systemH.List)
	apiGroup.GET("/systems/:id", systemH.Get)
	apiGroup.GET("/systems/:id/cameras", systemH.Cameras)

	cameraH := handlers.NewCameraHandler(cfg.Registry)
	apiGroup.PUT("/cameras/:id/settings", cameraH.UpdateSettings)

	recordingH := handlers.NewRecordingHandler(cfg.Sessions)
	apiGroup.POST("/recording/start", recordingH.Start)
	apiGroup.POST("/recording/stop", recordingH.Stop)
	apiGroup.GET("/recording/sessions", recordingH.Sessions)

	statusH := handlers.NewStatusHandler()
	apiGroup.GET("/status", statusH.Get)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.Err("Not found"))
	})

	return r
}

// corsMiddleware allows the configured origins. With no configured origins,
// development mode stays permissive and production allows nothing
// cross-origin.
func corsMiddleware(cfg config.ServerConfig) gin.HandlerFunc {
	if len(cfg.AllowedOrigins) == 0 {
		if cfg.Production() {
			return cors.New(cors.Config{AllowOrigins: []string{}})
		}
		return cors.Default()
	}

	c := cors.DefaultConfig()
	c.AllowOrigins = cfg.AllowedOrigins
	c.AllowCredentials = true
	return cors.New(c)
}
