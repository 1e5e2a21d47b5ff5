package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mossy-p/roomrelay/config"
	"github.com/mossy-p/roomrelay/internal/signaling"
)

// NewRouter builds the HTTP surface: health and room introspection under
// fixed paths, WebSocket signaling on every other path.
func NewRouter(cfg *config.Config, registry *signaling.Registry) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if !cfg.IsProduction() {
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery())

	// Runs before routing
	router.Use(OriginFilter(cfg.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/rooms/:roomId", GetRoom(registry))
		apiGroup.GET("/stats", GetStats(registry))
	}

	gateway := NewGateway(cfg, registry)
	router.GET("/", gateway.HandleSignaling)
	router.NoRoute(gateway.HandleSignaling)

	log.Info().Str("module", "handlers").Strs("allowed_origins", cfg.AllowedOrigins).Msg("router setup")
	return router
}
