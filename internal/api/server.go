package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the gin engine with all routes registered.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(h.log))

	router.GET("/health", h.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/matches/preview", h.PreviewMatch)
		v1.POST("/matches", h.SaveMatch)
		v1.GET("/matches", h.ListMatches)
		v1.GET("/matches/:id", h.GetMatch)
		v1.DELETE("/matches/:id", h.DeleteMatch)

		v1.GET("/champions", h.ListChampions)
		v1.GET("/champions/:id", h.GetChampion)
		v1.GET("/roles/leaders", h.RoleLeaders)

		v1.POST("/players", h.CreatePlayer)
		v1.GET("/players", h.ListPlayers)
		v1.GET("/players/ranking", h.PlayerRanking)
		v1.GET("/players/:id/recent-form", h.PlayerRecentForm)
	}

	return router
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
