package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/tenderlist/internal/metrics"
)

func (s *Server) setupRoutes(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":     "ok",
				"config_dir": s.app.Config.ConfigDir,
			})
		})

		// Checklist
		v1.GET("/lists", s.getListNames)
		v1.GET("/lists/:name/options", s.getOptions)
		v1.GET("/parameters/:name/guide", s.getGuide)
		v1.POST("/checklist", s.postChecklist)

		// Stored tables
		v1.GET("/tables/:table", s.getTable)

		admin := v1.Group("/admin")
		{
			admin.GET("/backups", s.getBackups)

			sessions := admin.Group("/sessions")
			{
				sessions.POST("", s.openSession)
				sessions.GET("/:id", s.getSession)
				sessions.DELETE("/:id", s.discardSession)
				sessions.POST("/:id/save", s.saveSession)

				sessions.POST("/:id/:table/rows", s.appendRow)
				sessions.PUT("/:id/:table/rows/:row", s.updateRow)
				sessions.DELETE("/:id/:table/rows/:row", s.deleteRow)
				sessions.POST("/:id/:table/delete", s.deleteLabels)
			}
		}
	}
}
