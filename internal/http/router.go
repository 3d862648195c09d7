package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the local bridge API. Only the configured browser
// origins may talk to it.
func NewRouter(h *Handler, allowedOrigins []string) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)

		api.GET("/tokens", h.DisplayList)
		api.POST("/tokens/select", h.Select)
		api.POST("/tokens/import", h.Import)
		api.GET("/tokens/user", h.UserTokens)
		api.DELETE("/tokens/user/:address", h.RemoveUserToken)

		api.GET("/selection", h.Selection)

		api.GET("/lists", h.Lists)
		api.PUT("/lists/:id/enabled", h.SetListEnabled)
		api.POST("/lists/refresh", h.RefreshLists)

		api.GET("/panel", h.Panel)
		api.POST("/panel/toggle", h.TogglePanel)
	}

	return r
}
