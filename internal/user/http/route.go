package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all user-related routes (including Auth).
// limiter guards the unauthenticated credential endpoints.
func RegisterRoutes(g *gin.RouterGroup, h *UserHandler, authMiddleware, adminMiddleware, limiter gin.HandlerFunc) {
	authGroup := g.Group("/auth")
	{
		authGroup.POST("/register", limiter, h.Register)
		authGroup.POST("/login", limiter, h.Login)
		authGroup.GET("/profile", authMiddleware, h.Me)
		authGroup.PUT("/profile", authMiddleware, h.UpdateMe)
	}

	usersGroup := g.Group("/users")
	usersGroup.Use(authMiddleware, adminMiddleware)
	{
		usersGroup.GET("", h.List)
		usersGroup.GET("/:id", h.Get)
		usersGroup.PUT("/:id", h.Update)
		usersGroup.DELETE("/:id", h.Delete)
	}
}
