package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers vehicle routes. Every route requires authentication.
func RegisterRoutes(r gin.IRouter, h *VehicleHandler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	vehicles := r.Group("/vehicles")
	vehicles.Use(authMiddleware)
	{
		vehicles.GET("", h.ListMine)
		vehicles.POST("", h.Create)
		vehicles.GET("/admin/all", adminMiddleware, h.ListAll)
		vehicles.GET("/:id", h.Get)
		vehicles.PUT("/:id", h.Update)
		vehicles.DELETE("/:id", h.Delete)
		vehicles.POST("/:id/image", h.UploadImage)
	}
}
