package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the catalog routes. Browsing is public; writes need admin.
func RegisterRoutes(r gin.IRouter, h *CatalogHandler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	services := r.Group("/services")
	{
		services.GET("", h.List)
		services.GET("/categories", h.Categories)
		services.GET("/slug/:slug", h.GetBySlug)
		services.GET("/:id", h.Get)
	}

	admin := services.Group("")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.GET("/admin/all", h.ListAll)
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
		admin.POST("/:id/image", h.UploadImage)
	}
}
