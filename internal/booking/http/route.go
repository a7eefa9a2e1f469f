package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers booking routes and the public review listing of catalog services.
func RegisterRoutes(r gin.IRouter, h *BookingHandler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	bookings := r.Group("/bookings")
	bookings.Use(authMiddleware)
	{
		bookings.POST("", h.Create)
		bookings.GET("", h.ListMine)
		bookings.GET("/admin/all", adminMiddleware, h.ListAll)
		bookings.GET("/:id", h.Get)
		bookings.PUT("/:id/status", adminMiddleware, h.UpdateStatus)
		bookings.PUT("/:id/cancel", h.Cancel)
		bookings.PUT("/:id/review", h.Review)
		bookings.DELETE("/:id", adminMiddleware, h.Delete)
	}

	r.GET("/services/:id/reviews", h.ServiceReviews)
}
