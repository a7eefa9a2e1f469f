package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/response"
	"github.com/nekogravitycat/vehicle-service-backend/internal/stats"
)

type OverviewResponse struct {
	TotalUsers        int   `json:"totalUsers"`
	RecentUsers       int   `json:"recentUsers"`
	TotalBookings     int   `json:"totalBookings"`
	PendingBookings   int   `json:"pendingBookings"`
	CompletedBookings int   `json:"completedBookings"`
	Revenue           int64 `json:"revenue"`
	TotalServices     int   `json:"totalServices"`
}

type StatsHandler struct {
	service stats.Service
}

func NewHandler(service stats.Service) *StatsHandler {
	return &StatsHandler{service: service}
}

// Overview returns dashboard counters.
// Access Control: admin only.
func (h *StatsHandler) Overview(c *gin.Context) {
	o, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, OverviewResponse{
		TotalUsers:        o.TotalUsers,
		RecentUsers:       o.RecentUsers,
		TotalBookings:     o.TotalBookings,
		PendingBookings:   o.PendingBookings,
		CompletedBookings: o.CompletedBookings,
		Revenue:           o.Revenue,
		TotalServices:     o.TotalServices,
	})
}

func RegisterRoutes(r gin.IRouter, h *StatsHandler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	r.GET("/users/stats/overview", authMiddleware, adminMiddleware, h.Overview)
}
