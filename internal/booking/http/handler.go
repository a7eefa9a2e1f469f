package http

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/vehicle-service-backend/internal/auth"
	"github.com/nekogravitycat/vehicle-service-backend/internal/booking"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/request"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/response"
)

type BookingHandler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *BookingHandler {
	return &BookingHandler{service: service}
}

// Create books a service for one of the caller's vehicles.
func (h *BookingHandler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid body", err)
		return
	}
	req, err := body.ToDomain()
	if err != nil {
		response.BadRequest(c, "invalid scheduled date", err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// ListMine pages over the caller's bookings, newest first.
func (h *BookingHandler) ListMine(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	q := req.ToQuery()
	bookings, total, err := h.service.ListForUser(c.Request.Context(), auth.GetUserID(c), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewPageResponse(newBookingResponses(bookings), q.Page, q.PageSize, total))
}

// ListAll pages over every booking.
// Access Control: admin only.
func (h *BookingHandler) ListAll(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	q := req.ToQuery()
	bookings, total, err := h.service.ListAll(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewPageResponse(newBookingResponses(bookings), q.Page, q.PageSize, total))
}

// Get returns a booking.
// Access Control: owner or admin.
func (h *BookingHandler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	p, _ := auth.GetPrincipal(c)
	b, err := h.service.Get(c.Request.Context(), uri.ID, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// UpdateStatus moves a booking to any status.
// Access Control: admin only.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid body", err)
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), uri.ID, body.ToDomain())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Cancel cancels a booking that is not yet completed.
// Access Control: owner only.
func (h *BookingHandler) Cancel(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body CancelBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "cancellation reason is required", err)
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), uri.ID, auth.GetUserID(c), body.CancellationReason)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Review rates a completed booking.
// Access Control: owner only.
func (h *BookingHandler) Review(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body ReviewBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "rating must be between 1 and 5", err)
		return
	}

	b, err := h.service.AddReview(c.Request.Context(), uri.ID, auth.GetUserID(c), body.Rating, body.Review)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Delete removes a booking permanently.
// Access Control: admin only.
func (h *BookingHandler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ServiceReviews lists the published reviews of a catalog service.
func (h *BookingHandler) ServiceReviews(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	params.Normalize(defaultPageSize)

	page, err := h.service.ServiceReviews(c.Request.Context(), uri.ID, params.Page, params.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, ServiceReviewsResponse{
		Items:         newReviewResponses(page.Items),
		Page:          params.Page,
		PageSize:      params.PageSize,
		Total:         page.Total,
		TotalPages:    response.TotalPages(page.Total, params.PageSize),
		AverageRating: math.Round(page.Summary.Average*10) / 10,
		ReviewCount:   page.Summary.Count,
	})
}
