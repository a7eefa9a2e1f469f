package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/vehicle-service-backend/internal/auth"
	"github.com/nekogravitycat/vehicle-service-backend/internal/file"
	filehttp "github.com/nekogravitycat/vehicle-service-backend/internal/file/http"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/request"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/response"
	"github.com/nekogravitycat/vehicle-service-backend/internal/vehicle"
)

type VehicleHandler struct {
	service     vehicle.Service
	fileHandler *filehttp.Handler
}

func NewHandler(service vehicle.Service, fileHandler *filehttp.Handler) *VehicleHandler {
	return &VehicleHandler{service: service, fileHandler: fileHandler}
}

// ListMine returns the caller's active vehicles, newest first.
func (h *VehicleHandler) ListMine(c *gin.Context) {
	vehicles, err := h.service.ListByUser(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, newVehicleResponses(vehicles))
}

// ListAll pages over every vehicle.
// Access Control: admin only.
func (h *VehicleHandler) ListAll(c *gin.Context) {
	var req ListAllVehiclesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	filter := req.ToFilter()
	vehicles, total, err := h.service.ListAll(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewPageResponse(newVehicleResponses(vehicles), filter.Page, filter.PageSize, total))
}

func (h *VehicleHandler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	p, _ := auth.GetPrincipal(c)
	v, err := h.service.Get(c.Request.Context(), uri.ID, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewVehicleResponse(v))
}

func (h *VehicleHandler) Create(c *gin.Context) {
	var body CreateVehicleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid body", err)
		return
	}

	v, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), body.ToDomain())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewVehicleResponse(v))
}

// Update edits a vehicle.
// Access Control: owner only.
func (h *VehicleHandler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateVehicleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid body", err)
		return
	}

	p, _ := auth.GetPrincipal(c)
	v, err := h.service.Update(c.Request.Context(), uri.ID, p, body.ToDomain())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewVehicleResponse(v))
}

// Delete retires a vehicle.
// Access Control: owner or admin.
func (h *VehicleHandler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	p, _ := auth.GetPrincipal(c)
	if err := h.service.Delete(c.Request.Context(), uri.ID, p); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImage stores a photo of the vehicle.
// Access Control: owner only.
func (h *VehicleHandler) UploadImage(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	p, _ := auth.GetPrincipal(c)
	v, err := h.service.Get(c.Request.Context(), uri.ID, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	if v.UserID != p.UserID {
		response.Error(c, vehicle.ErrPermissionDenied)
		return
	}

	h.fileHandler.HandleFileUpload(c, filehttp.FileUploadConfig{
		FormFieldName: "image",
		ResizeImage:   true,
		AfterUpload: func(ctx context.Context, f *file.File) error {
			_, err := h.service.SetImage(ctx, uri.ID, p, file.FileURL(f.ID))
			return err
		},
	})
}
