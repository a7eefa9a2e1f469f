package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/vehicle-service-backend/internal/catalog"
	"github.com/nekogravitycat/vehicle-service-backend/internal/file"
	filehttp "github.com/nekogravitycat/vehicle-service-backend/internal/file/http"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/request"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/response"
)

type CatalogHandler struct {
	service     catalog.Service
	fileHandler *filehttp.Handler
}

func NewHandler(service catalog.Service, fileHandler *filehttp.Handler) *CatalogHandler {
	return &CatalogHandler{service: service, fileHandler: fileHandler}
}

func (h *CatalogHandler) list(c *gin.Context, includeInactive bool) {
	var req ListServicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	filter := req.ToFilter()
	filter.IncludeInactive = includeInactive
	offerings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ServiceResponse, len(offerings))
	for i, o := range offerings {
		items[i] = NewServiceResponse(o)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

// List returns active services. Public.
func (h *CatalogHandler) List(c *gin.Context) {
	h.list(c, false)
}

// ListAll includes inactive services.
// Access Control: admin only.
func (h *CatalogHandler) ListAll(c *gin.Context) {
	h.list(c, true)
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]string, len(categories))
	for i, cat := range categories {
		out[i] = string(cat)
	}
	c.JSON(http.StatusOK, CategoriesResponse{Categories: out})
}

func (h *CatalogHandler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	o, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewServiceResponse(o))
}

func (h *CatalogHandler) GetBySlug(c *gin.Context) {
	var uri BySlugRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	o, err := h.service.GetBySlug(c.Request.Context(), uri.Slug)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewServiceResponse(o))
}

// Create adds a service to the catalog.
// Access Control: admin only.
func (h *CatalogHandler) Create(c *gin.Context) {
	var body CreateServiceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid body", err)
		return
	}

	o, err := h.service.Create(c.Request.Context(), body.ToDomain())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewServiceResponse(o))
}

// Update edits a service. Renaming also changes the slug.
// Access Control: admin only.
func (h *CatalogHandler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateServiceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid body", err)
		return
	}

	o, err := h.service.Update(c.Request.Context(), uri.ID, body.ToDomain())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewServiceResponse(o))
}

// Delete deactivates a service.
// Access Control: admin only.
func (h *CatalogHandler) Delete(c *gin.Context) {
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

// UploadImage stores an image and sets it as the service image.
// Access Control: admin only.
func (h *CatalogHandler) UploadImage(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if _, err := h.service.GetByID(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	h.fileHandler.HandleFileUpload(c, filehttp.FileUploadConfig{
		FormFieldName: "image",
		ResizeImage:   true,
		AfterUpload: func(ctx context.Context, f *file.File) error {
			_, err := h.service.SetImage(ctx, uri.ID, file.FileURL(f.ID))
			return err
		},
	})
}
