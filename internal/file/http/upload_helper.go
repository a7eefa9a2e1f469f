package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/vehicle-service-backend/internal/auth"
	"github.com/nekogravitycat/vehicle-service-backend/internal/file"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/logger"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/response"
)

// FileUploadConfig defines the configuration for generic file uploads
type FileUploadConfig struct {
	FormFieldName string   // default "file"
	MaxSizeBytes  int64    // 0 means file.DefaultMaxImageBytes
	AllowedTypes  []string // empty means file.DefaultImageTypes
	ResizeImage   bool
	// AfterUpload attaches the stored file to its owner. A failure rolls the upload back.
	AfterUpload func(ctx context.Context, f *file.File) error
}

// HandleFileUpload is a reusable handler for uploads that belong to another resource.
func (h *Handler) HandleFileUpload(c *gin.Context, config FileUploadConfig) {
	fieldName := config.FormFieldName
	if fieldName == "" {
		fieldName = "file"
	}

	fileHeader, err := c.FormFile(fieldName)
	if err != nil {
		response.BadRequest(c, fieldName+" is required", err)
		return
	}

	f, err := h.fileService.Upload(c.Request.Context(), file.UploadInput{
		FileHeader:   fileHeader,
		UserID:       auth.GetUserID(c),
		MaxSizeBytes: config.MaxSizeBytes,
		AllowedTypes: config.AllowedTypes,
		ResizeImage:  config.ResizeImage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if config.AfterUpload != nil {
		if err := config.AfterUpload(c.Request.Context(), f); err != nil {
			if delErr := h.fileService.Delete(c.Request.Context(), f.ID); delErr != nil {
				logger.FromGin(c).WithError(delErr).WithField("file_id", f.ID).Warn("failed to roll back upload")
			}
			response.Error(c, err)
			return
		}
	}

	var thumbURL *string
	if f.ThumbnailPath != nil {
		t := file.ThumbnailURL(f.ID)
		thumbURL = &t
	}

	c.JSON(http.StatusOK, FileUploadResponse{
		Message:      "file uploaded successfully",
		FileID:       f.ID,
		URL:          file.FileURL(f.ID),
		ThumbnailURL: thumbURL,
	})
}
