package file

import (
	"mime/multipart"
	"net/http"
	"time"

	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "file not found")
	ErrNoThumbnail     = apperror.New(http.StatusNotFound, "thumbnail not available for this file")
	ErrTooLarge        = apperror.New(http.StatusRequestEntityTooLarge, "file is too large")
	ErrUnsupportedType = apperror.New(http.StatusBadRequest, "unsupported file type")
)

// DefaultImageTypes are the content types accepted for service and vehicle images.
var DefaultImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// DefaultMaxImageBytes caps image uploads at 5 MiB.
const DefaultMaxImageBytes int64 = 5 << 20

// File is the metadata of an uploaded blob. The content lives in storage.
type File struct {
	ID            string    `bson:"_id"`
	UserID        string    `bson:"user_id"`
	Filename      string    `bson:"filename"`
	StoragePath   string    `bson:"storage_path"`
	ThumbnailPath *string   `bson:"thumbnail_path,omitempty"`
	ContentType   string    `bson:"content_type"`
	Size          int64     `bson:"size"`
	CreatedAt     time.Time `bson:"created_at"`
}

// UploadInput describes an upload and the constraints it must satisfy.
type UploadInput struct {
	FileHeader   *multipart.FileHeader
	UserID       string
	MaxSizeBytes int64    // 0 means DefaultMaxImageBytes
	AllowedTypes []string // empty means DefaultImageTypes
	ResizeImage  bool     // downsize to 1000x1000 and store as JPEG
}

// FileURL returns the public URL for accessing a file by its ID.
func FileURL(id string) string {
	return "/api/files/" + id
}

// ThumbnailURL returns the public URL for accessing a file's thumbnail by its ID.
func ThumbnailURL(id string) string {
	return "/api/files/" + id + "/thumbnail"
}
