package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/storage"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Upload(ctx context.Context, in UploadInput) (*File, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*File, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *File, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *File, error)
}

type service struct {
	repo    Repository
	storage storage.Storage
	imgProc *storage.ImageProcessor
	log     log.FieldLogger
	now     func() time.Time
}

func NewService(repo Repository, store storage.Storage, logger log.FieldLogger) Service {
	return &service{
		repo:    repo,
		storage: store,
		imgProc: storage.NewImageProcessor(),
		log:     logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*File, error) {
	maxSize := in.MaxSizeBytes
	if maxSize <= 0 {
		maxSize = DefaultMaxImageBytes
	}
	allowed := in.AllowedTypes
	if len(allowed) == 0 {
		allowed = DefaultImageTypes
	}

	if in.FileHeader.Size > maxSize {
		return nil, ErrTooLarge
	}

	src, err := in.FileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	// Read one byte past the limit so an understated header size is still caught.
	content, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}
	if int64(len(content)) > maxSize {
		return nil, ErrTooLarge
	}

	// Trust the decoded header over the client supplied Content-Type.
	format, _, err := s.imgProc.Inspect(bytes.NewReader(content))
	if err != nil {
		return nil, ErrUnsupportedType
	}
	contentType := "image/" + format
	if !slices.Contains(allowed, contentType) {
		return nil, ErrUnsupportedType
	}

	fileID := uuid.NewString()
	shard := fileID[:2]
	ext := strings.ToLower(filepath.Ext(in.FileHeader.Filename))

	body := io.Reader(bytes.NewReader(content))
	size := int64(len(content))
	if in.ResizeImage {
		resized, err := s.imgProc.FitWithin(bytes.NewReader(content), 1000, 1000)
		if err != nil {
			return nil, ErrUnsupportedType
		}
		buf, err := io.ReadAll(resized)
		if err != nil {
			return nil, fmt.Errorf("failed to read resized image: %w", err)
		}
		body, size, contentType, ext = bytes.NewReader(buf), int64(len(buf)), "image/jpeg", ".jpg"
	}

	storagePath := fmt.Sprintf("upload/%s/%s%s", shard, fileID, ext)
	if err := s.storage.Save(ctx, storagePath, body); err != nil {
		return nil, fmt.Errorf("failed to save file to storage: %w", err)
	}

	var thumbnailPath *string
	thumb, err := s.imgProc.GenerateThumbnail(bytes.NewReader(content), 200, 200)
	if err == nil {
		tPath := fmt.Sprintf("upload/%s/%s_thumb.jpg", shard, fileID)
		if err = s.storage.Save(ctx, tPath, thumb); err == nil {
			thumbnailPath = &tPath
		}
	}
	if err != nil {
		s.log.WithError(err).WithField("file_id", fileID).Warn("thumbnail generation failed")
	}

	f := &File{
		ID:            fileID,
		UserID:        in.UserID,
		Filename:      filepath.Base(in.FileHeader.Filename),
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		Size:          size,
		CreatedAt:     s.now(),
	}

	if err := s.repo.Create(ctx, f); err != nil {
		s.removeBlobs(ctx, f)
		return nil, err
	}

	return f, nil
}

func (s *service) removeBlobs(ctx context.Context, f *File) {
	if err := s.storage.Delete(ctx, f.StoragePath); err != nil {
		s.log.WithError(err).WithField("path", f.StoragePath).Warn("failed to remove stored file")
	}
	if f.ThumbnailPath != nil {
		if err := s.storage.Delete(ctx, *f.ThumbnailPath); err != nil {
			s.log.WithError(err).WithField("path", *f.ThumbnailPath).Warn("failed to remove stored thumbnail")
		}
	}
}

func (s *service) Delete(ctx context.Context, id string) error {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeBlobs(ctx, f)
	return nil
}

func (s *service) Get(ctx context.Context, id string) (*File, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) open(ctx context.Context, f *File, path string) (io.ReadCloser, error) {
	stream, err := s.storage.Get(ctx, path)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			s.log.WithField("file_id", f.ID).Warn("file metadata exists but content is missing")
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve file from storage: %w", err)
	}
	return stream, nil
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *File, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	stream, err := s.open(ctx, f, f.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return stream, f, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *File, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if f.ThumbnailPath == nil {
		return nil, nil, ErrNoThumbnail
	}
	stream, err := s.open(ctx, f, *f.ThumbnailPath)
	if err != nil {
		return nil, nil, err
	}
	return stream, f, nil
}
