package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/storage"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu    sync.Mutex
	files map[string]*File
	fail  error
}

func newMemRepo() *memRepo { return &memRepo{files: map[string]*File{}} }

func (r *memRepo) Create(_ context.Context, f *File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	cp := *f
	r.files[f.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[id]; !ok {
		return ErrNotFound
	}
	delete(r.files, id)
	return nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func formFile(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(10<<20))
	return req.MultipartForm.File["file"][0]
}

func newTestService(t *testing.T) (*service, *memRepo) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := newMemRepo()
	logger, _ := test.NewNullLogger()
	return NewService(repo, store, logger).(*service), repo
}

func TestUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("stores image and thumbnail", func(t *testing.T) {
		s, repo := newTestService(t)

		f, err := s.Upload(ctx, UploadInput{FileHeader: formFile(t, "car.png", pngBytes(t, 640, 480)), UserID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, "image/png", f.ContentType)
		require.NotNil(t, f.ThumbnailPath)
		assert.Contains(t, repo.files, f.ID)

		rc, meta, err := s.DownloadThumbnail(ctx, f.ID)
		require.NoError(t, err)
		defer rc.Close()
		cfg, format, err := image.DecodeConfig(rc)
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, 200, cfg.Width)
		assert.Equal(t, "car.png", meta.Filename)
	})

	t.Run("resize re-encodes as jpeg", func(t *testing.T) {
		s, _ := newTestService(t)

		f, err := s.Upload(ctx, UploadInput{FileHeader: formFile(t, "big.png", pngBytes(t, 2000, 1000)), ResizeImage: true})
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", f.ContentType)

		rc, _, err := s.Download(ctx, f.ID)
		require.NoError(t, err)
		defer rc.Close()
		cfg, _, err := image.DecodeConfig(rc)
		require.NoError(t, err)
		assert.Equal(t, 1000, cfg.Width)
		assert.Equal(t, 500, cfg.Height)
	})

	t.Run("rejects non-images", func(t *testing.T) {
		s, repo := newTestService(t)
		_, err := s.Upload(ctx, UploadInput{FileHeader: formFile(t, "notes.png", []byte("plain text"))})
		assert.ErrorIs(t, err, ErrUnsupportedType)
		assert.Empty(t, repo.files)
	})

	t.Run("rejects disallowed types", func(t *testing.T) {
		s, _ := newTestService(t)
		_, err := s.Upload(ctx, UploadInput{
			FileHeader:   formFile(t, "car.png", pngBytes(t, 10, 10)),
			AllowedTypes: []string{"image/jpeg"},
		})
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("rejects oversized content", func(t *testing.T) {
		s, _ := newTestService(t)
		_, err := s.Upload(ctx, UploadInput{FileHeader: formFile(t, "car.png", pngBytes(t, 64, 64)), MaxSizeBytes: 16})
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("cleans storage when metadata write fails", func(t *testing.T) {
		s, repo := newTestService(t)
		repo.fail = assert.AnError

		_, err := s.Upload(ctx, UploadInput{FileHeader: formFile(t, "car.png", pngBytes(t, 10, 10))})
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	f, err := s.Upload(ctx, UploadInput{FileHeader: formFile(t, "car.png", pngBytes(t, 10, 10))})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, f.ID))
	_, _, err = s.Download(ctx, f.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.storage.Get(ctx, f.StoragePath)
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}
