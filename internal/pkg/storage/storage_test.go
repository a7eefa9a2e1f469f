package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "upload/ab/file.txt", strings.NewReader("hello")))

	rc, err := s.Get(ctx, "upload/ab/file.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, s.Delete(ctx, "upload/ab/file.txt"))
	require.NoError(t, s.Delete(ctx, "upload/ab/file.txt"), "deleting twice is fine")

	_, err = s.Get(ctx, "upload/ab/file.txt")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorage_StaysInsideBase(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	// "../" segments are cleaned relative to the base, never above it.
	require.NoError(t, s.Save(ctx, "../../escape.txt", strings.NewReader("x")))
	rc, err := s.Get(ctx, "escape.txt")
	require.NoError(t, err)
	rc.Close()
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageProcessor(t *testing.T) {
	p := NewImageProcessor()
	raw := pngBytes(t, 800, 400)

	format, size, err := p.Inspect(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Pt(800, 400), size)

	thumb, err := p.GenerateThumbnail(bytes.NewReader(raw), 200, 200)
	require.NoError(t, err)
	cfg, format, err := image.DecodeConfig(thumb)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 200, cfg.Width)
	assert.Equal(t, 100, cfg.Height)

	small, err := p.FitWithin(bytes.NewReader(pngBytes(t, 50, 40)), 1000, 1000)
	require.NoError(t, err)
	cfg, _, err = image.DecodeConfig(small)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Width)

	_, _, err = p.Inspect(strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrNotImage)
}
