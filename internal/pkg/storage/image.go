package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ErrNotImage is returned when content cannot be decoded as a supported image.
var ErrNotImage = errors.New("content is not a supported image")

// ImageProcessor handles image processing like resizing.
type ImageProcessor struct {
	quality int
}

// NewImageProcessor creates a new ImageProcessor that encodes JPEG at quality 80.
func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{quality: 80}
}

// Inspect decodes only the header and returns the format ("jpeg", "png", "webp") and dimensions.
func (p *ImageProcessor) Inspect(content io.Reader) (string, image.Point, error) {
	cfg, format, err := image.DecodeConfig(content)
	if err != nil {
		return "", image.Point{}, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return format, image.Pt(cfg.Width, cfg.Height), nil
}

// GenerateThumbnail creates a JPEG thumbnail that fits within maxWidth x maxHeight.
func (p *ImageProcessor) GenerateThumbnail(content io.Reader, maxWidth, maxHeight int) (io.Reader, error) {
	return p.fit(content, maxWidth, maxHeight, false)
}

// FitWithin downsizes images larger than the bounding box and re-encodes as JPEG.
// Smaller images are re-encoded at their original size.
func (p *ImageProcessor) FitWithin(content io.Reader, maxWidth, maxHeight int) (io.Reader, error) {
	return p.fit(content, maxWidth, maxHeight, true)
}

func (p *ImageProcessor) fit(content io.Reader, maxWidth, maxHeight int, keepSmall bool) (io.Reader, error) {
	img, _, err := image.Decode(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	b := img.Bounds()
	out := img
	if !keepSmall || b.Dx() > maxWidth || b.Dy() > maxHeight {
		out = imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, out, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	return buf, nil
}
