// Package capture turns the current picture of a video source into a
// timestamped JPEG frame record.
package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
)

// Surface is the shared drawing target a capture renders through. It must
// be resized to the video's native dimensions before each draw; stale
// dimensions corrupt the image.
type Surface interface {
	Resize(width, height int)
	Draw(img image.Image)
	EncodeJPEG(quality int) ([]byte, error)
}

// RasterSurface is an RGBA pixel buffer implementing Surface.
type RasterSurface struct {
	buf *image.RGBA
}

// NewRasterSurface returns an empty surface; callers resize before use.
func NewRasterSurface() *RasterSurface {
	return &RasterSurface{buf: image.NewRGBA(image.Rect(0, 0, 0, 0))}
}

func (s *RasterSurface) Resize(width, height int) {
	if b := s.buf.Bounds(); b.Dx() == width && b.Dy() == height {
		return
	}
	s.buf = image.NewRGBA(image.Rect(0, 0, width, height))
}

func (s *RasterSurface) Draw(img image.Image) {
	draw.Draw(s.buf, s.buf.Bounds(), img, img.Bounds().Min, draw.Src)
}

func (s *RasterSurface) EncodeJPEG(quality int) ([]byte, error) {
	var out bytes.Buffer
	if err := jpeg.Encode(&out, s.buf, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}
	return out.Bytes(), nil
}
