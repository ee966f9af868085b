package capture

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

type fakeSource struct {
	img     image.Image
	err     error
	current float64
	tainted bool
	w, h    int
}

func (f *fakeSource) Ready() bool { return true }
func (f *fakeSource) Duration() float64 { return 60 }
func (f *fakeSource) CurrentTime() float64 { return f.current }
func (f *fakeSource) Seek(float64) {}
func (f *fakeSource) Seeked() <-chan struct{} { return nil }
func (f *fakeSource) Play() {}
func (f *fakeSource) Pause() {}
func (f *fakeSource) Frame() (image.Image, error) { return f.img, f.err }
func (f *fakeSource) Bounds() (int, int) { return f.w, f.h }
func (f *fakeSource) Tainted() bool { return f.tainted }
func (f *fakeSource) Close() error { return nil }

func solidImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 90, A: 255})
		}
	}
	return img
}

func TestCaptureProducesTimestampedJPEG(t *testing.T) {
	src := &fakeSource{img: solidImage(8, 6), current: 65.4, w: 8, h: 6}
	ex := NewExtractor(NewRasterSurface())

	f, err := ex.Capture(src)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if f.Timestamp != 65.4 {
		t.Errorf("Timestamp = %v, want 65.4", f.Timestamp)
	}
	if f.DisplayTime != "1:05" {
		t.Errorf("DisplayTime = %q, want 1:05", f.DisplayTime)
	}
	if len(f.Image) < 2 || f.Image[0] != 0xFF || f.Image[1] != 0xD8 {
		t.Error("expected JPEG magic bytes at start of encoded image")
	}
}

func TestCaptureTaintedSourceFailsDistinguishably(t *testing.T) {
	src := &fakeSource{img: solidImage(4, 4), current: 10, w: 4, h: 4, tainted: true}
	ex := NewExtractor(NewRasterSurface())

	_, err := ex.Capture(src)
	if err == nil {
		t.Fatal("expected an error for a tainted source")
	}
	if !errors.Is(err, ErrTainted) {
		t.Errorf("error = %v, want errors.Is(err, ErrTainted)", err)
	}
	var ce *CaptureError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %T, want *CaptureError", err)
	}
	if ce.Timestamp != 10 {
		t.Errorf("CaptureError.Timestamp = %v, want 10", ce.Timestamp)
	}
}

func TestCaptureDecodeFailurePropagates(t *testing.T) {
	src := &fakeSource{err: errors.New("no frame decoded"), current: 3, w: 4, h: 4}
	ex := NewExtractor(NewRasterSurface())

	_, err := ex.Capture(src)
	var ce *CaptureError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want *CaptureError", err)
	}
}

func TestRasterSurfaceResizeDropsStaleDimensions(t *testing.T) {
	s := NewRasterSurface()
	s.Resize(16, 9)
	s.Draw(solidImage(16, 9))
	s.Resize(4, 3)
	if b := s.buf.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("bounds after resize = %v, want 4x3", b)
	}
}
