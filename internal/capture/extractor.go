package capture

import (
	"errors"
	"fmt"

	"github.com/garyaschafer/vid-handout/internal/frame"
	"github.com/garyaschafer/vid-handout/internal/media"
)

// ErrTainted means the source forbids pixel readback (cross-origin media
// without a permissive policy). It signals a systemic problem with the
// source, not a one-off bad frame.
var ErrTainted = errors.New("source is tainted: pixel data cannot be read back")

// CaptureError wraps a single-frame capture failure with its timestamp.
type CaptureError struct {
	Timestamp float64
	Err       error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture at %s failed: %v", frame.FormatTimestamp(e.Timestamp), e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }

// JPEGQuality is the fixed encode quality factor (0.8).
const JPEGQuality = 80

// Extractor produces one Frame from a ready, positioned source.
type Extractor struct {
	surface Surface
}

// NewExtractor wraps the shared drawing surface used for every capture.
func NewExtractor(surface Surface) *Extractor {
	return &Extractor{surface: surface}
}

// Capture copies the current visible frame onto the surface, encodes it,
// and mints a Frame stamped with the source's playback position.
func (e *Extractor) Capture(src media.Source) (frame.Frame, error) {
	ts := src.CurrentTime()

	if src.Tainted() {
		return frame.Frame{}, &CaptureError{Timestamp: ts, Err: ErrTainted}
	}

	img, err := src.Frame()
	if err != nil {
		return frame.Frame{}, &CaptureError{Timestamp: ts, Err: err}
	}

	w, h := src.Bounds()
	e.surface.Resize(w, h)
	e.surface.Draw(img)

	data, err := e.surface.EncodeJPEG(JPEGQuality)
	if err != nil {
		return frame.Frame{}, &CaptureError{Timestamp: ts, Err: err}
	}

	return frame.New(data, ts), nil
}
