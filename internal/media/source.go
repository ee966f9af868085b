// Package media provides the video source capability: readiness, duration,
// asynchronous seeking with a seek-completed notification, and access to the
// current decoded picture.
package media

import "image"

// Source is a seekable video. Seek is asynchronous: callers request a
// position and wait on Seeked for the decode to land. A single Source
// serves one scan at a time; it is not safe for concurrent seeks.
type Source interface {
	// Ready reports whether metadata is loaded and frames can be decoded.
	Ready() bool

	// Duration is the total length in seconds. NaN or Inf when unknown.
	Duration() float64

	// CurrentTime is the playback position of the last completed seek.
	CurrentTime() float64

	// Seek requests an asynchronous reposition to t seconds. Completion is
	// signaled on Seeked; the signal may be lost on some sources, so
	// callers must pair the wait with a timeout.
	Seek(t float64)

	// Seeked delivers one signal per completed seek.
	Seeked() <-chan struct{}

	// Play and Pause control playback state. A scan pauses before seeking
	// so the source state is deterministic.
	Play()
	Pause()

	// Frame returns the currently decoded picture.
	Frame() (image.Image, error)

	// Bounds returns the native pixel dimensions.
	Bounds() (width, height int)

	// Tainted reports whether pixel readback is forbidden for this source
	// (cross-origin media without a permissive policy).
	Tainted() bool

	Close() error
}
