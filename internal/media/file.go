package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"os/exec"
	"sync"
)

// FileSource decodes stills from a local video file with ffmpeg. Each Seek
// spawns a decode of the nearest frame at the target offset and signals
// Seeked once the picture is in place.
type FileSource struct {
	path    string
	info    Info
	tainted bool

	mu      sync.Mutex
	current float64
	img     image.Image
	decErr  error
	playing bool

	seeked chan struct{}
}

// Open probes path and returns a ready FileSource.
func Open(ctx context.Context, path string) (*FileSource, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("video file does not exist at path: '%s'", path)
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("ffmpeg not found in $PATH: %w", err)
	}

	info, err := Probe(ctx, path)
	if err != nil {
		return nil, err
	}

	return &FileSource{
		path:   path,
		info:   info,
		seeked: make(chan struct{}, 1),
	}, nil
}

func (s *FileSource) Ready() bool { return s.info.Duration > 0 }
func (s *FileSource) Duration() float64 { return s.info.Duration }
func (s *FileSource) Bounds() (int, int) { return s.info.Width, s.info.Height }
func (s *FileSource) Tainted() bool { return s.tainted }
func (s *FileSource) Seeked() <-chan struct{} { return s.seeked }

func (s *FileSource) CurrentTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *FileSource) Play() {
	s.mu.Lock()
	s.playing = true
	s.mu.Unlock()
}

func (s *FileSource) Pause() {
	s.mu.Lock()
	s.playing = false
	s.mu.Unlock()
}

// Seek decodes the frame at t on a background goroutine. The completion
// signal is dropped rather than queued if nobody consumed the previous
// one, which is why callers wait with a timeout.
func (s *FileSource) Seek(t float64) {
	go func() {
		img, err := s.decodeAt(t)

		s.mu.Lock()
		s.current = t
		s.img = img
		s.decErr = err
		s.mu.Unlock()

		select {
		case s.seeked <- struct{}{}:
		default:
		}
	}()
}

// Frame returns the picture decoded by the last completed seek.
func (s *FileSource) Frame() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.decErr != nil {
		return nil, s.decErr
	}
	if s.img == nil {
		return nil, fmt.Errorf("no frame decoded yet for '%s'", s.path)
	}
	return s.img, nil
}

func (s *FileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.img = nil
	return nil
}

func (s *FileSource) decodeAt(t float64) (image.Image, error) {
	cmd := exec.Command("ffmpeg",
		"-ss", fmt.Sprintf("%.3f", t),
		"-i", s.path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-",
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg decode at %.3fs failed: %w\nOutput: %s", t, err, stderr.String())
	}

	img, err := jpeg.Decode(bytes.NewReader(output))
	if err != nil {
		return nil, fmt.Errorf("error decoding frame at %.3fs: %w", t, err)
	}
	return img, nil
}
