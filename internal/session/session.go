// Package session owns the candidate and curated frame sets for one
// video and coordinates the auto-select pipeline over them.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/garyaschafer/vid-handout/internal/capture"
	"github.com/garyaschafer/vid-handout/internal/frame"
	"github.com/garyaschafer/vid-handout/internal/media"
	"github.com/garyaschafer/vid-handout/internal/scan"
	"github.com/garyaschafer/vid-handout/internal/selector"
)

// ErrScanDeclined means the caller's confirmation hook rejected a scan
// that would have discarded existing curated frames.
var ErrScanDeclined = errors.New("scan declined: curated frames would be discarded")

// ErrScanInProgress guards the shared video source and drawing surface:
// only one scan may own them, and manual captures are refused meanwhile.
var ErrScanInProgress = errors.New("a scan is already in progress")

// Session holds the frame sets a user is working on. Candidates are the
// raw output of the last sampling pass; the curated set is what the
// handout is generated from.
type Session struct {
	mu        sync.Mutex
	candidate *frame.Set
	curated   *frame.Set
	scanning  bool
}

// New returns an empty session.
func New() *Session {
	return &Session{
		candidate: frame.NewSet(),
		curated:   frame.NewSet(),
	}
}

// Candidates returns the current candidate frames in order.
func (s *Session) Candidates() []frame.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.candidate.Frames()
}

// Curated returns the current curated frames in order.
func (s *Session) Curated() []frame.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.curated.Frames()
}

// Scanning reports whether an auto-scan currently owns the source.
func (s *Session) Scanning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scanning
}

// ManualCapture grabs one frame at the source's current position and
// inserts it into the curated set. Unlike scan captures, a failure here
// is not recoverable by skipping; it is returned for the user to see.
// The lock is held across the capture itself, so a scan cannot take the
// source and surface mid-capture.
func (s *Session) ManualCapture(ex *capture.Extractor, src media.Source) (frame.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scanning {
		return frame.Frame{}, ErrScanInProgress
	}

	f, err := ex.Capture(src)
	if err != nil {
		return frame.Frame{}, err
	}

	s.curated.Insert(f)
	return f, nil
}

// AddCurated inserts a manually captured frame at its chronological
// position. Refused while a scan owns the source.
func (s *Session) AddCurated(f frame.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scanning {
		return ErrScanInProgress
	}
	s.curated.Insert(f)
	return nil
}

// RemoveCurated deletes a curated frame by id without reordering the
// remaining entries.
func (s *Session) RemoveCurated(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.curated.Remove(id)
}

// AutoSelect runs the full pipeline: sample candidates, rank them, and
// replace the curated set with the selection. Starting a scan discards
// any existing curated frames, so confirm is consulted first when there
// is something to lose; a nil confirm only permits non-destructive runs.
// On any failure the session keeps its previous state.
func (s *Session) AutoSelect(ctx context.Context, sched *scan.Scheduler, src media.Source, r selector.Ranker, confirm func() bool) error {
	s.mu.Lock()
	if s.scanning {
		s.mu.Unlock()
		return ErrScanInProgress
	}
	destructive := s.curated.Len() > 0
	s.mu.Unlock()

	if destructive && (confirm == nil || !confirm()) {
		return ErrScanDeclined
	}

	s.setScanning(true)
	defer s.setScanning(false)

	candidates, err := sched.Run(ctx, src)
	if err != nil {
		return err
	}

	curated, err := selector.Select(ctx, r, candidates)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidate.Replace(candidates)
	s.curated.Replace(curated)
	return nil
}

// ApplySelection replaces the curated set with the given frames exactly
// as ordered; selection responses are not re-sorted.
func (s *Session) ApplySelection(curated []frame.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.curated.Replace(curated)
}

func (s *Session) setScanning(v bool) {
	s.mu.Lock()
	s.scanning = v
	s.mu.Unlock()
}
