package session

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/garyaschafer/vid-handout/internal/capture"
	"github.com/garyaschafer/vid-handout/internal/frame"
	"github.com/garyaschafer/vid-handout/internal/scan"
	"github.com/garyaschafer/vid-handout/internal/selector"
)

type okSource struct {
	duration float64
	fail     bool
	current  float64
	seeked   chan struct{}
}

func newOkSource(duration float64) *okSource {
	return &okSource{duration: duration, seeked: make(chan struct{}, 1)}
}

func (s *okSource) Ready() bool { return true }
func (s *okSource) Duration() float64 { return s.duration }
func (s *okSource) CurrentTime() float64 { return s.current }
func (s *okSource) Play() {}
func (s *okSource) Pause() {}
func (s *okSource) Bounds() (int, int) { return 2, 2 }
func (s *okSource) Tainted() bool { return false }
func (s *okSource) Close() error { return nil }
func (s *okSource) Seeked() <-chan struct{} { return s.seeked }

func (s *okSource) Seek(t float64) {
	s.current = t
	select {
	case s.seeked <- struct{}{}:
	default:
	}
}

func (s *okSource) Frame() (image.Image, error) {
	if s.fail {
		return nil, errors.New("decode failed")
	}
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{A: 255})
	return img, nil
}

type recordingRanker struct {
	indices []int
	called  bool
}

func (r *recordingRanker) SelectFrames(context.Context, [][]byte) ([]int, error) {
	r.called = true
	return r.indices, nil
}

func fastScheduler() *scan.Scheduler {
	return scan.New(capture.NewExtractor(capture.NewRasterSurface()), scan.Config{
		SeekTimeout: 20 * time.Millisecond,
		SettleDelay: time.Millisecond,
	})
}

func TestAutoSelectFillsCandidateAndCuratedSets(t *testing.T) {
	s := New()
	ranker := &recordingRanker{indices: []int{0, 4, 8, 11}}

	err := s.AutoSelect(context.Background(), fastScheduler(), newOkSource(130), ranker, nil)
	if err != nil {
		t.Fatalf("AutoSelect: %v", err)
	}
	if got := len(s.Candidates()); got != scan.Steps {
		t.Errorf("candidates = %d, want %d", got, scan.Steps)
	}
	if got := len(s.Curated()); got != 4 {
		t.Errorf("curated = %d, want 4", got)
	}
}

func TestAutoSelectConfirmGate(t *testing.T) {
	s := New()
	if err := s.AddCurated(frame.New(nil, 3)); err != nil {
		t.Fatal(err)
	}

	// Declined: nothing changes.
	err := s.AutoSelect(context.Background(), fastScheduler(), newOkSource(130),
		&recordingRanker{indices: []int{0}}, func() bool { return false })
	if !errors.Is(err, ErrScanDeclined) {
		t.Fatalf("err = %v, want ErrScanDeclined", err)
	}
	if len(s.Curated()) != 1 {
		t.Fatalf("curated set changed after declined scan")
	}

	// Confirmed: the old curated set is discarded.
	err = s.AutoSelect(context.Background(), fastScheduler(), newOkSource(130),
		&recordingRanker{indices: []int{2, 5}}, func() bool { return true })
	if err != nil {
		t.Fatalf("AutoSelect: %v", err)
	}
	if len(s.Curated()) != 2 {
		t.Fatalf("curated = %d, want 2", len(s.Curated()))
	}
}

func TestAutoSelectTotalScanFailureSkipsRanker(t *testing.T) {
	s := New()
	src := newOkSource(130)
	src.fail = true
	ranker := &recordingRanker{indices: []int{0}}

	err := s.AutoSelect(context.Background(), fastScheduler(), src, ranker, nil)
	if !errors.Is(err, scan.ErrNoFramesCaptured) {
		t.Fatalf("err = %v, want scan.ErrNoFramesCaptured", err)
	}
	if ranker.called {
		t.Error("ranker was called despite a failed scan")
	}
	if len(s.Candidates()) != 0 || len(s.Curated()) != 0 {
		t.Error("session state changed after a failed scan")
	}
}

func TestAutoSelectSelectionFailureKeepsPreviousState(t *testing.T) {
	s := New()
	err := s.AutoSelect(context.Background(), fastScheduler(), newOkSource(130),
		&recordingRanker{indices: []int{99}}, nil)
	if !errors.Is(err, selector.ErrSelectionFailed) {
		t.Fatalf("err = %v, want selector.ErrSelectionFailed", err)
	}
	if len(s.Candidates()) != 0 {
		t.Error("candidates adopted despite selection failure")
	}
}

func TestManualEditsPreserveOrder(t *testing.T) {
	s := New()
	early := frame.New(nil, 5)
	mid := frame.New(nil, 20)
	late := frame.New(nil, 40)
	for _, f := range []frame.Frame{mid, late} {
		if err := s.AddCurated(f); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.AddCurated(early); err != nil {
		t.Fatal(err)
	}

	got := s.Curated()
	want := []string{early.ID, mid.ID, late.ID}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("curated order = %v, want chronological insert", timestamps(got))
		}
	}

	if !s.RemoveCurated(mid.ID) {
		t.Fatal("RemoveCurated returned false")
	}
	got = s.Curated()
	if got[0].ID != early.ID || got[1].ID != late.ID {
		t.Fatalf("unaffected entries reordered: %v", timestamps(got))
	}
}

func TestManualCapture(t *testing.T) {
	s := New()
	ex := capture.NewExtractor(capture.NewRasterSurface())

	src := newOkSource(130)
	src.current = 42

	f, err := s.ManualCapture(ex, src)
	if err != nil {
		t.Fatalf("ManualCapture: %v", err)
	}
	if f.Timestamp != 42 {
		t.Errorf("Timestamp = %v, want 42", f.Timestamp)
	}
	if len(s.Curated()) != 1 {
		t.Fatalf("curated = %d, want 1", len(s.Curated()))
	}

	// A failed manual capture is surfaced, not skipped.
	src.fail = true
	if _, err := s.ManualCapture(ex, src); err == nil {
		t.Fatal("expected a manual capture failure to propagate")
	}
	if len(s.Curated()) != 1 {
		t.Errorf("curated = %d after failed capture, want 1", len(s.Curated()))
	}
}

// gatedSource blocks its first seek until the gate closes, holding a
// scan mid-flight.
type gatedSource struct {
	*okSource
	gate chan struct{}
}

func (s *gatedSource) Seek(t float64) {
	<-s.gate
	s.okSource.Seek(t)
}

func TestManualCaptureRefusedDuringScan(t *testing.T) {
	s := New()
	ex := capture.NewExtractor(capture.NewRasterSurface())
	src := &gatedSource{okSource: newOkSource(130), gate: make(chan struct{})}

	done := make(chan error, 1)
	go func() {
		done <- s.AutoSelect(context.Background(), fastScheduler(), src,
			&recordingRanker{indices: []int{0}}, nil)
	}()

	deadline := time.After(time.Second)
	for !s.Scanning() {
		select {
		case <-deadline:
			t.Fatal("scan never took ownership")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if _, err := s.ManualCapture(ex, src.okSource); !errors.Is(err, ErrScanInProgress) {
		t.Fatalf("err = %v, want ErrScanInProgress", err)
	}

	close(src.gate)
	if err := <-done; err != nil {
		t.Fatalf("AutoSelect: %v", err)
	}
}

func timestamps(frames []frame.Frame) []float64 {
	ts := make([]float64, len(frames))
	for i, f := range frames {
		ts[i] = f.Timestamp
	}
	return ts
}
