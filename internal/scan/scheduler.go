package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/garyaschafer/vid-handout/internal/capture"
	"github.com/garyaschafer/vid-handout/internal/frame"
	"github.com/garyaschafer/vid-handout/internal/media"
)

const (
	// DefaultSeekTimeout bounds the wait for a seek-completed signal. Some
	// sources drop the signal, so the wait must resolve either way.
	DefaultSeekTimeout = 1500 * time.Millisecond

	// DefaultSettleDelay lets the decoded frame actually paint after a
	// seek resolves, so the capture doesn't pick up the previous frame.
	DefaultSettleDelay = 300 * time.Millisecond

	// recentDepth bounds the rolling event log.
	recentDepth = 4
)

// ErrNoFramesCaptured means a whole scan produced zero usable frames.
// Distinct from a per-frame capture error: it signals total failure.
var ErrNoFramesCaptured = errors.New("scan captured no frames")

// PreconditionError means the scan never started: the video was not ready
// or its duration was unusable.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string { return e.Reason }

// Progress reports the scan position for live status rendering.
type Progress struct {
	Step  int
	Total int
}

// Config tunes a Scheduler. Zero values take the defaults above.
type Config struct {
	Steps       int
	SeekTimeout time.Duration
	SettleDelay time.Duration
	OnProgress  func(Progress)
	Logger      *slog.Logger
}

// Scheduler owns one sampling pass at a time: the video source and the
// extractor's drawing surface are exclusively its while Run is active.
type Scheduler struct {
	extractor   *capture.Extractor
	steps       int
	seekTimeout time.Duration
	settleDelay time.Duration
	onProgress  func(Progress)
	logger      *slog.Logger

	mu     sync.Mutex
	recent []string
}

// New builds a Scheduler around the given extractor.
func New(extractor *capture.Extractor, cfg Config) *Scheduler {
	if cfg.Steps <= 0 {
		cfg.Steps = Steps
	}
	if cfg.SeekTimeout <= 0 {
		cfg.SeekTimeout = DefaultSeekTimeout
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Scheduler{
		extractor:   extractor,
		steps:       cfg.Steps,
		seekTimeout: cfg.SeekTimeout,
		settleDelay: cfg.SettleDelay,
		onProgress:  cfg.OnProgress,
		logger:      cfg.Logger,
	}
}

// Run samples src at the planned timestamps and returns the captured
// candidate frames in timestamp order. Individual capture failures are
// logged and skipped; a scan with zero captures fails with
// ErrNoFramesCaptured. Cancelling ctx aborts the remaining iterations and
// discards partial results.
func (s *Scheduler) Run(ctx context.Context, src media.Source) ([]frame.Frame, error) {
	if !src.Ready() {
		return nil, &PreconditionError{Reason: "video is not ready yet; wait for it to finish loading"}
	}
	duration := src.Duration()
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
		return nil, &PreconditionError{Reason: "video duration is unknown; cannot plan sample points"}
	}

	plan := Plan(duration, s.steps)
	frames := make([]frame.Frame, 0, len(plan))

	for i, ts := range plan {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s.report(Progress{Step: i + 1, Total: len(plan)})

		// Deterministic source state before repositioning.
		src.Pause()

		// A signal left over from a timed-out wait belongs to an earlier
		// seek; drain it so the wait below answers for this one.
		select {
		case <-src.Seeked():
		default:
		}

		src.Seek(ts)

		if err := s.waitSeeked(ctx, src); err != nil {
			return nil, err
		}
		if err := s.settle(ctx); err != nil {
			return nil, err
		}

		f, err := s.extractor.Capture(src)
		if err != nil {
			s.record(fmt.Sprintf("step %d/%d at %s failed", i+1, len(plan), frame.FormatTimestamp(ts)))
			s.logger.Warn("frame capture failed, skipping",
				"step", i+1, "total", len(plan), "timestamp", ts, "err", err)
			continue
		}

		frames = append(frames, f)
		s.record(fmt.Sprintf("captured %s (%d/%d)", f.DisplayTime, i+1, len(plan)))
		s.logger.Debug("frame captured", "step", i+1, "timestamp", ts)
	}

	if len(frames) == 0 {
		return nil, ErrNoFramesCaptured
	}
	return frames, nil
}

// waitSeeked races the seek-completed signal against a timer. Whichever
// fires first resolves the wait; the timer path covers sources that never
// deliver the signal.
func (s *Scheduler) waitSeeked(ctx context.Context, src media.Source) error {
	timer := time.NewTimer(s.seekTimeout)
	defer timer.Stop()

	select {
	case <-src.Seeked():
		return nil
	case <-timer.C:
		s.logger.Debug("seek signal not delivered, proceeding after timeout")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) settle(ctx context.Context) error {
	timer := time.NewTimer(s.settleDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) report(p Progress) {
	if s.onProgress != nil {
		s.onProgress(p)
	}
}

func (s *Scheduler) record(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = append(s.recent, msg)
	if len(s.recent) > recentDepth {
		s.recent = s.recent[len(s.recent)-recentDepth:]
	}
}

// Recent returns the last few scan events, newest last.
func (s *Scheduler) Recent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.recent...)
}
