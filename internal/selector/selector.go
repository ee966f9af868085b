// Package selector narrows a candidate frame set down to the subset that
// best represents distinct steps. The ranking capability is an untrusted
// oracle: its indices are validated, never assumed well-formed.
package selector

import (
	"context"
	"errors"

	"github.com/garyaschafer/vid-handout/internal/frame"
)

// MinFrames and MaxFrames bound the selection the ranker is asked for.
// Responses outside the bound are accepted leniently after range
// filtering.
const (
	MinFrames = 4
	MaxFrames = 8
)

// ErrSelectionFailed means the ranking call failed or returned nothing
// usable. Callers must surface it rather than fall back to the full
// candidate set; an ambiguous selection is worse than a reported failure.
var ErrSelectionFailed = errors.New("frame selection failed")

// Ranker picks the candidate indices that best capture distinct steps.
// images is the full candidate set in chronological order; the returned
// indices are zero-based positions into it.
type Ranker interface {
	SelectFrames(ctx context.Context, images [][]byte) ([]int, error)
}

// Curate resolves a ranker's index list against the candidates. Indices
// outside [0, len(candidates)) are silently dropped; the response's given
// order is preserved as-is, not re-sorted.
func Curate(candidates []frame.Frame, indices []int) []frame.Frame {
	curated := make([]frame.Frame, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(candidates) {
			continue
		}
		curated = append(curated, candidates[idx])
	}
	return curated
}

// Select runs the ranker over the candidates and curates the result. A
// failed call or a selection that filters down to nothing yields
// ErrSelectionFailed with the underlying cause attached.
func Select(ctx context.Context, r Ranker, candidates []frame.Frame) ([]frame.Frame, error) {
	images := make([][]byte, len(candidates))
	for i, f := range candidates {
		images[i] = f.Image
	}

	indices, err := r.SelectFrames(ctx, images)
	if err != nil {
		return nil, errors.Join(ErrSelectionFailed, err)
	}

	curated := Curate(candidates, indices)
	if len(curated) == 0 {
		return nil, ErrSelectionFailed
	}
	return curated, nil
}
