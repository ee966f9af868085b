package selector

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// LocalRanker selects frames in-process by perceptual color difference:
// each frame gets a dominant-color signature, and the frames that differ
// most from their predecessor are kept as step boundaries. It is the
// offline alternative to the vision-model ranker.
type LocalRanker struct {
	// SamplePixels caps how many pixels per frame feed the signature.
	SamplePixels int
}

// NewLocalRanker returns a ranker with a reasonable sampling budget.
func NewLocalRanker() *LocalRanker {
	return &LocalRanker{SamplePixels: 4096}
}

// SelectFrames implements Ranker. With MaxFrames or fewer candidates every
// index is kept; otherwise the MaxFrames largest scene changes win. The
// returned indices are ascending, preserving chronological order.
func (r *LocalRanker) SelectFrames(ctx context.Context, images [][]byte) ([]int, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("no candidate images")
	}

	if len(images) <= MaxFrames {
		indices := make([]int, len(images))
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}

	signatures := make([]colorful.Color, len(images))
	for i, data := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sig, err := r.signature(data)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		signatures[i] = sig
	}

	// Change score: perceptual distance from the previous frame. The
	// first frame anchors the sequence and always wins.
	type scored struct {
		index int
		score float64
	}
	changes := make([]scored, len(images))
	changes[0] = scored{index: 0, score: float64(1 << 30)}
	for i := 1; i < len(images); i++ {
		changes[i] = scored{index: i, score: signatures[i].DistanceLab(signatures[i-1])}
	}

	sort.Slice(changes, func(a, b int) bool { return changes[a].score > changes[b].score })
	keep := changes[:MaxFrames]

	indices := make([]int, len(keep))
	for i, c := range keep {
		indices[i] = c.index
	}
	sort.Ints(indices)
	return indices, nil
}

// signature averages a pixel sample into a single representative color.
func (r *LocalRanker) signature(data []byte) (colorful.Color, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return colorful.Color{}, fmt.Errorf("decode failed: %w", err)
	}

	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return colorful.Color{}, fmt.Errorf("empty image")
	}

	stride := 1
	if r.SamplePixels > 0 && total > r.SamplePixels {
		stride = total / r.SamplePixels
	}

	var sumR, sumG, sumB float64
	var count int
	for i := 0; i < total; i += stride {
		x := bounds.Min.X + i%bounds.Dx()
		y := bounds.Min.Y + i/bounds.Dx()
		cr, cg, cb, _ := img.At(x, y).RGBA()
		sumR += float64(cr) / 65535.0
		sumG += float64(cg) / 65535.0
		sumB += float64(cb) / 65535.0
		count++
	}

	return colorful.Color{
		R: sumR / float64(count),
		G: sumG / float64(count),
		B: sumB / float64(count),
	}, nil
}
