package vision

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/agent-api/core/agent"

	"github.com/garyaschafer/vid-handout/internal/selector"
)

// Ranker asks the vision model which candidate frames best represent
// distinct steps. It implements selector.Ranker.
type Ranker struct {
	agent  *agent.Agent
	logger *slog.Logger
}

// NewRanker wraps a configured vision agent.
func NewRanker(a *agent.Agent, logger *slog.Logger) *Ranker {
	return &Ranker{agent: a, logger: logger}
}

// SelectFrames submits every candidate image and parses the returned
// index list. The response is not trusted: range validation happens in
// the selector package.
func (r *Ranker) SelectFrames(ctx context.Context, images [][]byte) ([]int, error) {
	paths, cleanup, err := writeTempImages(images)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	prompt := fmt.Sprintf(
		"These %d images are frames sampled from an instructional video, in "+
			"chronological order. Select between %d and %d frames that show "+
			"visually distinct actions, keeping the original order. Respond "+
			"with only a JSON array of the zero-based indices of the frames "+
			"you selected, e.g. [0,3,7,11].",
		len(images), selector.MinFrames, selector.MaxFrames)

	content, err := r.run(ctx, prompt, paths)
	if err != nil {
		return nil, err
	}

	indices, err := parseIndices(content)
	if err != nil {
		return nil, fmt.Errorf("could not parse selection response: %w", err)
	}
	r.logger.Debug("frame selection received", "indices", indices)
	return indices, nil
}

func (r *Ranker) run(ctx context.Context, prompt string, paths []string) (string, error) {
	opts := []agent.RunOptionFunc{agent.WithInput(prompt)}
	for _, p := range paths {
		opts = append(opts, agent.WithImagePath(p))
	}

	response, err := r.agent.Run(ctx, opts...)
	if err != nil {
		return "", err
	}
	if response == nil || len(response.Messages) == 0 {
		return "", fmt.Errorf("no response messages received from model")
	}
	return response.Messages[len(response.Messages)-1].Content, nil
}

// writeTempImages materializes in-memory JPEGs as files for the
// path-based agent API.
func writeTempImages(images [][]byte) ([]string, func(), error) {
	dir, err := os.MkdirTemp("", "vid-handout-frames")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create temp frame directory: %w", err)
	}
	cleanup := func() { os.RemoveAll(dir) }

	paths := make([]string, len(images))
	for i, data := range images {
		paths[i] = filepath.Join(dir, fmt.Sprintf("frame_%04d.jpg", i+1))
		if err := os.WriteFile(paths[i], data, 0644); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to write frame %d: %w", i+1, err)
		}
	}
	return paths, cleanup, nil
}
