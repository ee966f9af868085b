package vision

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agent-api/core/agent"

	"github.com/garyaschafer/vid-handout/internal/handout"
)

const handoutSchema = `{
  "title": "string",
  "summary": "string",
  "steps": [
    {
      "stepNumber": 1,
      "title": "string",
      "description": "string",
      "tip": "string (optional)"
    }
  ]
}`

// Generator turns a curated frame sequence into a handout document via
// the vision model. It implements handout.Generator.
type Generator struct {
	agent  *agent.Agent
	logger *slog.Logger
}

// NewGenerator wraps a configured vision agent.
func NewGenerator(a *agent.Agent, logger *slog.Logger) *Generator {
	return &Generator{agent: a, logger: logger}
}

// GenerateHandout submits the ordered images with the output schema and
// strictly parses the reply. A reply that does not match the schema is an
// error, never a partial document.
func (g *Generator) GenerateHandout(ctx context.Context, images [][]byte) (*handout.Document, error) {
	paths, cleanup, err := writeTempImages(images)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	prompt := fmt.Sprintf(
		"These %d images are the key steps of an instructional video, in "+
			"order. Write a printable step-by-step handout: a short title, a "+
			"one-paragraph summary, and one step per distinct action shown. "+
			"Each step gets a number, a short title, a clear description, and "+
			"optionally a practical tip. Respond with only JSON matching this "+
			"schema exactly:\n%s",
		len(images), handoutSchema)

	opts := []agent.RunOptionFunc{agent.WithInput(prompt)}
	for _, p := range paths {
		opts = append(opts, agent.WithImagePath(p))
	}

	response, err := g.agent.Run(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if response == nil || len(response.Messages) == 0 {
		return nil, fmt.Errorf("no response messages received from model")
	}
	content := response.Messages[len(response.Messages)-1].Content

	span, err := extractSpan(content, '{', '}')
	if err != nil {
		return nil, fmt.Errorf("no document found in response: %w", err)
	}
	doc, err := handout.ParseDocument([]byte(span))
	if err != nil {
		return nil, err
	}
	g.logger.Debug("handout generated", "title", doc.Title, "steps", len(doc.Steps))
	return doc, nil
}
