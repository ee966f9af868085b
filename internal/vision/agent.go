// Package vision binds the ranking and generation capabilities to a local
// Ollama vision model through the agent-api provider.
package vision

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/agent-api/core"
	"github.com/agent-api/core/agent"
	"github.com/agent-api/core/agent/bootstrap"
	"github.com/agent-api/ollama"
	"github.com/go-logr/logr"
)

// Config locates the Ollama instance and model.
type Config struct {
	BaseURL string // e.g. "http://localhost"
	Port    int    // e.g. 11434
	Model   string // e.g. "llama3.2-vision:11b"
}

const systemPrompt = "You are a visual analysis assistant that studies " +
	"instructional video frames and responds with strict JSON only, no " +
	"prose, no markdown fences."

// NewAgent checks that Ollama is reachable and returns a configured
// vision agent.
func NewAgent(ctx context.Context, logger *slog.Logger, cfg Config) (*agent.Agent, error) {
	if err := ping(ctx, fmt.Sprintf("%s:%d/api/tags", cfg.BaseURL, cfg.Port)); err != nil {
		return nil, fmt.Errorf("ollama is not reachable at %s:%d: %w", cfg.BaseURL, cfg.Port, err)
	}

	lgr := logr.FromSlogHandler(logger.Handler())
	provider := ollama.NewProvider(&ollama.ProviderOpts{
		Logger:  &lgr,
		BaseURL: cfg.BaseURL,
		Port:    cfg.Port,
	})
	if err := provider.UseModel(ctx, &core.Model{ID: cfg.Model}); err != nil {
		return nil, fmt.Errorf("failed to set model %q: %w", cfg.Model, err)
	}

	return agent.NewAgent(
		bootstrap.WithProvider(provider),
		bootstrap.WithLogger(&lgr),
		bootstrap.WithSystemPrompt(systemPrompt),
	)
}

func ping(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
