// Package config loads settings from the environment, with an optional
// .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the tool needs at startup.
type Config struct {
	OllamaBaseURL string
	OllamaPort    int
	Model         string

	ScanSteps   int
	SeekTimeout time.Duration
	SettleDelay time.Duration

	// Selector picks the candidate selector: "vision" (model-ranked) or
	// "local" (color-difference).
	Selector string

	LogLevel string
}

// Load reads .env if present, then the environment, filling defaults.
func Load() (Config, error) {
	// Missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	cfg := Config{
		OllamaBaseURL: envOr("OLLAMA_BASE_URL", "http://localhost"),
		Model:         envOr("VISION_MODEL", "llama3.2-vision:11b"),
		Selector:      envOr("FRAME_SELECTOR", "vision"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.OllamaPort, err = envInt("OLLAMA_PORT", 11434); err != nil {
		return Config{}, err
	}
	if cfg.ScanSteps, err = envInt("SCAN_STEPS", 12); err != nil {
		return Config{}, err
	}

	seekMs, err := envInt("SEEK_TIMEOUT_MS", 1500)
	if err != nil {
		return Config{}, err
	}
	settleMs, err := envInt("SETTLE_DELAY_MS", 300)
	if err != nil {
		return Config{}, err
	}
	cfg.SeekTimeout = time.Duration(seekMs) * time.Millisecond
	cfg.SettleDelay = time.Duration(settleMs) * time.Millisecond

	if cfg.Selector != "vision" && cfg.Selector != "local" {
		return Config{}, fmt.Errorf("FRAME_SELECTOR must be 'vision' or 'local', got %q", cfg.Selector)
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}
