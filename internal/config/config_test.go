package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OllamaPort != 11434 {
		t.Errorf("OllamaPort = %d, want 11434", cfg.OllamaPort)
	}
	if cfg.ScanSteps != 12 {
		t.Errorf("ScanSteps = %d, want 12", cfg.ScanSteps)
	}
	if cfg.SeekTimeout != 1500*time.Millisecond {
		t.Errorf("SeekTimeout = %v, want 1.5s", cfg.SeekTimeout)
	}
	if cfg.SettleDelay != 300*time.Millisecond {
		t.Errorf("SettleDelay = %v, want 300ms", cfg.SettleDelay)
	}
}

func TestLoadOverridesAndValidation(t *testing.T) {
	t.Setenv("SCAN_STEPS", "6")
	t.Setenv("FRAME_SELECTOR", "local")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ScanSteps != 6 || cfg.Selector != "local" {
		t.Errorf("overrides not applied: %+v", cfg)
	}

	t.Setenv("FRAME_SELECTOR", "random")
	if _, err := Load(); err == nil {
		t.Error("expected an error for an unknown selector")
	}

	t.Setenv("FRAME_SELECTOR", "local")
	t.Setenv("SEEK_TIMEOUT_MS", "soon")
	if _, err := Load(); err == nil {
		t.Error("expected an error for a non-integer timeout")
	}
}
