package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxTimeSteps != DefaultMaxTimeSteps {
		t.Fatalf("expected default max_time_steps, got %d", cfg.MaxTimeSteps)
	}
	if len(cfg.Strategies) != 7 {
		t.Fatalf("expected all seven strategies by default, got %v", cfg.Strategies)
	}
	if !cfg.FailureTime.After(cfg.StartTime) || !cfg.ResetTime.After(cfg.FailureTime) {
		t.Fatalf("expected start < failure < reset, got %v %v %v", cfg.StartTime, cfg.FailureTime, cfg.ResetTime)
	}
}

func TestParseFlagsOverrideDefaults(t *testing.T) {
	cfg, err := Parse([]string{"--max_time_steps", "10", "--strategies", "random,ucb1", "--isl_failures"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxTimeSteps != 10 {
		t.Fatalf("expected overridden max_time_steps, got %d", cfg.MaxTimeSteps)
	}
	if len(cfg.Strategies) != 2 || cfg.Strategies[0] != "random" || cfg.Strategies[1] != "ucb1" {
		t.Fatalf("unexpected strategies: %v", cfg.Strategies)
	}
	if !cfg.ISLFailures {
		t.Fatalf("expected isl_failures enabled")
	}
}

func TestParseYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.yaml")
	if err := os.WriteFile(path, []byte("seed: 42\nrepetitions: 5\n"), 0o644); err != nil {
		t.Fatalf("writing overlay: %v", err)
	}

	cfg, err := Parse([]string{"--config", path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Seed != 42 || cfg.Repetitions != 5 {
		t.Fatalf("expected overlay to apply, got seed=%d repetitions=%d", cfg.Seed, cfg.Repetitions)
	}
}
