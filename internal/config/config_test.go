package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sandbox3d/internal/spawn"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected defaults to validate, got %v", err)
	}

	p := cfg.PhysicsConfig()
	if p.Gravity.Y != -9.81 {
		t.Errorf("Expected gravity -9.81, got %f", p.Gravity.Y)
	}
	if p.GroundHalfSize.X != 10 || p.GroundHalfSize.Y != 0.1 {
		t.Errorf("Unexpected ground half size %v", p.GroundHalfSize)
	}
	if s := cfg.SpawnConfig(); s.Mode != spawn.ModeBall || s.BallRadius != 0.5 {
		t.Errorf("Unexpected spawn config %+v", s)
	}
	if c := cfg.ChainConfig(); c.SegmentLength != 0.3 || c.Radius != 0.08 {
		t.Errorf("Unexpected chain config %+v", c)
	}
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandbox.yaml")
	writeFile(t, path, `
spawn:
  mode: chain
  ball_radius: 0.25
loop:
  strict_bindings: true
physics:
  gravity: [0, -1.62, 0]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SpawnConfig().Mode != spawn.ModeChain {
		t.Errorf("Expected chain mode, got %s", cfg.Spawn.Mode)
	}
	if cfg.Spawn.BallRadius != 0.25 {
		t.Errorf("Expected ball radius 0.25, got %f", cfg.Spawn.BallRadius)
	}
	if cfg.Spawn.MaxRayDistance != 100 {
		t.Errorf("Expected default ray distance 100, got %f", cfg.Spawn.MaxRayDistance)
	}
	if !cfg.LoopConfig().StrictBindings {
		t.Error("Expected strict bindings")
	}
	if g := cfg.PhysicsConfig().Gravity; g.Y != -1.62 {
		t.Errorf("Expected lunar gravity, got %v", g)
	}
	if cfg.Physics.Substeps != 4 {
		t.Errorf("Expected default substeps 4, got %d", cfg.Physics.Substeps)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero timestep", "physics:\n  timestep: 0\n"},
		{"no substeps", "physics:\n  substeps: 0\n"},
		{"unknown mode", "spawn:\n  mode: cube\n"},
		{"negative radius", "spawn:\n  ball_radius: -1\n"},
		{"segment shorter than caps", "chain:\n  segment_length: 0.1\n  radius: 0.08\n"},
		{"empty window", "window:\n  width: 0\n"},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.yaml")
			writeFile(t, path, tt.body)
			if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	writeFile(t, path, "spawn: [unterminated\n")
	if _, err := Load(path); err == nil {
		t.Error("Expected parse error")
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := DefaultConfig()
	cfg.Window.Title = "saved"
	cfg.Debug.Enabled = true
	cfg.Chain.SegmentLength = 0.5

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *got != *cfg {
		t.Errorf("Expected %+v, got %+v", cfg, got)
	}
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sandbox.yaml")
	writeFile(t, path, "spawn:\n  ball_radius: 0.5\n")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	// unrelated files are ignored
	writeFile(t, filepath.Join(dir, "other.yaml"), "x: 1\n")
	writeFile(t, path, "spawn:\n  ball_radius: 0.75\n")

	deadline := time.After(3 * time.Second)
	for {
		select {
		case cfg := <-w.Configs:
			if cfg.Spawn.BallRadius == 0.75 {
				return
			}
		case err := <-w.Errors:
			t.Fatalf("Unexpected watcher error: %v", err)
		case <-deadline:
			t.Fatal("Timed out waiting for reload")
		}
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandbox.yaml")
	writeFile(t, path, "")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}
	if _, ok := <-w.Configs; ok {
		t.Error("Expected Configs to be closed")
	}
}
