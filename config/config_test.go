package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading embedded defaults: %v", err)
	}

	if cfg.Sim.ParticleCount <= 0 {
		t.Errorf("particle_count = %d, want positive", cfg.Sim.ParticleCount)
	}
	if cfg.Fluid.SmoothingRadius <= 0 {
		t.Errorf("smoothing_radius = %v, want positive", cfg.Fluid.SmoothingRadius)
	}
	if cfg.Derived.DT32 == 0 {
		t.Error("derived DT32 not computed")
	}
	if cfg.Sim.StepsPerFrame < 1 {
		t.Errorf("steps_per_frame = %d, want >= 1", cfg.Sim.StepsPerFrame)
	}
}

func TestLoadUserOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "fluid:\n  gravity: 3.7\nsim:\n  particle_count: 64\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading override: %v", err)
	}

	if cfg.Fluid.Gravity != 3.7 {
		t.Errorf("gravity = %v, want 3.7", cfg.Fluid.Gravity)
	}
	if cfg.Sim.ParticleCount != 64 {
		t.Errorf("particle_count = %v, want 64", cfg.Sim.ParticleCount)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Fluid.SmoothingRadius <= 0 {
		t.Error("smoothing_radius default was lost")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero particles", "sim:\n  particle_count: 0\n"},
		{"negative particles", "sim:\n  particle_count: -3\n"},
		{"zero radius", "fluid:\n  smoothing_radius: 0\n"},
		{"damping out of range", "fluid:\n  collision_damping: 1.5\n"},
		{"zero dt", "sim:\n  dt: 0\n"},
		{"flat container", "container:\n  half_extents: [1.0, 0.0, 1.0]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Fluid.Gravity = 12.5

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if back.Fluid.Gravity != 12.5 {
		t.Errorf("gravity = %v after roundtrip, want 12.5", back.Fluid.Gravity)
	}
}
