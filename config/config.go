// Package config provides configuration loading and access for the
// simulator.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Sim       SimConfig       `yaml:"sim"`
	Fluid     FluidConfig     `yaml:"fluid"`
	Container ContainerConfig `yaml:"container"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SimConfig holds stepping parameters.
type SimConfig struct {
	ParticleCount int     `yaml:"particle_count"`
	DT            float64 `yaml:"dt"`             // seconds per tick
	StepsPerFrame int     `yaml:"steps_per_frame"`
}

// FluidConfig holds the SPH solver parameters.
type FluidConfig struct {
	Gravity                float64 `yaml:"gravity"`
	SmoothingRadius        float64 `yaml:"smoothing_radius"`
	TargetDensity          float64 `yaml:"target_density"`
	PressureMultiplier     float64 `yaml:"pressure_multiplier"`
	NearPressureMultiplier float64 `yaml:"near_pressure_multiplier"`
	ViscosityStrength      float64 `yaml:"viscosity_strength"`
	CollisionDamping       float64 `yaml:"collision_damping"`
}

// ContainerConfig describes the collision box.
type ContainerConfig struct {
	Center      [3]float64 `yaml:"center"`
	HalfExtents [3]float64 `yaml:"half_extents"`
	TiltDeg     float64    `yaml:"tilt_deg"`  // rotation about tilt_axis
	TiltAxis    [3]float64 `yaml:"tilt_axis"`
}

// SpawnConfig describes the initial particle lattice.
type SpawnConfig struct {
	Center [3]float64 `yaml:"center"`
	Size   [3]float64 `yaml:"size"`
	Jitter float64    `yaml:"jitter"` // noise displacement as a fraction of spacing
}

// TelemetryConfig holds stats collection settings.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // ticks per stats record
	LogEvery    int `yaml:"log_every"`    // ticks between perf log lines (0 = off)
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	DT32      float32
	ScreenW32 float32
	ScreenH32 float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded
// defaults if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations that would produce NaNs or division
// by zero in the solver. Errors here are fatal at startup.
func (c *Config) Validate() error {
	if c.Sim.ParticleCount <= 0 {
		return fmt.Errorf("config: sim.particle_count must be positive, got %d", c.Sim.ParticleCount)
	}
	if c.Sim.DT <= 0 {
		return fmt.Errorf("config: sim.dt must be positive, got %g", c.Sim.DT)
	}
	if c.Fluid.SmoothingRadius <= 0 {
		return fmt.Errorf("config: fluid.smoothing_radius must be positive, got %g", c.Fluid.SmoothingRadius)
	}
	if c.Fluid.CollisionDamping < 0 || c.Fluid.CollisionDamping > 1 {
		return fmt.Errorf("config: fluid.collision_damping must be in [0,1], got %g", c.Fluid.CollisionDamping)
	}
	for _, e := range c.Container.HalfExtents {
		if e <= 0 {
			return fmt.Errorf("config: container.half_extents must be positive, got %v", c.Container.HalfExtents)
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Sim.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	if c.Sim.StepsPerFrame <= 0 {
		c.Sim.StepsPerFrame = 1
	}
	if c.Telemetry.StatsWindow <= 0 {
		c.Telemetry.StatsWindow = 60
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
