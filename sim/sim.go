// Package sim orchestrates the fluid solver: stepping, pause and
// single-step control, spawning, and telemetry hooks.
package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lagoon-sim/lagoon/config"
	"github.com/lagoon-sim/lagoon/fluid"
	"github.com/lagoon-sim/lagoon/telemetry"
)

// Options are run-level settings from the CLI.
type Options struct {
	Seed      int64
	OutputDir string
	LogStats  bool
}

// Sim owns a stepper and advances it tick by tick. The only mode
// distinction is running vs paused, with a single-step request that
// advances one tick and re-enters paused.
type Sim struct {
	cfg  *config.Config
	opts Options

	stepper *fluid.Stepper
	params  fluid.Params

	perf   *telemetry.PerfCollector
	stats  *telemetry.StatsCollector
	output *telemetry.OutputManager

	tick          int
	paused        bool
	stepRequested bool
	stepsPerFrame int
}

// New builds a simulation from validated config. Parameter errors are
// fatal here, before any stepping happens.
func New(cfg *config.Config, opts Options) (*Sim, error) {
	stepper, err := fluid.NewStepper(cfg.Sim.ParticleCount)
	if err != nil {
		return nil, err
	}

	params := paramsFromConfig(cfg)
	if err := params.Validate(); err != nil {
		stepper.Close()
		return nil, err
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		stepper.Close()
		return nil, fmt.Errorf("sim: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		stepper.Close()
		output.Close()
		return nil, fmt.Errorf("sim: %w", err)
	}

	s := &Sim{
		cfg:           cfg,
		opts:          opts,
		stepper:       stepper,
		params:        params,
		perf:          telemetry.NewPerfCollector(cfg.Telemetry.StatsWindow),
		stats:         telemetry.NewStatsCollector(cfg.Telemetry.StatsWindow),
		output:        output,
		stepsPerFrame: cfg.Sim.StepsPerFrame,
	}
	s.stepper.OnPhase = s.perf.StartPhase
	s.spawn()
	return s, nil
}

func paramsFromConfig(cfg *config.Config) fluid.Params {
	c := cfg.Container
	box := fluid.NewRotatedBox(
		r3.Vec{X: c.Center[0], Y: c.Center[1], Z: c.Center[2]},
		r3.Vec{X: c.HalfExtents[0], Y: c.HalfExtents[1], Z: c.HalfExtents[2]},
		c.TiltDeg*math.Pi/180,
		r3.Vec{X: c.TiltAxis[0], Y: c.TiltAxis[1], Z: c.TiltAxis[2]},
	)
	return fluid.Params{
		Gravity:                cfg.Fluid.Gravity,
		SmoothingRadius:        cfg.Fluid.SmoothingRadius,
		TargetDensity:          cfg.Fluid.TargetDensity,
		PressureMultiplier:     cfg.Fluid.PressureMultiplier,
		NearPressureMultiplier: cfg.Fluid.NearPressureMultiplier,
		ViscosityStrength:      cfg.Fluid.ViscosityStrength,
		CollisionDamping:       cfg.Fluid.CollisionDamping,
		Container:              box,
	}
}

// Update advances the simulation for one frame: stepsPerFrame ticks
// when running, exactly one tick when a single step was requested
// while paused, nothing otherwise.
func (s *Sim) Update() {
	if s.paused {
		if !s.stepRequested {
			return
		}
		s.stepRequested = false
		s.step()
		return
	}
	for i := 0; i < s.stepsPerFrame; i++ {
		s.step()
	}
}

// step advances exactly one tick and feeds telemetry.
func (s *Sim) step() {
	s.perf.StartTick()
	s.stepper.Step(s.cfg.Sim.DT, s.params)
	s.perf.EndTick()
	s.tick++

	ps := s.stepper.Particles()
	rec, done := s.stats.Record(s.tick, ps.KineticEnergy(), ps.MaxSpeed(), ps.Densities)
	if done {
		if s.opts.LogStats {
			rec.Log()
		}
		if err := s.output.WriteStats(rec); err != nil {
			Logf("stats output: %v", err)
		}
		if err := s.output.WritePerf(s.tick, s.perf); err != nil {
			Logf("perf output: %v", err)
		}
	}

	if every := s.cfg.Telemetry.LogEvery; every > 0 && s.tick%every == 0 {
		s.perf.LogBreakdown(s.tick)
	}
}

// TogglePause flips between running and paused.
func (s *Sim) TogglePause() {
	s.paused = !s.paused
}

// RequestStep asks for exactly one tick while paused. Ignored when
// running.
func (s *Sim) RequestStep() {
	if s.paused {
		s.stepRequested = true
	}
}

// Reset respawns the particle lattice and clears all velocities.
func (s *Sim) Reset() {
	s.spawn()
}

// Paused reports whether the simulation is paused.
func (s *Sim) Paused() bool { return s.paused }

// Tick returns the number of completed ticks.
func (s *Sim) Tick() int { return s.tick }

// Particles exposes simulation state for rendering.
func (s *Sim) Particles() *fluid.ParticleSet { return s.stepper.Particles() }

// Params returns the live solver parameters for UI tuning.
func (s *Sim) Params() *fluid.Params { return &s.params }

// Container returns the collision box for drawing.
func (s *Sim) Container() fluid.Box { return s.params.Container }

// StepsPerFrame returns the current simulation speed.
func (s *Sim) StepsPerFrame() int { return s.stepsPerFrame }

// AdjustSpeed changes how many ticks run per frame, within [1, 10].
func (s *Sim) AdjustSpeed(delta int) {
	s.stepsPerFrame += delta
	if s.stepsPerFrame < 1 {
		s.stepsPerFrame = 1
	} else if s.stepsPerFrame > 10 {
		s.stepsPerFrame = 10
	}
}

// Close releases the worker pool and output files.
func (s *Sim) Close() {
	s.stepper.Close()
	if err := s.output.Close(); err != nil {
		Logf("closing output: %v", err)
	}
}
