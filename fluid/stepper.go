package fluid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Phase names, in execution order, for per-phase instrumentation.
const (
	PhasePredict   = "predict"
	PhaseGrid      = "grid"
	PhaseDensity   = "density"
	PhasePressure  = "pressure"
	PhaseViscosity = "viscosity"
	PhaseIntegrate = "integrate"
	PhaseCollide   = "collide"
)

// predictionSubstep is the fixed lookahead used to compute predicted
// positions for the neighbor index. A fixed 1/120 s is used regardless
// of the actual step size so that simulation stiffness does not vary
// with frame rate.
const predictionSubstep = 1.0 / 120.0

// densityEpsilon is the floor applied to densities before dividing, so
// an isolated degenerate sample cannot produce infinities.
const densityEpsilon = 1e-9

// Params are the per-step solver parameters. They may change between
// steps (live tuning) but must stay valid per Validate.
type Params struct {
	Gravity                float64
	SmoothingRadius        float64
	TargetDensity          float64
	PressureMultiplier     float64
	NearPressureMultiplier float64
	ViscosityStrength      float64
	CollisionDamping       float64
	Container              Box
}

// Validate reports the first configuration error. Invalid parameters
// must be rejected at setup rather than surfacing later as NaNs.
func (p Params) Validate() error {
	if p.SmoothingRadius <= 0 {
		return fmt.Errorf("fluid: smoothing radius must be positive, got %g", p.SmoothingRadius)
	}
	if p.CollisionDamping < 0 || p.CollisionDamping > 1 {
		return fmt.Errorf("fluid: collision damping must be in [0,1], got %g", p.CollisionDamping)
	}
	if p.Container.Half.X <= 0 || p.Container.Half.Y <= 0 || p.Container.Half.Z <= 0 {
		return fmt.Errorf("fluid: container half extents must be positive, got %+v", p.Container.Half)
	}
	return nil
}

// PhaseHook is called at the start of each step phase, in order.
type PhaseHook func(phase string)

// degenerateDirs is the discrete fallback set used when two particles
// coincide exactly and no pressure direction exists. The pick is a
// hash of the pair indices, so runs are reproducible.
var degenerateDirs = [6]r3.Vec{
	{Y: -1}, {Y: 1}, {X: -1}, {X: 1}, {Z: -1}, {Z: 1},
}

func fallbackDir(i, j int32) r3.Vec {
	return degenerateDirs[(uint32(i)*2654435761+uint32(j))%6]
}

// stepScratch holds per-worker reusable buffers for neighbor queries.
type stepScratch struct {
	candidates []int32
}

// Stepper advances a ParticleSet one step at a time. All state is
// allocated at construction for a fixed particle count; Step performs
// no allocation in steady state.
type Stepper struct {
	particles *ParticleSet
	grid      *SpatialHash
	pool      *workerPool
	scratches []stepScratch

	// viscosity deltas are staged per particle and applied in a second
	// pass, so the viscosity phase never reads a velocity another
	// worker is concurrently writing.
	viscDeltas []r3.Vec

	// OnPhase, when set, is invoked at the start of every phase.
	OnPhase PhaseHook
}

// NewStepper allocates a stepper for n particles.
func NewStepper(n int) (*Stepper, error) {
	ps, err := NewParticleSet(n)
	if err != nil {
		return nil, err
	}
	pool := newWorkerPool()
	scratches := make([]stepScratch, pool.numWorkers)
	for i := range scratches {
		scratches[i].candidates = make([]int32, 0, 128)
	}
	return &Stepper{
		particles:  ps,
		grid:       NewSpatialHash(n),
		pool:       pool,
		scratches:  scratches,
		viscDeltas: make([]r3.Vec, n),
	}, nil
}

// Particles exposes the simulation state for spawning and rendering.
func (s *Stepper) Particles() *ParticleSet {
	return s.particles
}

// Close stops the worker pool. The stepper must not be used afterward.
func (s *Stepper) Close() {
	s.pool.stop()
}

func (s *Stepper) phase(name string) {
	if s.OnPhase != nil {
		s.OnPhase(name)
	}
}

// Step advances the simulation by dt. The seven phases run in strict
// order with a full barrier between them: every phase reads only state
// committed by earlier phases, and each worker writes only its own
// particles' slots.
func (s *Stepper) Step(dt float64, p Params) {
	n := s.particles.Len()

	s.phase(PhasePredict)
	s.pool.forEach(n, func(_, start, end int) {
		s.predictRange(start, end, dt, p)
	})

	s.phase(PhaseGrid)
	s.grid.Rebuild(s.particles.Predicted, p.SmoothingRadius)

	s.phase(PhaseDensity)
	s.pool.forEach(n, func(worker, start, end int) {
		s.densityRange(&s.scratches[worker], start, end, p)
	})

	s.phase(PhasePressure)
	s.pool.forEach(n, func(worker, start, end int) {
		s.pressureRange(&s.scratches[worker], start, end, dt, p)
	})

	if p.ViscosityStrength > 0 {
		s.phase(PhaseViscosity)
		s.pool.forEach(n, func(worker, start, end int) {
			s.viscosityRange(&s.scratches[worker], start, end, p)
		})
		s.pool.forEach(n, func(_, start, end int) {
			for i := start; i < end; i++ {
				s.particles.Velocities[i] = r3.Add(s.particles.Velocities[i],
					r3.Scale(p.ViscosityStrength*dt, s.viscDeltas[i]))
			}
		})
	}

	s.phase(PhaseIntegrate)
	s.pool.forEach(n, func(_, start, end int) {
		for i := start; i < end; i++ {
			s.particles.Positions[i] = r3.Add(s.particles.Positions[i],
				r3.Scale(dt, s.particles.Velocities[i]))
		}
	})

	s.phase(PhaseCollide)
	s.pool.forEach(n, func(_, start, end int) {
		for i := start; i < end; i++ {
			s.particles.Positions[i], s.particles.Velocities[i] = p.Container.Resolve(
				s.particles.Positions[i], s.particles.Velocities[i], p.CollisionDamping)
		}
	})
}

// predictRange applies gravity and computes the lookahead positions
// the neighbor index is built against.
func (s *Stepper) predictRange(start, end int, dt float64, p Params) {
	ps := s.particles
	for i := start; i < end; i++ {
		ps.Velocities[i].Y -= p.Gravity * dt
		ps.Predicted[i] = r3.Add(ps.Positions[i], r3.Scale(predictionSubstep, ps.Velocities[i]))
	}
}

// densityRange sums kernel-weighted contributions from all candidates
// within the smoothing radius, including the particle itself.
func (s *Stepper) densityRange(scratch *stepScratch, start, end int, p Params) {
	ps := s.particles
	h := p.SmoothingRadius
	hSq := h * h

	for i := start; i < end; i++ {
		pt := ps.Predicted[i]
		scratch.candidates = s.grid.QueryInto(scratch.candidates[:0], pt)

		var density, nearDensity float64
		for _, j := range scratch.candidates {
			distSq := r3.Norm2(r3.Sub(ps.Predicted[j], pt))
			if distSq > hSq {
				continue
			}
			dist := math.Sqrt(distSq)
			density += KernelDensity.Weight(dist, h)
			nearDensity += KernelNearDensity.Weight(dist, h)
		}
		ps.Densities[i] = density
		ps.NearDensities[i] = nearDensity
	}
}

// pressureRange accumulates the pairwise pressure-gradient force for
// each particle and integrates the resulting acceleration. Pairs share
// the arithmetic mean of their independently computed pressures, so
// the force pair is anti-symmetric up to the per-particle density
// sampling. Coincident pairs fall back to a fixed discrete direction;
// that guard avoids a division by zero and carries no physics.
func (s *Stepper) pressureRange(scratch *stepScratch, start, end int, dt float64, p Params) {
	ps := s.particles
	h := p.SmoothingRadius
	hSq := h * h

	for i := start; i < end; i++ {
		pt := ps.Predicted[i]
		pressure := (ps.Densities[i] - p.TargetDensity) * p.PressureMultiplier
		nearPressure := ps.NearDensities[i] * p.NearPressureMultiplier

		scratch.candidates = s.grid.QueryInto(scratch.candidates[:0], pt)

		var force r3.Vec
		for _, j := range scratch.candidates {
			if int(j) == i {
				continue
			}
			offset := r3.Sub(ps.Predicted[j], pt)
			distSq := r3.Norm2(offset)
			if distSq > hSq {
				continue
			}

			dist := math.Sqrt(distSq)
			var dir r3.Vec
			if dist > 0 {
				dir = r3.Scale(1/dist, offset)
			} else {
				dir = fallbackDir(int32(i), j)
			}

			sharedPressure := (pressure + (ps.Densities[j]-p.TargetDensity)*p.PressureMultiplier) / 2
			sharedNearPressure := (nearPressure + ps.NearDensities[j]*p.NearPressureMultiplier) / 2

			density := math.Max(ps.Densities[j], densityEpsilon)
			nearDensity := math.Max(ps.NearDensities[j], densityEpsilon)

			force = r3.Add(force, r3.Scale(
				KernelDensity.Derivative(dist, h)*sharedPressure/density, dir))
			force = r3.Add(force, r3.Scale(
				KernelNearDensity.Derivative(dist, h)*sharedNearPressure/nearDensity, dir))
		}

		accel := r3.Scale(1/math.Max(ps.Densities[i], densityEpsilon), force)
		ps.Velocities[i] = r3.Add(ps.Velocities[i], r3.Scale(dt, accel))
	}
}

// viscosityRange stages per-particle viscosity deltas from the
// velocities committed by the pressure phase. Deltas are applied in a
// separate pass so results cannot depend on processing order.
func (s *Stepper) viscosityRange(scratch *stepScratch, start, end int, p Params) {
	ps := s.particles
	h := p.SmoothingRadius
	hSq := h * h

	for i := start; i < end; i++ {
		pt := ps.Predicted[i]
		scratch.candidates = s.grid.QueryInto(scratch.candidates[:0], pt)

		var delta r3.Vec
		for _, j := range scratch.candidates {
			if int(j) == i {
				continue
			}
			distSq := r3.Norm2(r3.Sub(ps.Predicted[j], pt))
			if distSq > hSq {
				continue
			}
			w := KernelViscosity.Weight(math.Sqrt(distSq), h)
			delta = r3.Add(delta, r3.Scale(w, r3.Sub(ps.Velocities[j], ps.Velocities[i])))
		}
		s.viscDeltas[i] = delta
	}
}
