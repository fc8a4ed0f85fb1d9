// Package fluid implements a smoothed-particle hydrodynamics solver:
// a uniform-grid spatial hash for neighbor lookups and a seven-phase
// step pipeline (predict, index rebuild, density, pressure, viscosity,
// integration, collision).
package fluid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ParticleSet holds all per-particle state as parallel slices.
// Index i refers to the same physical particle in every slice.
// All slices are allocated once for a fixed particle count; stepping
// mutates them in place and never grows them.
type ParticleSet struct {
	// Positions is the authoritative particle location.
	Positions []r3.Vec

	// Predicted is the short-lookahead position used only to build the
	// neighbor index and center queries. It is rewritten every step and
	// never carries over.
	Predicted []r3.Vec

	// Velocities are mutated in place by gravity, pressure, viscosity,
	// integration and collision response, in that order, within a step.
	Velocities []r3.Vec

	// Densities and NearDensities are recomputed from scratch every step.
	Densities     []float64
	NearDensities []float64
}

// NewParticleSet allocates state for n particles.
func NewParticleSet(n int) (*ParticleSet, error) {
	if n <= 0 {
		return nil, fmt.Errorf("fluid: particle count must be positive, got %d", n)
	}
	return &ParticleSet{
		Positions:     make([]r3.Vec, n),
		Predicted:     make([]r3.Vec, n),
		Velocities:    make([]r3.Vec, n),
		Densities:     make([]float64, n),
		NearDensities: make([]float64, n),
	}, nil
}

// Len returns the particle count.
func (ps *ParticleSet) Len() int {
	return len(ps.Positions)
}

// KineticEnergy sums 1/2 v^2 over all particles (unit mass).
func (ps *ParticleSet) KineticEnergy() float64 {
	var total float64
	for i := range ps.Velocities {
		total += 0.5 * r3.Norm2(ps.Velocities[i])
	}
	return total
}

// MaxSpeed returns the largest particle speed.
func (ps *ParticleSet) MaxSpeed() float64 {
	var maxSq float64
	for i := range ps.Velocities {
		if sq := r3.Norm2(ps.Velocities[i]); sq > maxSq {
			maxSq = sq
		}
	}
	return math.Sqrt(maxSq)
}
