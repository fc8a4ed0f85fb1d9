package sim

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"
)

// spawn fills the particle set with a cubic lattice inside the spawn
// region, displaced by smooth noise so the fluid does not start in a
// perfectly regular (and unstable) grid. The same seed reproduces the
// same initial state.
func (s *Sim) spawn() {
	ps := s.stepper.Particles()
	n := ps.Len()

	perAxis := int(math.Ceil(math.Cbrt(float64(n))))
	sp := s.cfg.Spawn
	spacing := r3.Vec{
		X: sp.Size[0] / float64(perAxis),
		Y: sp.Size[1] / float64(perAxis),
		Z: sp.Size[2] / float64(perAxis),
	}
	origin := r3.Vec{
		X: sp.Center[0] - sp.Size[0]/2 + spacing.X/2,
		Y: sp.Center[1] - sp.Size[1]/2 + spacing.Y/2,
		Z: sp.Center[2] - sp.Size[2]/2 + spacing.Z/2,
	}

	noise := opensimplex.New(s.opts.Seed)
	// Distinct fourth-coordinate planes give three independent jitter
	// channels from one noise instance.
	const noiseFreq = 2.1

	i := 0
	for x := 0; x < perAxis && i < n; x++ {
		for y := 0; y < perAxis && i < n; y++ {
			for z := 0; z < perAxis && i < n; z++ {
				pos := r3.Vec{
					X: origin.X + float64(x)*spacing.X,
					Y: origin.Y + float64(y)*spacing.Y,
					Z: origin.Z + float64(z)*spacing.Z,
				}

				if sp.Jitter > 0 {
					fx := float64(x) * noiseFreq
					fy := float64(y) * noiseFreq
					fz := float64(z) * noiseFreq
					pos.X += noise.Eval4(fx, fy, fz, 0) * sp.Jitter * spacing.X
					pos.Y += noise.Eval4(fx, fy, fz, 17) * sp.Jitter * spacing.Y
					pos.Z += noise.Eval4(fx, fy, fz, 31) * sp.Jitter * spacing.Z
				}

				ps.Positions[i] = pos
				ps.Predicted[i] = pos
				ps.Velocities[i] = r3.Vec{}
				ps.Densities[i] = 0
				ps.NearDensities[i] = 0
				i++
			}
		}
	}

	s.tick = 0
}
