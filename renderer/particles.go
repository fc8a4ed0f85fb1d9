// Package renderer draws the fluid state with raylib.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lagoon-sim/lagoon/camera"
	"github.com/lagoon-sim/lagoon/fluid"
)

// FluidRenderer draws particles as speed-colored spheres plus the
// container wireframe.
type FluidRenderer struct {
	// ParticleRadius is the drawn sphere radius in world units.
	ParticleRadius float32

	// SpeedScale maps speed to the top of the color ramp.
	SpeedScale float64
}

// NewFluidRenderer creates a renderer with display defaults.
func NewFluidRenderer() *FluidRenderer {
	return &FluidRenderer{
		ParticleRadius: 0.02,
		SpeedScale:     3.0,
	}
}

// Camera3D builds the raylib camera from the orbit camera state.
func Camera3D(cam *camera.Camera) rl.Camera3D {
	ex, ey, ez := cam.Eye()
	return rl.Camera3D{
		Position:   rl.NewVector3(float32(ex), float32(ey), float32(ez)),
		Target:     rl.NewVector3(float32(cam.TargetX), float32(cam.TargetY), float32(cam.TargetZ)),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       50,
		Projection: rl.CameraPerspective,
	}
}

// Draw renders all particles. Must be called inside BeginMode3D.
func (r *FluidRenderer) Draw(ps *fluid.ParticleSet) {
	for i := range ps.Positions {
		p := ps.Positions[i]
		v := ps.Velocities[i]
		speed := math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)

		t := speed / r.SpeedScale
		if t > 1 {
			t = 1
		}
		// Slow water is deep blue, fast water fades to white.
		color := rl.NewColor(
			uint8(60+195*t),
			uint8(120+135*t),
			255,
			255,
		)

		rl.DrawSphereEx(
			rl.NewVector3(float32(p.X), float32(p.Y), float32(p.Z)),
			r.ParticleRadius, 6, 6, color)
	}
}

// DrawContainer renders the collision box edges. Must be called inside
// BeginMode3D.
func (r *FluidRenderer) DrawContainer(box fluid.Box) {
	corners := box.Corners()
	// Corner order is (-,-,-) (-,-,+) (-,+,-) (-,+,+) (+,-,-) ...;
	// each edge joins corners differing in exactly one axis bit.
	edges := [12][2]int{
		{0, 1}, {2, 3}, {4, 5}, {6, 7}, // z edges
		{0, 2}, {1, 3}, {4, 6}, {5, 7}, // y edges
		{0, 4}, {1, 5}, {2, 6}, {3, 7}, // x edges
	}
	for _, e := range edges {
		a, b := corners[e[0]], corners[e[1]]
		rl.DrawLine3D(
			rl.NewVector3(float32(a.X), float32(a.Y), float32(a.Z)),
			rl.NewVector3(float32(b.X), float32(b.Y), float32(b.Z)),
			rl.SkyBlue)
	}
}
