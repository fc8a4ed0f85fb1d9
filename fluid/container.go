package fluid

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Box is the convex container particles collide against: an axis
// clamped half-extent box in its own local frame, optionally rotated
// about an axis and translated in world space.
type Box struct {
	Center r3.Vec
	Half   r3.Vec

	rotated bool
	rot     r3.Rotation
	inv     r3.Rotation
}

// NewBox creates an axis-aligned box.
func NewBox(center, half r3.Vec) Box {
	return Box{Center: center, Half: half}
}

// NewRotatedBox creates a box rotated by angle radians about axis.
func NewRotatedBox(center, half r3.Vec, angle float64, axis r3.Vec) Box {
	if angle == 0 || r3.Norm2(axis) == 0 {
		return NewBox(center, half)
	}
	return Box{
		Center:  center,
		Half:    half,
		rotated: true,
		rot:     r3.NewRotation(angle, axis),
		inv:     r3.NewRotation(-angle, axis),
	}
}

// Resolve clamps pos to the box and reflects the clamped velocity
// components, damped by damping in [0,1]. The position and velocity
// are transformed into the box's local frame, clamped per axis, and
// transformed back. Returns the corrected position and velocity.
func (b Box) Resolve(pos, vel r3.Vec, damping float64) (r3.Vec, r3.Vec) {
	local := r3.Sub(pos, b.Center)
	if b.rotated {
		local = b.inv.Rotate(local)
		vel = b.inv.Rotate(vel)
	}

	local.X, vel.X = clampAxis(local.X, vel.X, b.Half.X, damping)
	local.Y, vel.Y = clampAxis(local.Y, vel.Y, b.Half.Y, damping)
	local.Z, vel.Z = clampAxis(local.Z, vel.Z, b.Half.Z, damping)

	if b.rotated {
		local = b.rot.Rotate(local)
		vel = b.rot.Rotate(vel)
	}
	return r3.Add(local, b.Center), vel
}

func clampAxis(p, v, half, damping float64) (float64, float64) {
	if p > half {
		return half, -v * damping
	}
	if p < -half {
		return -half, -v * damping
	}
	return p, v
}

// Corners returns the eight world-space corners, for wireframe drawing.
func (b Box) Corners() [8]r3.Vec {
	var out [8]r3.Vec
	i := 0
	for _, sx := range [2]float64{-1, 1} {
		for _, sy := range [2]float64{-1, 1} {
			for _, sz := range [2]float64{-1, 1} {
				c := r3.Vec{X: sx * b.Half.X, Y: sy * b.Half.Y, Z: sz * b.Half.Z}
				if b.rotated {
					c = b.rot.Rotate(c)
				}
				out[i] = r3.Add(c, b.Center)
				i++
			}
		}
	}
	return out
}
