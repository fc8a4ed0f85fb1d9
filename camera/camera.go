// Package camera provides an orbit camera for viewing the simulation.
package camera

import "math"

// Camera orbits a target point at a distance, described by yaw and
// pitch angles. All math is pure so it can be tested without a window;
// the renderer converts Eye/Target into its own camera type.
type Camera struct {
	// Target is the point the camera looks at.
	TargetX, TargetY, TargetZ float64

	// Yaw rotates around the vertical axis, pitch tilts up/down.
	Yaw, Pitch float64

	// Distance from the target.
	Distance float64

	// Constraints
	MinDistance, MaxDistance float64
	MaxPitch                 float64
}

// New creates a camera orbiting the given target.
func New(targetX, targetY, targetZ, distance float64) *Camera {
	return &Camera{
		TargetX:     targetX,
		TargetY:     targetY,
		TargetZ:     targetZ,
		Yaw:         math.Pi / 4,
		Pitch:       0.5,
		Distance:    distance,
		MinDistance: 0.5,
		MaxDistance: distance * 10,
		MaxPitch:    math.Pi/2 - 0.05,
	}
}

// Eye returns the camera position in world space.
func (c *Camera) Eye() (x, y, z float64) {
	horiz := c.Distance * math.Cos(c.Pitch)
	x = c.TargetX + horiz*math.Sin(c.Yaw)
	y = c.TargetY + c.Distance*math.Sin(c.Pitch)
	z = c.TargetZ + horiz*math.Cos(c.Yaw)
	return x, y, z
}

// Orbit adjusts yaw and pitch, clamping pitch so the camera never
// flips over the pole.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw += dYaw
	for c.Yaw > math.Pi {
		c.Yaw -= 2 * math.Pi
	}
	for c.Yaw < -math.Pi {
		c.Yaw += 2 * math.Pi
	}

	c.Pitch += dPitch
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	} else if c.Pitch < -c.MaxPitch {
		c.Pitch = -c.MaxPitch
	}
}

// Zoom moves the camera along the view ray. Positive delta zooms in.
func (c *Camera) Zoom(delta float64) {
	c.Distance -= delta
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	} else if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}
