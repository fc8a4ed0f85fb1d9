package fluid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestResolveClampAndDamp(t *testing.T) {
	box := NewBox(r3.Vec{}, r3.Vec{X: 0.5, Y: 0.5, Z: 0.5})

	pos, vel := box.Resolve(r3.Vec{X: 0.6}, r3.Vec{X: 1}, 0.9)

	assert.InDelta(t, 0.5, pos.X, 1e-12)
	assert.InDelta(t, -0.9, vel.X, 1e-12)
	assert.Zero(t, pos.Y)
	assert.Zero(t, vel.Y)
}

func TestResolveInsideUntouched(t *testing.T) {
	box := NewBox(r3.Vec{Y: 2}, r3.Vec{X: 1, Y: 1, Z: 1})

	in := r3.Vec{X: 0.3, Y: 2.4, Z: -0.9}
	v := r3.Vec{X: -1, Y: 5, Z: 2}
	pos, vel := box.Resolve(in, v, 0.5)

	assert.Equal(t, in, pos)
	assert.Equal(t, v, vel)
}

func TestResolveAllAxes(t *testing.T) {
	box := NewBox(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1})

	pos, vel := box.Resolve(r3.Vec{X: -2, Y: 3, Z: -1.5}, r3.Vec{X: -1, Y: 1, Z: -1}, 1)

	assert.Equal(t, r3.Vec{X: -1, Y: 1, Z: -1}, pos)
	assert.Equal(t, r3.Vec{X: 1, Y: -1, Z: 1}, vel)
}

func TestResolveRotatedBox(t *testing.T) {
	// Box rotated 90 degrees about Z: the local X axis points along
	// world Y, so a point far along world Y gets clamped by the local
	// X half extent.
	box := NewRotatedBox(r3.Vec{}, r3.Vec{X: 0.5, Y: 2, Z: 2}, math.Pi/2, r3.Vec{Z: 1})

	pos, _ := box.Resolve(r3.Vec{Y: 1.0}, r3.Vec{}, 0.5)
	require.InDelta(t, 0.5, pos.Y, 1e-9)
	require.InDelta(t, 0, pos.X, 1e-9)

	// A point inside the rotated box survives the local round trip.
	in := r3.Vec{X: 0.3, Y: 0.2, Z: 0.1}
	pos, _ = box.Resolve(in, r3.Vec{}, 0.5)
	require.InDelta(t, in.X, pos.X, 1e-9)
	require.InDelta(t, in.Y, pos.Y, 1e-9)
	require.InDelta(t, in.Z, pos.Z, 1e-9)
}

func TestRotatedBoxZeroAngleIsAxisAligned(t *testing.T) {
	a := NewRotatedBox(r3.Vec{X: 1}, r3.Vec{X: 1, Y: 1, Z: 1}, 0, r3.Vec{Y: 1})
	b := NewBox(r3.Vec{X: 1}, r3.Vec{X: 1, Y: 1, Z: 1})

	p := r3.Vec{X: 5, Y: 0.5, Z: -0.5}
	v := r3.Vec{X: 2}
	ap, av := a.Resolve(p, v, 0.8)
	bp, bv := b.Resolve(p, v, 0.8)
	assert.Equal(t, bp, ap)
	assert.Equal(t, bv, av)
}

func TestCorners(t *testing.T) {
	box := NewBox(r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{X: 1, Y: 1, Z: 1})
	for _, c := range box.Corners() {
		assert.InDelta(t, 1, math.Abs(c.X-1), 1e-12)
		assert.InDelta(t, 1, math.Abs(c.Y-2), 1e-12)
		assert.InDelta(t, 1, math.Abs(c.Z-3), 1e-12)
	}
}
