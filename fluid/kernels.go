package fluid

import "math"

// KernelKind selects one of the smoothing kernel families. Each family
// maps (distance, radius) to a scalar weight, with derivatives taken
// with respect to distance. All weights are normalized so the kernel
// integrates to one over the 3-D support sphere.
//
// Every family clips to zero at distance >= radius. The neighbor
// index's 27-cell candidate set is an over-approximation, not a radius
// cutoff, so the kernels cannot rely on it for compact support.
type KernelKind uint8

const (
	// KernelDensity is the main density kernel, (radius-dist)^2.
	KernelDensity KernelKind = iota
	// KernelNearDensity is the short-range repulsion kernel, (radius-dist)^3.
	KernelNearDensity
	// KernelViscosity blends neighbor velocities, (radius^2-dist^2)^3.
	KernelViscosity
)

// Weight evaluates the kernel at the given distance.
func (k KernelKind) Weight(dist, radius float64) float64 {
	switch k {
	case KernelDensity:
		return SpikyPow2(dist, radius)
	case KernelNearDensity:
		return SpikyPow3(dist, radius)
	default:
		return Poly6(dist, radius)
	}
}

// Derivative evaluates d(weight)/d(dist). Negative inside the support
// radius for the spiky families; the viscosity kernel's derivative is
// not used by the solver and reports zero.
func (k KernelKind) Derivative(dist, radius float64) float64 {
	switch k {
	case KernelDensity:
		return SpikyPow2Derivative(dist, radius)
	case KernelNearDensity:
		return SpikyPow3Derivative(dist, radius)
	default:
		return 0
	}
}

// SpikyPow2 is 15/(2*pi*h^5) * (h-d)^2 inside the support, else zero.
func SpikyPow2(dist, radius float64) float64 {
	if dist >= radius {
		return 0
	}
	v := radius - dist
	return v * v * 15 / (2 * math.Pi * math.Pow(radius, 5))
}

// SpikyPow2Derivative is -15/(pi*h^5) * (h-d) inside the support.
func SpikyPow2Derivative(dist, radius float64) float64 {
	if dist >= radius {
		return 0
	}
	return -(radius - dist) * 15 / (math.Pi * math.Pow(radius, 5))
}

// SpikyPow3 is 15/(pi*h^6) * (h-d)^3 inside the support, else zero.
func SpikyPow3(dist, radius float64) float64 {
	if dist >= radius {
		return 0
	}
	v := radius - dist
	return v * v * v * 15 / (math.Pi * math.Pow(radius, 6))
}

// SpikyPow3Derivative is -45/(pi*h^6) * (h-d)^2 inside the support.
func SpikyPow3Derivative(dist, radius float64) float64 {
	if dist >= radius {
		return 0
	}
	v := radius - dist
	return -v * v * 45 / (math.Pi * math.Pow(radius, 6))
}

// Poly6 is 315/(64*pi*h^9) * (h^2-d^2)^3 inside the support, else zero.
func Poly6(dist, radius float64) float64 {
	if dist >= radius {
		return 0
	}
	v := radius*radius - dist*dist
	return v * v * v * 315 / (64 * math.Pi * math.Pow(radius, 9))
}
