// Package mathx provides the vector and shape primitives shared by the
// spatial grid, motion integrator, and vision subsystems. Every position in
// the simulation is carried as an mgl64.Vec2 so that the collision and
// vision code share one notion of "finite, 2D, world space".
package mathx

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 aliases the go-gl vector type used throughout the simulation.
type Vec2 = mgl64.Vec2

// V2 constructs a Vec2 from components.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// IsFinite reports whether both components of v are finite, non-NaN values.
func IsFinite(v Vec2) bool {
	return !math.IsNaN(v[0]) && !math.IsInf(v[0], 0) &&
		!math.IsNaN(v[1]) && !math.IsInf(v[1], 0)
}

// Clamp limits value to the range [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ClampVec clamps each component of v to the box [minV, maxV].
func ClampVec(v, minV, maxV Vec2) Vec2 {
	return V2(Clamp(v[0], minV[0], maxV[0]), Clamp(v[1], minV[1], maxV[1]))
}

// DistSq returns the squared Euclidean distance between a and b, avoiding the
// sqrt call on the hot query paths in the spatial grid.
func DistSq(a, b Vec2) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Vec2) float64 {
	return a.Sub(b).Len()
}

// Normalize returns v scaled to unit length, or the zero vector if v is
// itself the zero vector (avoids a divide-by-zero for stationary actors).
func Normalize(v Vec2) Vec2 {
	length := v.Len()
	if length == 0 {
		return Vec2{}
	}
	return v.Mul(1 / length)
}

// Lerp linearly interpolates between a and b by t in [0, 1].
func Lerp(a, b Vec2, t float64) Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}

// Quantize rounds v to the nearest multiple of step, used by the delta
// serializer to avoid emitting jitter-sized position deltas.
func Quantize(v float64, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}
