package systems

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Angle normalization functions

// normalizeAngle wraps an angle to [-Pi, Pi].
func normalizeAngle(angle float64) float64 {
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle < -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// lerpAngle moves from a toward b by fraction t along the shorter arc.
func lerpAngle(a, b, t float64) float64 {
	return normalizeAngle(a + normalizeAngle(b-a)*t)
}

// headingOf returns the angle of v in radians.
func headingOf(v mgl64.Vec2) float64 {
	return math.Atan2(v[1], v[0])
}

// clampUnit clamps each component of v to [-1, 1].
func clampUnit(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		math.Max(-1, math.Min(1, v[0])),
		math.Max(-1, math.Min(1, v[1])),
	}
}

// RandomUnit returns a uniformly distributed unit vector.
func RandomUnit(rng *rand.Rand) mgl64.Vec2 {
	a := rng.Float64() * 2 * math.Pi
	return mgl64.Vec2{math.Cos(a), math.Sin(a)}
}

// Distance functions

// distanceSq returns the squared distance between two points.
func distanceSq(a, b mgl64.Vec2) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}

// circlesOverlap reports whether two circles intersect or touch.
func circlesOverlap(a mgl64.Vec2, ra float64, b mgl64.Vec2, rb float64) bool {
	r := ra + rb
	return distanceSq(a, b) <= r*r
}

// raycastCircle returns the distance along a unit ray at which it first
// meets the circle. A ray starting inside the circle hits at distance 0.
func raycastCircle(origin, dir mgl64.Vec2, length float64, center mgl64.Vec2, radius float64) (float64, bool) {
	oc := center.Sub(origin)
	tc := oc.Dot(dir)
	d2 := oc.Dot(oc) - tc*tc
	r2 := radius * radius
	if d2 > r2 {
		return 0, false
	}
	th := math.Sqrt(r2 - d2)
	t := tc - th
	if t < 0 {
		if tc+th < 0 {
			return 0, false
		}
		t = 0
	}
	if t > length {
		return 0, false
	}
	return t, true
}
