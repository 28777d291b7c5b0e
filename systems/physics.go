package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/petri/components"
)

// Move advances an organism along its direction and eases its heading toward it.
// Direction components are clamped to [-1, 1] before integrating.
func Move(pos *components.Position, mot *components.Motion, rotationSpeed, dt float64) {
	dir := clampUnit(mot.Direction)
	pos.Set(pos.Vec().Add(dir.Mul(mot.Speed * dt)))

	if dir.Len() < 1e-9 {
		return
	}
	t := 1 - math.Exp(-rotationSpeed*dt)
	mot.Heading = lerpAngle(mot.Heading, headingOf(dir), t)
}

// CheckBoundary turns an organism back toward the world center on the tick its
// collider stops overlapping the world, and nudges it back along the new
// direction. Returns true if a boundary exit was handled.
func CheckBoundary(pos *components.Position, mot *components.Motion, w World, p OrganismParams, rng *rand.Rand) bool {
	inside := w.Overlaps(pos.Vec(), p.BodyRadius)
	exited := mot.Inside && !inside
	mot.Inside = inside
	if !exited {
		return false
	}

	dir := w.ReturnDirection(pos.Vec(), p.BoundaryJitter, rng)
	mot.Direction = dir
	pos.Set(pos.Vec().Add(dir.Mul(p.BoundaryNudge)))
	mot.Inside = w.Overlaps(pos.Vec(), p.BodyRadius)
	return true
}
