// Package components defines ECS components for the simulation.
package components

import "github.com/go-gl/mathgl/mgl64"

// Position represents an entity's world position.
type Position struct {
	X, Y float64 `inspect:"label,fmt:%.2f"`
}

// Vec returns the position as a vector.
func (p Position) Vec() mgl64.Vec2 {
	return mgl64.Vec2{p.X, p.Y}
}

// Set moves the position to v.
func (p *Position) Set(v mgl64.Vec2) {
	p.X, p.Y = v[0], v[1]
}

// Motion holds an organism's steering state.
// Direction is both the movement vector and the facing used by sensors;
// Heading is the smoothed body rotation that trails it.
type Motion struct {
	Direction mgl64.Vec2 `inspect:"skip"`
	Heading   float64    `inspect:"angle"` // radians
	Speed     float64    `inspect:"label,fmt:%.2f"`
	Inside    bool       `inspect:"skip"` // collider overlapped the world last tick
}

// Facing returns the unit facing vector, or +X when the direction is degenerate.
func (m *Motion) Facing() mgl64.Vec2 {
	if m.Direction.Len() < 1e-9 {
		return mgl64.Vec2{1, 0}
	}
	return m.Direction.Normalize()
}
