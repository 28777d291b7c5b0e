package systems

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/petri/config"
)

// World is the axis-aligned rectangle agents live in.
type World struct {
	Center mgl64.Vec2
	Width  float64
	Height float64
	Margin float64 // Spawns must stay this far inside every edge
}

// NewWorld creates a world rectangle from the derived config.
func NewWorld(cfg *config.Config) World {
	return World{
		Center: mgl64.Vec2{cfg.World.CenterX, cfg.World.CenterY},
		Width:  cfg.Derived.WorldWidth,
		Height: cfg.Derived.WorldHeight,
		Margin: cfg.World.SpawnMargin,
	}
}

// Min returns the lower-left corner.
func (w World) Min() mgl64.Vec2 {
	return mgl64.Vec2{w.Center[0] - w.Width/2, w.Center[1] - w.Height/2}
}

// Max returns the upper-right corner.
func (w World) Max() mgl64.Vec2 {
	return mgl64.Vec2{w.Center[0] + w.Width/2, w.Center[1] + w.Height/2}
}

// Interior reports whether p is at least Margin inside every edge.
// Every spawn and birth must pass this check.
func (w World) Interior(p mgl64.Vec2) bool {
	lo, hi := w.Min(), w.Max()
	m := w.Margin
	return p[0] >= lo[0]+m && p[0] <= hi[0]-m && p[1] >= lo[1]+m && p[1] <= hi[1]-m
}

// Overlaps reports whether a circle of the given radius touches the rectangle.
func (w World) Overlaps(p mgl64.Vec2, radius float64) bool {
	lo, hi := w.Min(), w.Max()
	cx := math.Max(lo[0], math.Min(p[0], hi[0]))
	cy := math.Max(lo[1], math.Min(p[1], hi[1]))
	return distanceSq(p, mgl64.Vec2{cx, cy}) <= radius*radius
}

// RandomInteriorPoint returns a uniform point inside the spawn margin.
// If the margin swallows the world the center is returned.
func (w World) RandomInteriorPoint(rng *rand.Rand) mgl64.Vec2 {
	spanX := w.Width - 2*w.Margin
	spanY := w.Height - 2*w.Margin
	if spanX <= 0 || spanY <= 0 {
		return w.Center
	}
	lo := w.Min()
	return mgl64.Vec2{
		lo[0] + w.Margin + rng.Float64()*spanX,
		lo[1] + w.Margin + rng.Float64()*spanY,
	}
}

// ReturnDirection points from p back toward the center, perturbed by a random
// unit vector weighted by jitter, and normalized.
func (w World) ReturnDirection(p mgl64.Vec2, jitter float64, rng *rand.Rand) mgl64.Vec2 {
	toCenter := w.Center.Sub(p)
	if toCenter.Len() > 1e-9 {
		toCenter = toCenter.Normalize()
	}
	dir := toCenter.Add(RandomUnit(rng).Mul(jitter))
	if dir.Len() < 1e-9 {
		return toCenter
	}
	return dir.Normalize()
}
