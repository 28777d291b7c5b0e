package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/traits"
)

// Ray is one sight line cast by an organism.
type Ray struct {
	Origin mgl64.Vec2
	Dir    mgl64.Vec2 // unit
	Length float64
}

// End returns the far end of the ray.
func (r Ray) End() mgl64.Vec2 {
	return r.Origin.Add(r.Dir.Mul(r.Length))
}

// rayAt builds ray i of n, fanned symmetrically around facing.
// Ray i is rotated by (2i+1-n)*angle/2 degrees.
func rayAt(i int, pos, facing mgl64.Vec2, p traits.OrganismPhenotype, originOffset float64) Ray {
	offset := float64(2*i+1-p.NumberOfRays) * float64(p.AngleBetweenRays) / 2
	dir := mgl64.Rotate2D(mgl64.DegToRad(offset)).Mul2x1(facing)
	return Ray{
		Origin: pos.Add(facing.Mul(originOffset)),
		Dir:    dir,
		Length: p.SightRange,
	}
}

// SensorRays returns the fan of rays an organism would cast with its current facing.
func SensorRays(dst []Ray, pos, facing mgl64.Vec2, p traits.OrganismPhenotype, originOffset float64) []Ray {
	for i := 0; i < p.NumberOfRays; i++ {
		dst = append(dst, rayAt(i, pos, facing, p, originOffset))
	}
	return dst
}

// SenseResult is the outcome of one sensing pass.
type SenseResult struct {
	Target ecs.Entity
	Facing mgl64.Vec2 // unit direction after turning toward the target
	Found  bool
}

// Sense casts the ray fan and picks a food target.
// Each ray reports the nearest food it touches. A hit on food that is not
// already being eaten becomes the target and turns the organism toward it;
// later rays fan around the new facing, so the last valid hit wins.
// Reads only; safe to run concurrently while the food set is unchanged.
func Sense(pos, facing mgl64.Vec2, p traits.OrganismPhenotype, originOffset float64, foods *FoodIndex) SenseResult {
	res := SenseResult{Facing: facing}
	for i := 0; i < p.NumberOfRays; i++ {
		ray := rayAt(i, pos, res.Facing, p, originOffset)
		hit, _, ok := foods.Raycast(ray.Origin, ray.Dir, ray.Length)
		if !ok {
			continue
		}
		f := foods.Food(hit)
		if f == nil || f.BeingEaten {
			continue
		}
		foodPos, _ := foods.Position(hit)
		toFood := foodPos.Sub(pos)
		if toFood.Len() > 1e-9 {
			res.Facing = toFood.Normalize()
		}
		res.Target = hit
		res.Found = true
	}
	return res
}
