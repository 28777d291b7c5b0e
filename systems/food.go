package systems

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/petri/components"
)

// UpdateFood advances growth and the sprout timer by dt.
// Returns true when the food should attempt to sprout a seedling this tick.
//
// Food being eaten stops growing and loses its sprout timer for good.
// Food with non-positive growth speed never matures; food with
// non-positive sprout frequency matures but never sprouts.
func UpdateFood(f *components.Food, dt float64) bool {
	if f.BeingEaten {
		f.Sprouting = false
		return false
	}

	if f.Growing {
		if f.GrowthSpeed > 0 {
			f.SetSize(f.Size + f.GrowthSpeed*dt)
		}
		if f.Size >= f.MaxSize {
			f.Size = f.MaxSize
			f.Growing = false
			if f.SproutFrequency > 0 {
				f.Sprouting = true
				f.SproutTimer = f.SproutFrequency
			}
		}
		return false
	}

	if !f.Sprouting {
		return false
	}
	return AdvanceTimer(&f.SproutTimer, f.SproutFrequency, dt)
}

// SproutPosition picks a seedling location at the food's sprout distance in
// a uniformly random direction.
func SproutPosition(origin mgl64.Vec2, f *components.Food, rng *rand.Rand) mgl64.Vec2 {
	return origin.Add(RandomUnit(rng).Mul(f.SproutDistance))
}
