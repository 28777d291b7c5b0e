package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/components"
)

// EatResult is the outcome of a feeding attempt.
type EatResult int

const (
	EatNone    EatResult = iota // no food in reach, or not hungry
	EatStarted                  // energy granted, handling begins
	EatAborted                  // reached food that another organism holds
)

// TryStartEating begins eating the nearest free food overlapping a hungry,
// idle organism. Energy is granted up front, clamped to capacity, and the
// food is marked so no other organism can take it. The attempt aborts only
// when every overlapping food is already being eaten.
func TryStartEating(pos mgl64.Vec2, org *components.Organism, p OrganismParams, foods *FoodIndex) (ecs.Entity, EatResult) {
	if !org.Hungry || org.Eating {
		return ecs.Entity{}, EatNone
	}
	e, taken, ok := foods.NearestFreeOverlapping(pos, p.BodyRadius)
	if !ok {
		if !taken.IsZero() {
			return taken, EatAborted
		}
		return ecs.Entity{}, EatNone
	}
	f := foods.Food(e)
	if f == nil {
		return ecs.Entity{}, EatNone
	}

	f.BeingEaten = true
	org.AddEnergy(f.EnergyValue())
	org.Eating = true
	org.EatTimer = p.EatDuration
	org.Target = e
	return e, EatStarted
}

// UpdateEating counts down the handling time. When it runs out the organism
// is released and the eaten food is returned for removal.
func UpdateEating(org *components.Organism, dt float64) (ecs.Entity, bool) {
	if !org.Eating {
		return ecs.Entity{}, false
	}
	org.EatTimer -= dt
	if org.EatTimer > timerEpsilon {
		return ecs.Entity{}, false
	}
	food := org.Target
	org.EatTimer = 0
	org.Eating = false
	org.ClearTarget()
	return food, true
}
