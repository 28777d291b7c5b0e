// Package traits defines heritable phenotypes and the mutation model applied
// to them on reproduction.
package traits

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/petri/config"
)

// Mutator perturbs scalar traits with bounded uniform noise.
// Every trait is mutated independently; there is no covariance.
type Mutator struct {
	rng       *rand.Rand
	bigChance float64
	bigFactor float64
}

// NewMutator creates a mutator drawing from rng.
// bigChance is the probability that a single mutation uses a range scaled by bigFactor.
func NewMutator(rng *rand.Rand, bigChance, bigFactor float64) *Mutator {
	return &Mutator{rng: rng, bigChance: bigChance, bigFactor: bigFactor}
}

// NewMutatorFromConfig creates a mutator using the configured big-mutation parameters.
func NewMutatorFromConfig(rng *rand.Rand, cfg config.MutationConfig) *Mutator {
	return NewMutator(rng, cfg.BigChance, cfg.BigFactor)
}

// Mutate returns base plus a uniform delta in [-r, r], clamped to [lo, hi].
// With probability bigChance the range is multiplied by bigFactor.
// If lo > hi the result is hi.
func (m *Mutator) Mutate(base, r, lo, hi float64) float64 {
	if m.rng.Float64() < m.bigChance {
		r *= m.bigFactor
	}
	delta := (m.rng.Float64()*2 - 1) * r
	return Clamp(base+delta, lo, hi)
}

// MutateInt mutates an integer trait, rounding the result up.
func (m *Mutator) MutateInt(base int, r, lo, hi float64) int {
	v := math.Ceil(m.Mutate(float64(base), r, lo, hi))
	return int(Clamp(v, math.Ceil(lo), math.Floor(hi)))
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

// FoodPhenotype holds the heritable traits of a food agent.
type FoodPhenotype struct {
	MinSize          float64 `inspect:"label,fmt:%.2f"`
	MaxSize          float64 `inspect:"label,fmt:%.2f"`
	GrowthSpeed      float64 `inspect:"label,fmt:%.3f"`
	SproutFrequency  float64 `inspect:"label,fmt:%.1fs"`
	SproutDistance   float64 `inspect:"label,fmt:%.2f"`
	LimitSpawnRadius float64 `inspect:"label,fmt:%.2f"`
}

// InitialFoodPhenotype builds the phenotype given to food spawned at startup or on respawn.
func InitialFoodPhenotype(cfg config.FoodConfig) FoodPhenotype {
	return FoodPhenotype{
		MinSize:          cfg.MinSize,
		MaxSize:          cfg.MaxSize,
		GrowthSpeed:      cfg.GrowthSpeed,
		SproutFrequency:  cfg.SproutFrequency,
		SproutDistance:   cfg.SproutDistance,
		LimitSpawnRadius: cfg.MaxSize / 2,
	}
}

// MutateFood derives a seedling phenotype from its parent.
// The crowding radius comes from the parent's max size, and the sprout
// distance can never be shorter than the child's own max size.
func (m *Mutator) MutateFood(parent FoodPhenotype, t config.FoodMutationConfig) FoodPhenotype {
	child := parent
	child.MaxSize = m.Mutate(parent.MaxSize, t.MaxSize.Range, t.MaxSize.Min, t.MaxSize.Max)
	child.GrowthSpeed = m.Mutate(parent.GrowthSpeed, t.GrowthSpeed.Range, t.GrowthSpeed.Min, t.GrowthSpeed.Max)
	child.SproutFrequency = m.Mutate(parent.SproutFrequency, t.SproutFrequency.Range, t.SproutFrequency.Min, t.SproutFrequency.Max)
	child.SproutDistance = m.Mutate(parent.SproutDistance, t.SproutDistance.Range, child.MaxSize, t.SproutDistance.Max)
	child.LimitSpawnRadius = parent.MaxSize / 2
	if child.MinSize > child.MaxSize {
		child.MinSize = child.MaxSize
	}
	return child
}

// OrganismPhenotype holds the heritable traits of an organism.
type OrganismPhenotype struct {
	BaseSpeed        float64 `inspect:"label,fmt:%.2f"`
	MaxEnergy        float64 `inspect:"label,fmt:%.1f"`
	MetabolicRate    float64 `inspect:"label,fmt:%.3f"`
	SightRange       float64 `inspect:"label,fmt:%.2f"`
	NumberOfRays     int     `inspect:"label"`
	AngleBetweenRays int     `inspect:"label,fmt:%d°"`
	RotationSpeed    float64 `inspect:"label,fmt:%.1f"`
}

// InitialOrganismPhenotype builds the phenotype given to organisms spawned at startup.
func InitialOrganismPhenotype(cfg config.OrganismConfig) OrganismPhenotype {
	return OrganismPhenotype{
		BaseSpeed:        cfg.BaseSpeed,
		MaxEnergy:        cfg.MaxEnergy,
		MetabolicRate:    cfg.MetabolicRate,
		SightRange:       cfg.SightRange,
		NumberOfRays:     cfg.NumberOfRays,
		AngleBetweenRays: cfg.AngleBetweenRays,
		RotationSpeed:    cfg.RotationSpeed,
	}
}

// MutateOrganism derives an offspring phenotype from its parent.
// Rotation speed is inherited unchanged.
func (m *Mutator) MutateOrganism(parent OrganismPhenotype, t config.OrganismMutationConfig) OrganismPhenotype {
	child := parent
	child.BaseSpeed = m.Mutate(parent.BaseSpeed, t.BaseSpeed.Range, t.BaseSpeed.Min, t.BaseSpeed.Max)
	child.MaxEnergy = m.Mutate(parent.MaxEnergy, t.MaxEnergy.Range, t.MaxEnergy.Min, t.MaxEnergy.Max)
	child.MetabolicRate = m.Mutate(parent.MetabolicRate, t.MetabolicRate.Range, t.MetabolicRate.Min, t.MetabolicRate.Max)
	child.SightRange = m.Mutate(parent.SightRange, t.SightRange.Range, t.SightRange.Min, t.SightRange.Max)
	child.NumberOfRays = m.MutateInt(parent.NumberOfRays, t.NumberOfRays.Range, t.NumberOfRays.Min, t.NumberOfRays.Max)
	child.AngleBetweenRays = m.MutateInt(parent.AngleBetweenRays, t.AngleBetweenRays.Range, t.AngleBetweenRays.Min, t.AngleBetweenRays.Max)
	return child
}
