package systems

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/traits"
)

// GestationEvent is the outcome of advancing an organism's gestation timer.
type GestationEvent int

const (
	GestationIdle     GestationEvent = iota // timer not armed or not yet due
	GestationDisarmed                       // fired while not pregnant; timer stopped
	GestationDue                            // fired while pregnant; a birth should be attempted
)

// UpdateGestation advances the gestation timer by dt. The timer keeps
// running while the organism eats. A due gestation re-arms the timer, so a
// birth skipped at the population cap is retried one period later.
func UpdateGestation(org *components.Organism, period, dt float64) GestationEvent {
	if !org.Gestating {
		return GestationIdle
	}
	if !AdvanceTimer(&org.GestationTimer, period, dt) {
		return GestationIdle
	}
	if !org.Pregnant {
		org.Gestating = false
		org.GestationTimer = 0
		return GestationDisarmed
	}
	return GestationDue
}

// BirthPosition places an offspring one unit behind the parent.
func BirthPosition(parent mgl64.Vec2, facing mgl64.Vec2) mgl64.Vec2 {
	return parent.Sub(facing)
}

// NewOffspring builds an offspring from its parent: mutated phenotype, next
// generation, energy set to the given fraction of the parent's capacity
// (clamped to its own), a random heading and full base speed.
func NewOffspring(parent *components.Organism, m *traits.Mutator, t config.OrganismMutationConfig, energyFrac float64, rng *rand.Rand) (components.Organism, components.Motion) {
	p := m.MutateOrganism(parent.OrganismPhenotype, t)
	child := components.NewOrganism(p, energyFrac*parent.MaxEnergy, parent.Generation+1)
	return child, NewMotion(p, rng)
}

// SettleParent resets the parent's energy after a committed birth.
func SettleParent(parent *components.Organism, energyFrac float64) {
	parent.SetEnergy(energyFrac * parent.MaxEnergy)
}

// NewMotion returns motion state for a freshly spawned organism: a random
// unit direction, heading aligned with it and speed at base.
func NewMotion(p traits.OrganismPhenotype, rng *rand.Rand) components.Motion {
	dir := RandomUnit(rng)
	return components.Motion{
		Direction: dir,
		Heading:   headingOf(dir),
		Speed:     p.BaseSpeed,
		Inside:    true,
	}
}
