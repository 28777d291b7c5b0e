package components

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/traits"
)

// Organism bundles phenotype, energy, and behavior state.
type Organism struct {
	traits.OrganismPhenotype

	Energy     float64 `inspect:"bar"`
	Generation int     `inspect:"label"`
	Hungry     bool    `inspect:"bool"`
	Pregnant   bool    `inspect:"bool"`
	Eating     bool    `inspect:"bool"`

	// Target is a generation-checked handle; it goes stale when the food is removed.
	Target ecs.Entity `inspect:"skip"`

	EatTimer       float64 `inspect:"label,fmt:%.1fs"` // seconds of handling left while Eating
	Gestating      bool    `inspect:"skip"`            // gestation timer armed
	GestationTimer float64 `inspect:"label,fmt:%.1fs"` // seconds until the next gestation check
}

// NewOrganism creates an organism with the given phenotype and starting energy.
func NewOrganism(p traits.OrganismPhenotype, energy float64, generation int) Organism {
	o := Organism{OrganismPhenotype: p, Generation: generation}
	o.SetEnergy(energy)
	return o
}

// SetEnergy sets energy, clamped to [0, MaxEnergy].
func (o *Organism) SetEnergy(v float64) {
	o.Energy = traits.Clamp(v, 0, o.MaxEnergy)
}

// AddEnergy adds delta (possibly negative) to energy.
func (o *Organism) AddEnergy(delta float64) {
	o.SetEnergy(o.Energy + delta)
}

// EnergyFraction returns energy as a fraction of capacity.
func (o *Organism) EnergyFraction() float64 {
	if o.MaxEnergy <= 0 {
		return 0
	}
	return o.Energy / o.MaxEnergy
}

// Dead reports whether the organism has run out of energy.
func (o *Organism) Dead() bool {
	return o.Energy <= 0
}

// HasTarget reports whether a target handle is set. It may still be stale.
func (o *Organism) HasTarget() bool {
	return !o.Target.IsZero()
}

// ClearTarget drops the target handle.
func (o *Organism) ClearTarget() {
	o.Target = ecs.Entity{}
}
