package systems

import (
	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/config"
)

// OrganismParams holds behavior constants shared by every organism.
type OrganismParams struct {
	BodyRadius        float64
	RayOriginOffset   float64
	HungerThreshold   float64
	StarvingThreshold float64
	EatDuration       float64
	BoundaryNudge     float64
	BoundaryJitter    float64

	GestationPeriod    float64
	PregnancyThreshold float64
	CancelThreshold    float64
	OffspringEnergy    float64
}

// NewOrganismParams extracts organism constants from the config.
func NewOrganismParams(cfg *config.Config) OrganismParams {
	return OrganismParams{
		BodyRadius:         cfg.Organism.BodyRadius,
		RayOriginOffset:    cfg.Organism.RayOriginOffset,
		HungerThreshold:    cfg.Organism.HungerThreshold,
		StarvingThreshold:  cfg.Organism.StarvingThreshold,
		EatDuration:        cfg.Organism.EatDuration,
		BoundaryNudge:      cfg.Organism.BoundaryNudge,
		BoundaryJitter:     cfg.Organism.BoundaryJitter,
		GestationPeriod:    cfg.Reproduction.GestationPeriod,
		PregnancyThreshold: cfg.Reproduction.PregnancyThreshold,
		CancelThreshold:    cfg.Reproduction.CancelThreshold,
		OffspringEnergy:    cfg.Reproduction.OffspringEnergy,
	}
}

// UpdateEnergy drains metabolism and refreshes the energy-derived state:
// hunger, speed and pregnancy. Returns true if the organism starved.
// Callers skip this while the organism is eating.
func UpdateEnergy(org *components.Organism, mot *components.Motion, p OrganismParams, dt float64) bool {
	org.AddEnergy(-org.MetabolicRate * dt)

	frac := org.EnergyFraction()
	org.Hungry = frac < p.HungerThreshold

	mot.Speed = org.BaseSpeed
	if frac < p.StarvingThreshold {
		mot.Speed = org.BaseSpeed / 2
	}

	switch {
	case !org.Pregnant && frac >= p.PregnancyThreshold:
		org.Pregnant = true
		if !org.Gestating && p.GestationPeriod > 0 {
			org.Gestating = true
			org.GestationTimer = p.GestationPeriod
		}
	case frac < p.CancelThreshold:
		org.Pregnant = false
		org.Gestating = false
		org.GestationTimer = 0
	}

	return org.Dead()
}
