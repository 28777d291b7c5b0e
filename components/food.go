package components

import "github.com/pthm-cable/petri/traits"

// EnergyPerSize converts food size into the energy granted when eaten.
const EnergyPerSize = 10.0

// Food holds a food agent's phenotype and growth state.
type Food struct {
	traits.FoodPhenotype

	Size              float64 `inspect:"bar"`
	Growing           bool    `inspect:"bool"`
	BeingEaten        bool    `inspect:"bool"`
	SeedlingsProduced int     `inspect:"label"`

	// Sprout timer, armed once the food reaches max size
	Sprouting   bool    `inspect:"skip"`
	SproutTimer float64 `inspect:"label,fmt:%.1fs"`
}

// NewFood creates a growing food agent. size is clamped into the phenotype's bounds.
func NewFood(p traits.FoodPhenotype, size float64) Food {
	f := Food{FoodPhenotype: p, Growing: true}
	f.SetSize(size)
	return f
}

// SetSize sets the size, clamped to [MinSize, MaxSize].
func (f *Food) SetSize(size float64) {
	f.Size = traits.Clamp(size, f.MinSize, f.MaxSize)
}

// EnergyValue is the energy an organism gains by eating this food.
func (f *Food) EnergyValue() float64 {
	return f.Size * EnergyPerSize
}

// Radius is the collider radius.
func (f *Food) Radius() float64 {
	return f.Size / 2
}
