package components

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/petri/traits"
)

func testFoodPhenotype() traits.FoodPhenotype {
	return traits.FoodPhenotype{MinSize: 0.1, MaxSize: 1, GrowthSpeed: 0.05, SproutFrequency: 10, SproutDistance: 3, LimitSpawnRadius: 0.5}
}

func TestFoodSizeClampedAndEnergyDerived(t *testing.T) {
	tests := []struct {
		name string
		size float64
		want float64
	}{
		{"inside", 0.4, 0.4},
		{"below min", 0.01, 0.1},
		{"above max", 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFood(testFoodPhenotype(), tt.size)
			if f.Size != tt.want {
				t.Errorf("Size = %v, want %v", f.Size, tt.want)
			}
			if math.Abs(f.EnergyValue()-10*f.Size) > 1e-12 {
				t.Errorf("EnergyValue = %v, want %v", f.EnergyValue(), 10*f.Size)
			}
			if !f.Growing {
				t.Error("new food should be growing")
			}
		})
	}
}

func TestOrganismEnergyClamped(t *testing.T) {
	o := NewOrganism(traits.OrganismPhenotype{MaxEnergy: 100}, 150, 0)
	if o.Energy != 100 {
		t.Errorf("Energy = %v, want clamped 100", o.Energy)
	}

	o.AddEnergy(-250)
	if o.Energy != 0 || !o.Dead() {
		t.Errorf("Energy = %v, want 0 and dead", o.Energy)
	}

	o.SetEnergy(40)
	if got := o.EnergyFraction(); got != 0.4 {
		t.Errorf("EnergyFraction = %v, want 0.4", got)
	}
}

func TestOrganismTargetHandle(t *testing.T) {
	var o Organism
	if o.HasTarget() {
		t.Error("zero organism should have no target")
	}
	o.ClearTarget()
	if o.HasTarget() {
		t.Error("cleared target still set")
	}
}

func TestMotionFacing(t *testing.T) {
	m := Motion{}
	if got := m.Facing(); got != (mgl64.Vec2{1, 0}) {
		t.Errorf("degenerate Facing = %v, want +X", got)
	}

	m.Direction = mgl64.Vec2{0, 3}
	if got := m.Facing(); !got.ApproxEqual(mgl64.Vec2{0, 1}) {
		t.Errorf("Facing = %v, want (0, 1)", got)
	}
}

func TestDescriptorValuesMatch(t *testing.T) {
	o := NewOrganism(traits.OrganismPhenotype{BaseSpeed: 2, MaxEnergy: 50, NumberOfRays: 4, AngleBetweenRays: 12}, 25, 3)
	want := map[string]float64{
		"energy":          25,
		"energy_fraction": 0.5,
		"generation":      3,
		"base_speed":      2,
		"rays":            4,
		"ray_angle":       12,
	}
	for id, v := range want {
		if got := GetOrganismValue(&o, id); got != v {
			t.Errorf("GetOrganismValue(%q) = %v, want %v", id, got, v)
		}
	}

	for _, d := range HeritableOrganismFields() {
		if d.Group != "phenotype" {
			t.Errorf("heritable field %q in group %q", d.ID, d.Group)
		}
	}

	f := NewFood(testFoodPhenotype(), 0.4)
	if got := GetFoodValue(&f, "energy_value"); math.Abs(got-4) > 1e-12 {
		t.Errorf("food energy_value = %v, want 4", got)
	}
	if len(HeritableFoodFields()) != 4 {
		t.Errorf("HeritableFoodFields = %d, want 4", len(HeritableFoodFields()))
	}
}
