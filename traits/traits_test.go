package traits

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/petri/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return cfg
}

func TestMutateStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := NewMutator(rand.New(rand.NewSource(2)), 0.01, 2)

	for i := 0; i < 100000; i++ {
		lo := rng.Float64()*20 - 10
		hi := lo + rng.Float64()*10
		r := rng.Float64() * 5

		// Every fourth trial hugs one of the bounds
		var base float64
		switch i % 4 {
		case 0:
			base = lo
		case 1:
			base = hi
		default:
			base = lo + rng.Float64()*(hi-lo)
		}

		got := m.Mutate(base, r, lo, hi)
		if got < lo || got > hi {
			t.Fatalf("trial %d: Mutate(%v, %v, %v, %v) = %v out of bounds", i, base, r, lo, hi, got)
		}
	}
}

func TestMutateDeterministic(t *testing.T) {
	a := NewMutator(rand.New(rand.NewSource(42)), 0.01, 2)
	b := NewMutator(rand.New(rand.NewSource(42)), 0.01, 2)

	for i := 0; i < 1000; i++ {
		va := a.Mutate(5, 1, 0, 10)
		vb := b.Mutate(5, 1, 0, 10)
		if va != vb {
			t.Fatalf("step %d: %v != %v with identical seeds", i, va, vb)
		}
	}
}

func TestMutateRange(t *testing.T) {
	tests := []struct {
		name      string
		bigChance float64
		wantMax   float64 // largest |delta| allowed
		wantAbove float64 // some |delta| must exceed this
	}{
		{"normal range", 0, 1, 0.9},
		{"always big", 1, 2, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMutator(rand.New(rand.NewSource(7)), tt.bigChance, 2)
			var maxDelta float64
			for i := 0; i < 10000; i++ {
				d := math.Abs(m.Mutate(0, 1, -100, 100))
				if d > tt.wantMax+1e-12 {
					t.Fatalf("|delta| = %v exceeds %v", d, tt.wantMax)
				}
				maxDelta = math.Max(maxDelta, d)
			}
			if maxDelta < tt.wantAbove {
				t.Errorf("largest |delta| = %v, expected some above %v", maxDelta, tt.wantAbove)
			}
		})
	}
}

func TestMutateZeroRange(t *testing.T) {
	m := NewMutator(rand.New(rand.NewSource(3)), 0.5, 2)
	for i := 0; i < 100; i++ {
		if got := m.Mutate(3.5, 0, 0, 10); got != 3.5 {
			t.Fatalf("zero range changed value to %v", got)
		}
	}
}

func TestMutateIntRoundsUpAndClamps(t *testing.T) {
	m := NewMutator(rand.New(rand.NewSource(11)), 0.01, 2)
	for i := 0; i < 10000; i++ {
		got := m.MutateInt(1, 1, 1, 10)
		if got < 1 || got > 10 {
			t.Fatalf("MutateInt = %d outside [1, 10]", got)
		}
	}

	// With no range the value is unchanged; ceil of an integer is itself
	if got := m.MutateInt(4, 0, 1, 10); got != 4 {
		t.Errorf("MutateInt(4, 0) = %d, want 4", got)
	}
	// Base above the ceiling clamps down
	if got := m.MutateInt(50, 0, 1, 36); got != 36 {
		t.Errorf("MutateInt(50, 0, 1, 36) = %d, want 36", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{5, 8, 2, 2}, // inverted bounds resolve to hi
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestMutateFood(t *testing.T) {
	cfg := testConfig(t)
	m := NewMutatorFromConfig(rand.New(rand.NewSource(5)), cfg.Mutation)
	parent := InitialFoodPhenotype(cfg.Food)

	if parent.LimitSpawnRadius != cfg.Food.MaxSize/2 {
		t.Fatalf("initial LimitSpawnRadius = %v, want %v", parent.LimitSpawnRadius, cfg.Food.MaxSize/2)
	}

	for i := 0; i < 5000; i++ {
		child := m.MutateFood(parent, cfg.Mutation.Food)

		if child.LimitSpawnRadius != parent.MaxSize/2 {
			t.Fatalf("LimitSpawnRadius = %v, want parent max/2 = %v", child.LimitSpawnRadius, parent.MaxSize/2)
		}
		if child.SproutDistance < child.MaxSize {
			t.Fatalf("SproutDistance %v shorter than MaxSize %v", child.SproutDistance, child.MaxSize)
		}
		if child.MaxSize < 0.1 || child.MaxSize > 5 {
			t.Fatalf("MaxSize %v outside [0.1, 5]", child.MaxSize)
		}
		if child.GrowthSpeed < 0.01 || child.GrowthSpeed > 1 {
			t.Fatalf("GrowthSpeed %v outside [0.01, 1]", child.GrowthSpeed)
		}
		if child.SproutFrequency < 1 || child.SproutFrequency > 30 {
			t.Fatalf("SproutFrequency %v outside [1, 30]", child.SproutFrequency)
		}
		if child.MinSize > child.MaxSize {
			t.Fatalf("MinSize %v above MaxSize %v", child.MinSize, child.MaxSize)
		}
		parent = child
	}
}

func TestMutateOrganism(t *testing.T) {
	cfg := testConfig(t)
	m := NewMutatorFromConfig(rand.New(rand.NewSource(9)), cfg.Mutation)
	parent := InitialOrganismPhenotype(cfg.Organism)

	for i := 0; i < 5000; i++ {
		child := m.MutateOrganism(parent, cfg.Mutation.Organism)

		if child.RotationSpeed != parent.RotationSpeed {
			t.Fatalf("RotationSpeed mutated: %v -> %v", parent.RotationSpeed, child.RotationSpeed)
		}
		if child.NumberOfRays < 1 || child.NumberOfRays > 10 {
			t.Fatalf("NumberOfRays %d outside [1, 10]", child.NumberOfRays)
		}
		if child.AngleBetweenRays < 1 || child.AngleBetweenRays > 36 {
			t.Fatalf("AngleBetweenRays %d outside [1, 36]", child.AngleBetweenRays)
		}
		if child.MaxEnergy < 10 || child.MaxEnergy > 1000 {
			t.Fatalf("MaxEnergy %v outside [10, 1000]", child.MaxEnergy)
		}
		if child.BaseSpeed < 0.1 || child.BaseSpeed > 5 {
			t.Fatalf("BaseSpeed %v outside [0.1, 5]", child.BaseSpeed)
		}
		parent = child
	}
}
