package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestUpdateFoodGrowsToMaturity(t *testing.T) {
	f := testFood(0.1)
	f.MaxSize = 1
	f.GrowthSpeed = 0.5

	dt := 0.02
	for i := 0; i < 1000 && f.Growing; i++ {
		prev := f.Size
		if UpdateFood(&f, dt) {
			t.Fatal("sprouted while growing")
		}
		if f.Size < prev || f.Size > f.MaxSize {
			t.Fatalf("size %v after %v out of order or above max", f.Size, prev)
		}
	}
	if f.Growing || f.Size != f.MaxSize {
		t.Fatalf("food not mature: growing=%v size=%v", f.Growing, f.Size)
	}
	if !f.Sprouting || f.SproutTimer != f.SproutFrequency {
		t.Errorf("sprout timer not armed: sprouting=%v timer=%v", f.Sprouting, f.SproutTimer)
	}
}

func TestUpdateFoodSproutsEachPeriod(t *testing.T) {
	f := testFood(5)
	f.Growing = false
	f.Sprouting = true
	f.SproutFrequency = 2
	f.SproutTimer = 2

	count := 0
	for i := 0; i < 500; i++ { // 10 seconds
		if UpdateFood(&f, 0.02) {
			count++
		}
	}
	if count != 5 {
		t.Errorf("sprouted %d times in 10s with period 2s, want 5", count)
	}
}

func TestUpdateFoodBeingEaten(t *testing.T) {
	f := testFood(0.5)
	f.BeingEaten = true

	UpdateFood(&f, 0.02)
	if f.Size != 0.5 {
		t.Errorf("food grew while being eaten: %v", f.Size)
	}

	f.Growing = false
	f.Sprouting = true
	f.SproutTimer = 0.01
	if UpdateFood(&f, 0.02) {
		t.Error("food being eaten sprouted")
	}
	if f.Sprouting {
		t.Error("sprout timer not disarmed")
	}
}

func TestUpdateFoodStagnant(t *testing.T) {
	tests := []struct {
		name            string
		growthSpeed     float64
		sproutFrequency float64
		wantGrowing     bool
		wantSprouting   bool
	}{
		{"no growth", 0, 10, true, false},
		{"no sprouting", 1, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testFood(4.9)
			f.GrowthSpeed = tt.growthSpeed
			f.SproutFrequency = tt.sproutFrequency
			for i := 0; i < 1000; i++ {
				if UpdateFood(&f, 0.02) {
					t.Fatal("stagnant food sprouted")
				}
			}
			if f.Growing != tt.wantGrowing || f.Sprouting != tt.wantSprouting {
				t.Errorf("growing=%v sprouting=%v, want %v %v", f.Growing, f.Sprouting, tt.wantGrowing, tt.wantSprouting)
			}
		})
	}
}

func TestSproutPositionDistance(t *testing.T) {
	f := testFood(1)
	rng := rand.New(rand.NewSource(8))
	origin := mgl64.Vec2{2, -3}
	for i := 0; i < 100; i++ {
		p := SproutPosition(origin, &f, rng)
		if d := p.Sub(origin).Len(); math.Abs(d-f.SproutDistance) > 1e-9 {
			t.Fatalf("sprout at distance %v, want %v", d, f.SproutDistance)
		}
	}
}
