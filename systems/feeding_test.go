package systems

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"
)

func TestTryStartEating(t *testing.T) {
	fx := newFoodFixture()
	food := fx.add(0.5, 0, 0.4) // energy value 4

	org, _ := newTestOrganism(50)
	org.Hungry = true

	e, res := TryStartEating(mgl64.Vec2{0, 0}, &org, testParams(), fx.index)
	if res != EatStarted || e != food {
		t.Fatalf("TryStartEating = %v, %v; want EatStarted on food", e, res)
	}
	if math.Abs(org.Energy-54) > 1e-9 {
		t.Errorf("Energy = %v, want 54", org.Energy)
	}
	if !org.Eating || org.EatTimer != 5 || org.Target != food {
		t.Errorf("eating state not set: eating=%v timer=%v", org.Eating, org.EatTimer)
	}
	if !fx.foods.Get(food).BeingEaten {
		t.Error("food not marked as being eaten")
	}
}

func TestTryStartEatingContested(t *testing.T) {
	fx := newFoodFixture()
	food := fx.add(0, 0, 0.4)

	first, _ := newTestOrganism(50)
	first.Hungry = true
	second, _ := newTestOrganism(50)
	second.Hungry = true

	if _, res := TryStartEating(mgl64.Vec2{0.3, 0}, &first, testParams(), fx.index); res != EatStarted {
		t.Fatalf("first organism: %v, want EatStarted", res)
	}
	e, res := TryStartEating(mgl64.Vec2{-0.3, 0}, &second, testParams(), fx.index)
	if res != EatAborted || e != food {
		t.Fatalf("second organism: %v, %v; want EatAborted", e, res)
	}
	if second.Energy != 50 || second.Eating {
		t.Errorf("aborted organism changed: energy=%v eating=%v", second.Energy, second.Eating)
	}
}

func TestTryStartEatingRequiresHunger(t *testing.T) {
	fx := newFoodFixture()
	fx.add(0, 0, 0.4)

	org, _ := newTestOrganism(95)
	if _, res := TryStartEating(mgl64.Vec2{0, 0}, &org, testParams(), fx.index); res != EatNone {
		t.Errorf("sated organism: %v, want EatNone", res)
	}
}

func TestTryStartEatingPassesOverHeldFood(t *testing.T) {
	tests := []struct {
		name     string
		freeSize float64 // 0 = no free food
		want     EatResult
	}{
		{"free food also in reach", 0.4, EatStarted},
		{"only held food in reach", 0, EatAborted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFoodFixture()
			held := fx.add(0, 0, 0.4)
			fx.foods.Get(held).BeingEaten = true
			var free ecs.Entity
			if tt.freeSize > 0 {
				free = fx.add(0.6, 0, tt.freeSize)
			}

			org, _ := newTestOrganism(50)
			org.Hungry = true
			e, res := TryStartEating(mgl64.Vec2{0.1, 0}, &org, testParams(), fx.index)
			if res != tt.want {
				t.Fatalf("TryStartEating = %v, want %v", res, tt.want)
			}
			switch res {
			case EatStarted:
				if e != free || !org.Eating || math.Abs(org.Energy-54) > 1e-9 {
					t.Errorf("ate %v (eating=%v energy=%v), want the free food", e, org.Eating, org.Energy)
				}
			case EatAborted:
				if e != held || org.Eating || org.Energy != 50 {
					t.Errorf("abort on %v changed the organism: eating=%v energy=%v", e, org.Eating, org.Energy)
				}
			}
		})
	}
}

func TestTryStartEatingClampsEnergy(t *testing.T) {
	fx := newFoodFixture()
	fx.add(0, 0, 5) // energy value 50

	org, _ := newTestOrganism(70)
	org.Hungry = true
	TryStartEating(mgl64.Vec2{0, 0}, &org, testParams(), fx.index)
	if org.Energy != org.MaxEnergy {
		t.Errorf("Energy = %v, want clamped to %v", org.Energy, org.MaxEnergy)
	}
}

func TestUpdateEatingReleases(t *testing.T) {
	fx := newFoodFixture()
	food := fx.add(0, 0, 0.4)

	org, _ := newTestOrganism(50)
	org.Hungry = true
	TryStartEating(mgl64.Vec2{0, 0}, &org, testParams(), fx.index)

	dt := 0.02
	steps := 0
	for {
		steps++
		e, done := UpdateEating(&org, dt)
		if done {
			if e != food {
				t.Errorf("released %v, want the eaten food", e)
			}
			break
		}
		if steps > 1000 {
			t.Fatal("eating never finished")
		}
	}
	if steps != 250 {
		t.Errorf("eating took %d ticks, want 250", steps)
	}
	if org.Eating || org.HasTarget() {
		t.Error("organism still eating after release")
	}
}
