package systems

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"
)

func TestSensorRaysFan(t *testing.T) {
	p := testOrganismPhenotype()
	p.NumberOfRays = 3
	p.AngleBetweenRays = 10

	rays := SensorRays(nil, mgl64.Vec2{0, 0}, mgl64.Vec2{1, 0}, p, 1)
	if len(rays) != 3 {
		t.Fatalf("got %d rays, want 3", len(rays))
	}

	wantDeg := []float64{-10, 0, 10}
	for i, r := range rays {
		got := math.Atan2(r.Dir[1], r.Dir[0]) * 180 / math.Pi
		if math.Abs(got-wantDeg[i]) > 1e-9 {
			t.Errorf("ray %d angle = %v, want %v", i, got, wantDeg[i])
		}
		if !r.Origin.ApproxEqual(mgl64.Vec2{1, 0}) {
			t.Errorf("ray %d origin = %v, want (1, 0)", i, r.Origin)
		}
		if r.Length != p.SightRange {
			t.Errorf("ray %d length = %v, want %v", i, r.Length, p.SightRange)
		}
	}
}

func TestSensorRaysEvenCount(t *testing.T) {
	p := testOrganismPhenotype()
	p.NumberOfRays = 2
	p.AngleBetweenRays = 20

	rays := SensorRays(nil, mgl64.Vec2{0, 0}, mgl64.Vec2{0, 1}, p, 1)
	wantDeg := []float64{80, 100}
	for i, r := range rays {
		got := math.Atan2(r.Dir[1], r.Dir[0]) * 180 / math.Pi
		if math.Abs(got-wantDeg[i]) > 1e-9 {
			t.Errorf("ray %d angle = %v, want %v", i, got, wantDeg[i])
		}
	}
}

func TestSenseFindsFoodAhead(t *testing.T) {
	fx := newFoodFixture()
	food := fx.add(2.5, 0.2, 1)

	res := Sense(mgl64.Vec2{0, 0}, mgl64.Vec2{1, 0}, testOrganismPhenotype(), 1, fx.index)
	if !res.Found || res.Target != food {
		t.Fatalf("Sense = %+v, want target found", res)
	}
	want := mgl64.Vec2{2.5, 0.2}.Normalize()
	if !res.Facing.ApproxEqual(want) {
		t.Errorf("Facing = %v, want %v", res.Facing, want)
	}
}

func TestSenseLastValidHitWins(t *testing.T) {
	below := mgl64.Vec2{3, -0.45}
	// A point the third ray reaches only after the fan has turned toward below
	turned := below.Normalize()
	third := turned.Add(mgl64.Rotate2D(mgl64.DegToRad(10)).Mul2x1(turned).Mul(2))

	type food struct {
		pos  mgl64.Vec2
		size float64
		held bool
	}
	tests := []struct {
		name  string
		foods []food
		want  int // index into foods
	}{
		{"turn carries later rays off the other food", []food{{below, 0.4, false}, {mgl64.Vec2{3, 0.45}, 0.4, false}}, 0},
		{"later ray retargets", []food{{below, 0.4, false}, {third, 0.3, false}}, 1},
		{"held food does not turn the fan", []food{{below, 0.4, true}, {mgl64.Vec2{3, 0.45}, 0.4, false}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFoodFixture()
			var es []ecs.Entity
			for _, f := range tt.foods {
				e := fx.add(f.pos[0], f.pos[1], f.size)
				fx.foods.Get(e).BeingEaten = f.held
				es = append(es, e)
			}

			res := Sense(mgl64.Vec2{0, 0}, mgl64.Vec2{1, 0}, testOrganismPhenotype(), 1, fx.index)
			if !res.Found || res.Target != es[tt.want] {
				t.Fatalf("target = %v (found %v), want food %d = %v", res.Target, res.Found, tt.want, es[tt.want])
			}
			if want := tt.foods[tt.want].pos.Normalize(); !res.Facing.ApproxEqualThreshold(want, 1e-9) {
				t.Errorf("Facing = %v, want %v", res.Facing, want)
			}
		})
	}
}

func TestSenseSkipsFoodBeingEaten(t *testing.T) {
	fx := newFoodFixture()
	food := fx.add(3, 0, 1)
	fx.foods.Get(food).BeingEaten = true

	facing := mgl64.Vec2{1, 0}
	res := Sense(mgl64.Vec2{0, 0}, facing, testOrganismPhenotype(), 1, fx.index)
	if res.Found {
		t.Fatalf("Sense targeted food already being eaten")
	}
	if res.Facing != facing {
		t.Errorf("Facing changed to %v without a target", res.Facing)
	}
}

func TestSenseOutOfRange(t *testing.T) {
	fx := newFoodFixture()
	fx.add(10, 0, 1)

	res := Sense(mgl64.Vec2{0, 0}, mgl64.Vec2{1, 0}, testOrganismPhenotype(), 1, fx.index)
	if res.Found {
		t.Error("food beyond sight range was targeted")
	}
}

func TestSenseBlindWithNoRays(t *testing.T) {
	fx := newFoodFixture()
	fx.add(2, 0, 1)

	p := testOrganismPhenotype()
	p.NumberOfRays = 0
	if res := Sense(mgl64.Vec2{0, 0}, mgl64.Vec2{1, 0}, p, 1, fx.index); res.Found {
		t.Error("organism without rays found food")
	}
}
