package systems

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestWorldInterior(t *testing.T) {
	w := testWorld()

	tests := []struct {
		name string
		p    mgl64.Vec2
		want bool
	}{
		{"center", mgl64.Vec2{0, 0}, true},
		{"on margin", mgl64.Vec2{49, 0}, true},
		{"inside margin", mgl64.Vec2{49.5, 0}, false},
		{"past right edge", mgl64.Vec2{50.5, 0}, false},
		{"past bottom edge", mgl64.Vec2{0, -60}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Interior(tt.p); got != tt.want {
				t.Errorf("Interior(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestWorldOverlaps(t *testing.T) {
	w := testWorld()

	tests := []struct {
		name string
		p    mgl64.Vec2
		want bool
	}{
		{"inside", mgl64.Vec2{10, 10}, true},
		{"straddling edge", mgl64.Vec2{50.3, 0}, true},
		{"just clear of edge", mgl64.Vec2{50.6, 0}, false},
		{"near corner", mgl64.Vec2{50.3, 50.3}, true},
		{"clear of corner", mgl64.Vec2{50.4, 50.4}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Overlaps(tt.p, 0.5); got != tt.want {
				t.Errorf("Overlaps(%v, 0.5) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRandomInteriorPoint(t *testing.T) {
	w := World{Center: mgl64.Vec2{10, -20}, Width: 30, Height: 12, Margin: 1}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		p := w.RandomInteriorPoint(rng)
		if !w.Interior(p) {
			t.Fatalf("RandomInteriorPoint returned %v outside interior", p)
		}
	}
}

func TestReturnDirectionPointsInward(t *testing.T) {
	w := testWorld()
	rng := rand.New(rand.NewSource(2))
	p := mgl64.Vec2{51, 0}
	for i := 0; i < 1000; i++ {
		d := w.ReturnDirection(p, 0.5, rng)
		if d.Len() < 0.999 || d.Len() > 1.001 {
			t.Fatalf("direction %v not unit", d)
		}
		if d[0] >= 0 {
			t.Fatalf("direction %v does not point back toward center", d)
		}
	}
}
