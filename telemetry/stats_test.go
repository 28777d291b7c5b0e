package telemetry

import (
	"log/slog"
	"math"
	"testing"
)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestPercentileInterpolates(t *testing.T) {
	deciles := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty", nil, 0.5, 0},
		{"single", []float64{7}, 0.9, 7},
		{"below range", deciles, -0.2, 1},
		{"above range", deciles, 1.5, 10},
		{"median even", []float64{2, 4, 6, 8}, 0.5, 5},
		{"p10", deciles, 0.1, 1.9},
		{"p90", deciles, 0.9, 9.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentile(tt.sorted, tt.p); !near(got, tt.want, 1e-9) {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeEnergyStats(t *testing.T) {
	tests := []struct {
		name                     string
		values                   []float64
		mean, std, p10, p50, p90 float64
	}{
		{"empty", nil, 0, 0, 0, 0, 0},
		{"constant", []float64{40, 40, 40}, 40, 0, 40, 40, 40},
		// Unsorted input; population std of 10..100 step 10 is 28.72
		{"spread", []float64{100, 10, 90, 20, 80, 30, 70, 40, 60, 50}, 55, 28.7228, 19, 55, 91},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, std, p10, p50, p90 := ComputeEnergyStats(tt.values)
			got := []float64{mean, std, p10, p50, p90}
			want := []float64{tt.mean, tt.std, tt.p10, tt.p50, tt.p90}
			for i, label := range []string{"mean", "std", "p10", "p50", "p90"} {
				if !near(got[i], want[i], 1e-3) {
					t.Errorf("%s = %v, want %v", label, got[i], want[i])
				}
			}
		})
	}
}

func TestComputeEnergyStatsLeavesInputAlone(t *testing.T) {
	values := []float64{3, 1, 2}
	ComputeEnergyStats(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered to %v", values)
	}
}

func TestMean(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
	if got := Mean([]float64{1, 2, 6}); !near(got, 3, 1e-12) {
		t.Errorf("Mean = %v, want 3", got)
	}
}

func TestWindowStatsLogValue(t *testing.T) {
	s := WindowStats{RunID: "r1", WindowEndTick: 500, FoodCount: 12, OrganismCount: 4}
	v := s.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("LogValue kind = %v, want group", v.Kind())
	}
	found := map[string]bool{}
	for _, a := range v.Group() {
		found[a.Key] = true
	}
	for _, key := range []string{"run_id", "window_end", "food", "organisms"} {
		if !found[key] {
			t.Errorf("missing attribute %q", key)
		}
	}
}
