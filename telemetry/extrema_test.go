package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/perlin/noise"
)

func TestSearchExtrema(t *testing.T) {
	p := noise.New()
	starts := [][3]float64{{0.5, 0.5, 0.5}, {3.3, 7.1, 0.9}}

	results, err := SearchExtrema(p, starts, 300)
	if err != nil {
		t.Fatalf("SearchExtrema error: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}

	for i, e := range results {
		wantKind := KindMin
		if i%2 == 1 {
			wantKind = KindMax
		}
		if e.Kind != wantKind {
			t.Errorf("result %d kind = %s, want %s", i, e.Kind, wantKind)
		}
		if e.Evaluations < 1 || e.Evaluations > 300 {
			t.Errorf("result %d evaluations = %d, want in [1, 300]", i, e.Evaluations)
		}

		// Reported value matches the reported point
		if got := p.Noise(e.X, e.Y, e.Z); got != e.Value {
			t.Errorf("result %d value %v != Noise(at) %v", i, e.Value, got)
		}

		// Never worse than the start point
		start := p.Noise(e.StartX, e.StartY, e.StartZ)
		if e.Kind == KindMin && e.Value > start {
			t.Errorf("min search ended above start: %v > %v", e.Value, start)
		}
		if e.Kind == KindMax && e.Value < start {
			t.Errorf("max search ended below start: %v < %v", e.Value, start)
		}
	}

	lo, hi, ok := Bounds(results)
	if !ok {
		t.Fatal("Bounds reported no extrema")
	}
	if lo.Value >= 0 || hi.Value <= 0 {
		t.Errorf("bounds [%v, %v] should straddle zero", lo.Value, hi.Value)
	}
	if math.Abs(lo.Value) > 1.1 || math.Abs(hi.Value) > 1.1 {
		t.Errorf("bounds [%v, %v] far outside [-1, 1]", lo.Value, hi.Value)
	}
}

func TestSearchExtremaInvalidLimit(t *testing.T) {
	if _, err := SearchExtrema(noise.New(), [][3]float64{{0, 0, 0}}, 0); err == nil {
		t.Error("expected error for zero evaluation limit")
	}
}

func TestBoundsEmpty(t *testing.T) {
	if _, _, ok := Bounds(nil); ok {
		t.Error("Bounds(nil) reported ok")
	}
	if _, _, ok := Bounds([]Extremum{{Kind: KindMin, Value: -0.5}}); ok {
		t.Error("Bounds with only a minimum reported ok")
	}
}
