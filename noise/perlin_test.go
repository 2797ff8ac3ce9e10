package noise

import (
	"math"
	"sync"
	"testing"
)

const tolerance = 1e-9

func TestReferenceVectors(t *testing.T) {
	p := New()

	tests := []struct {
		name    string
		x, y, z float64
		want    float64
	}{
		{"origin", 0, 0, 0, 0},
		{"lattice one", 1, 1, 1, 0},
		{"lattice minus one", -1, -1, -1, 0},
		{"cube center", 0.5, 0.5, 0.5, -0.25},
		{"near origin", 0.1, 0.1, 0.1, 0.1861607143544832},
		{"pi row", 3.14, 42, 0, 0.13691995878400012},
		{"negative x", -4.20, 10, 0, -0.14208000000000043},
		{"dyadic", 1.5, 2.25, -0.75, -0.10715770721435547},
		{"mixed", 100.3, -7.7, 12.01, -0.11813440877501973},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Noise(tt.x, tt.y, tt.z)
			if math.Abs(got-tt.want) > tolerance {
				t.Errorf("Noise(%v, %v, %v) = %.17g, want %.17g", tt.x, tt.y, tt.z, got, tt.want)
			}
		})
	}
}

func TestFade(t *testing.T) {
	tests := []struct {
		t    float64
		want float64
	}{
		{0, 0},
		{1, 1},
		{0.5, 0.5},
		{0.75, 0.896484375},
		{0.25, 0.103515625},
	}

	for _, tt := range tests {
		if got := Fade(tt.t); math.Abs(got-tt.want) > tolerance {
			t.Errorf("Fade(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestFadeSymmetry(t *testing.T) {
	// fade(1-t) == 1-fade(t)
	for i := 0; i <= 100; i++ {
		x := float64(i) / 100
		if d := Fade(1-x) - (1 - Fade(x)); math.Abs(d) > tolerance {
			t.Fatalf("Fade not symmetric at %v: diff %v", x, d)
		}
	}
}

func TestLerp(t *testing.T) {
	tests := []struct {
		name    string
		t, a, b float64
		want    float64
	}{
		{"midpoint", 0.5, 50, 100, 75},
		{"quarter descending", 0.25, 50, 25, 43.75},
		{"quarter negative", 0.25, -50, 25, -31.25},
		{"t zero", 0, -3, 9, -3},
		{"t one", 1, -3, 9, 9},
		{"equal endpoints", 0.37, 4.5, 4.5, 4.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Lerp(tt.t, tt.a, tt.b); got != tt.want {
				t.Errorf("Lerp(%v, %v, %v) = %v, want %v", tt.t, tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestGrad(t *testing.T) {
	// (x, y, z) = (0.25, 0.5, 0.75) dotted with each of the 16 hash buckets.
	want := [16]float64{
		0.75, 0.25, -0.25, -0.75,
		1.0, 0.5, -0.5, -1.0,
		1.25, 0.25, -0.25, -1.25,
		0.75, 0.25, 0.25, -1.25,
	}

	for h := 0; h < 16; h++ {
		if got := Grad(h, 0.25, 0.5, 0.75); got != want[h] {
			t.Errorf("Grad(%d) = %v, want %v", h, got, want[h])
		}
		// Only the low 4 bits matter
		if got := Grad(h+16*7, 0.25, 0.5, 0.75); got != want[h] {
			t.Errorf("Grad(%d) = %v, want %v", h+16*7, got, want[h])
		}
	}
}

func TestTable(t *testing.T) {
	table := New().Table()

	seen := make(map[int]bool, Period)
	for i := 0; i < Period; i++ {
		v := table[i]
		if v < 0 || v >= Period {
			t.Fatalf("table[%d] = %d, out of range", i, v)
		}
		if seen[v] {
			t.Fatalf("table[%d] = %d appears twice", i, v)
		}
		seen[v] = true

		if table[i+Period] != v {
			t.Errorf("table[%d] = %d, want mirror of table[%d] = %d", i+Period, table[i+Period], i, v)
		}
	}

	if table[0] != 151 || table[255] != 180 {
		t.Errorf("table endpoints = (%d, %d), want (151, 180)", table[0], table[255])
	}
}

func TestTableIsCopy(t *testing.T) {
	p := New()
	table := p.Table()
	table[0] = -1

	if p.Table()[0] != 151 {
		t.Error("mutating Table() result changed the generator")
	}
}

func TestDeterministic(t *testing.T) {
	p1 := New()
	p2 := New()

	for i := 0; i < 1000; i++ {
		x := float64(i)*0.137 - 60
		y := float64(i)*0.291 + 3
		z := float64(i) * -0.073
		a := p1.Noise(x, y, z)
		if b := p1.Noise(x, y, z); a != b {
			t.Fatalf("Noise not repeatable at (%v, %v, %v): %v != %v", x, y, z, a, b)
		}
		if b := p2.Noise(x, y, z); a != b {
			t.Fatalf("instances disagree at (%v, %v, %v): %v != %v", x, y, z, a, b)
		}
	}
}

func TestPeriodicExact(t *testing.T) {
	p := New()

	// Dyadic offsets keep the fractional part exact after adding Period.
	for i := -40; i < 40; i++ {
		x := float64(i) * 0.375
		y := float64(i)*0.125 + 7
		z := float64(i) * -0.5
		want := p.Noise(x, y, z)

		if got := p.Noise(x+Period, y, z); got != want {
			t.Errorf("x period: Noise(%v) = %v, want %v", x+Period, got, want)
		}
		if got := p.Noise(x, y+Period, z); got != want {
			t.Errorf("y period: Noise(%v) = %v, want %v", y+Period, got, want)
		}
		if got := p.Noise(x, y, z+Period); got != want {
			t.Errorf("z period: Noise(%v) = %v, want %v", z+Period, got, want)
		}
	}
}

func TestPeriodicApprox(t *testing.T) {
	p := New()

	for i := 0; i < 500; i++ {
		x := float64(i)*0.731 - 180
		y := float64(i)*0.417 + 0.1
		z := float64(i)*0.263 - 33.3
		want := p.Noise(x, y, z)

		for _, got := range []float64{
			p.Noise(x+Period, y, z),
			p.Noise(x, y+Period, z),
			p.Noise(x, y, z+Period),
			p.Noise(x-Period, y-Period, z-Period),
		} {
			if math.Abs(got-want) > tolerance {
				t.Fatalf("period broken at (%v, %v, %v): %v vs %v", x, y, z, got, want)
			}
		}
	}
}

func TestRange(t *testing.T) {
	p := New()

	for i := 0; i < 20000; i++ {
		x := float64(i)*0.37 - 500
		y := float64(i)*0.53 - 500
		z := float64(i)*0.71 - 500
		v := p.Noise(x, y, z)
		if v < -1.1 || v > 1.1 {
			t.Fatalf("Noise(%f, %f, %f) = %f, far outside [-1,1]", x, y, z, v)
		}
	}
}

func TestContinuity(t *testing.T) {
	p := New()
	const eps = 1e-7

	// Crossing a cube face must not jump.
	for i := -5; i <= 5; i++ {
		face := float64(i)
		lo := p.Noise(face-eps, 0.3, 0.6)
		hi := p.Noise(face+eps, 0.3, 0.6)
		if math.Abs(hi-lo) > 1e-5 {
			t.Errorf("discontinuity at x=%v: %v vs %v", face, lo, hi)
		}
	}
}

func TestNonFiniteDoesNotPanic(t *testing.T) {
	p := New()

	inputs := []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1e300, -1e300}
	for _, v := range inputs {
		_ = p.Noise(v, 0, 0)
		_ = p.Noise(0, v, 0)
		_ = p.Noise(0, 0, v)
	}
}

func TestConcurrentUse(t *testing.T) {
	p := New()

	want := make([]float64, 256)
	for i := range want {
		want[i] = p.Noise(float64(i)*0.11, float64(i)*0.07, 1.5)
	}

	var wg sync.WaitGroup
	errs := make(chan int, 8)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range want {
				if p.Noise(float64(i)*0.11, float64(i)*0.07, 1.5) != want[i] {
					errs <- i
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for i := range errs {
		t.Errorf("concurrent evaluation diverged at sample %d", i)
	}
}
