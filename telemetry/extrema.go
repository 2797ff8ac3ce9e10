package telemetry

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/perlin/noise"
)

// Extremum kinds.
const (
	KindMin = "min"
	KindMax = "max"
)

// Extremum is the best point found by one local search.
type Extremum struct {
	Kind        string  `csv:"kind"`
	StartX      float64 `csv:"start_x"`
	StartY      float64 `csv:"start_y"`
	StartZ      float64 `csv:"start_z"`
	X           float64 `csv:"x"`
	Y           float64 `csv:"y"`
	Z           float64 `csv:"z"`
	Value       float64 `csv:"value"`
	Evaluations int     `csv:"evaluations"`
}

// LogValue implements slog.LogValuer for structured logging.
func (e Extremum) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", e.Kind),
		slog.Any("start", []float64{e.StartX, e.StartY, e.StartZ}),
		slog.Any("at", []float64{e.X, e.Y, e.Z}),
		slog.Float64("value", e.Value),
		slog.Int("evaluations", e.Evaluations),
	)
}

// SearchExtrema runs a Nelder-Mead search for a local minimum and a local
// maximum of p from each start point. maxEvals bounds each search.
// Results are ordered min, max per start.
func SearchExtrema(p *noise.Perlin, starts [][3]float64, maxEvals int) ([]Extremum, error) {
	if maxEvals < 1 {
		return nil, fmt.Errorf("max evaluations %d: must be positive", maxEvals)
	}

	results := make([]Extremum, 0, 2*len(starts))
	for _, start := range starts {
		for _, kind := range []string{KindMin, KindMax} {
			e, err := searchOne(p, start, kind, maxEvals)
			if err != nil {
				return results, fmt.Errorf("%s search from %v: %w", kind, start, err)
			}
			results = append(results, e)
		}
	}
	return results, nil
}

// Bounds returns the lowest minimum and highest maximum among results.
// ok is false when results holds no extremum of either kind.
func Bounds(results []Extremum) (lo, hi Extremum, ok bool) {
	lo.Value = math.Inf(1)
	hi.Value = math.Inf(-1)
	var haveLo, haveHi bool
	for _, e := range results {
		switch e.Kind {
		case KindMin:
			if e.Value < lo.Value {
				lo, haveLo = e, true
			}
		case KindMax:
			if e.Value > hi.Value {
				hi, haveHi = e, true
			}
		}
	}
	return lo, hi, haveLo && haveHi
}

func searchOne(p *noise.Perlin, start [3]float64, kind string, maxEvals int) (Extremum, error) {
	sign := 1.0
	if kind == KindMax {
		sign = -1
	}

	// Track the best point seen; the method's final simplex may be worse
	// when the evaluation limit cuts it short.
	best := Extremum{
		Kind:   kind,
		StartX: start[0],
		StartY: start[1],
		StartZ: start[2],
	}
	bestF := math.Inf(1)
	evals := 0

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			evals++
			f := sign * p.Noise(x[0], x[1], x[2])
			if f < bestF {
				bestF = f
				best.X, best.Y, best.Z = x[0], x[1], x[2]
			}
			return f
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: maxEvals,
		Concurrent:      0, // Sequential evaluation
	}

	// Initial simplex spans half a lattice cell
	method := &optimize.NelderMead{SimplexSize: 0.5}

	// Hitting the evaluation limit is expected; only a search that never
	// evaluated anything is a failure.
	if _, err := optimize.Minimize(problem, start[:], settings, method); err != nil && evals == 0 {
		return best, err
	}

	best.Value = sign * bestF
	best.Evaluations = evals
	return best, nil
}
