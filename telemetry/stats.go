package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/perlin/field"
)

// FieldStats holds aggregated statistics for one sampled slice.
type FieldStats struct {
	// Slice geometry
	Width  int     `csv:"width"`
	Height int     `csv:"height"`
	Z      float64 `csv:"z"`
	Scale  float64 `csv:"scale"`

	// Distribution of values
	Count  int     `csv:"count"`
	Min    float64 `csv:"min"`
	Max    float64 `csv:"max"`
	Mean   float64 `csv:"mean"`
	StdDev float64 `csv:"std_dev"` // Sample standard deviation
	P10    float64 `csv:"p10"`
	P50    float64 `csv:"p50"`
	P90    float64 `csv:"p90"`

	// Fraction of samples with |v| > 1
	OutOfRange float64 `csv:"out_of_range"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeFieldStats summarizes values sampled from spec.
func ComputeFieldStats(spec field.Spec, values []float64) FieldStats {
	s := FieldStats{
		Width:  spec.Width,
		Height: spec.Height,
		Z:      spec.Z,
		Scale:  spec.Scale,
		Count:  len(values),
	}
	if len(values) == 0 {
		return s
	}

	s.Min = floats.Min(values)
	s.Max = floats.Max(values)
	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	if math.IsNaN(s.StdDev) {
		// Single sample
		s.StdDev = 0
	}

	// Sort for percentiles
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s.P10 = Percentile(sorted, 0.10)
	s.P50 = Percentile(sorted, 0.50)
	s.P90 = Percentile(sorted, 0.90)

	// Sorted, so out-of-range values sit at both ends
	lo := sort.SearchFloat64s(sorted, -1)
	hi := len(sorted) - sort.Search(len(sorted), func(i int) bool { return sorted[i] > 1 })
	s.OutOfRange = float64(lo+hi) / float64(len(sorted))

	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s FieldStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("width", s.Width),
		slog.Int("height", s.Height),
		slog.Float64("z", s.Z),
		slog.Float64("scale", s.Scale),
		slog.Int("count", s.Count),
		slog.Float64("min", s.Min),
		slog.Float64("max", s.Max),
		slog.Float64("mean", s.Mean),
		slog.Float64("std_dev", s.StdDev),
		slog.Float64("p10", s.P10),
		slog.Float64("p50", s.P50),
		slog.Float64("p90", s.P90),
		slog.Float64("out_of_range", s.OutOfRange),
	)
}

// LogStats logs the field stats using slog.
func (s FieldStats) LogStats() {
	slog.Info("field stats",
		"width", s.Width,
		"height", s.Height,
		"z", s.Z,
		"count", s.Count,
		"min", s.Min,
		"max", s.Max,
		"mean", s.Mean,
		"std_dev", s.StdDev,
		"p10", s.P10,
		"p50", s.P50,
		"p90", s.P90,
		"out_of_range", s.OutOfRange,
	)
}
