package telemetry

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pthm-cable/perlin/config"
	"github.com/pthm-cable/perlin/noise"
)

// Probe operations.
const (
	OpFade  = "fade"
	OpLerp  = "lerp"
	OpGrad  = "grad"
	OpNoise = "noise"
)

// Probe is a single evaluated call and its result.
type Probe struct {
	Op     string    `csv:"op"`
	Args   []float64 `csv:"-"`
	Result float64   `csv:"result"`

	// ArgsText is Args joined with ", " for CSV export
	ArgsText string `csv:"args"`
}

// String renders the probe as a call expression, e.g. "noise(3.14, 42, 0) => 0.13692".
func (p Probe) String() string {
	return fmt.Sprintf("%s(%s) => %s", p.Op, p.ArgsText, formatFloat(p.Result))
}

// LogValue implements slog.LogValuer for structured logging.
func (p Probe) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("op", p.Op),
		slog.Any("args", p.Args),
		slog.Float64("result", p.Result),
	)
}

// RunProbes evaluates every configured call against p in the order
// fade, lerp, grad, noise.
func RunProbes(p *noise.Perlin, cfg config.ProbesConfig) []Probe {
	probes := make([]Probe, 0, len(cfg.Fade)+len(cfg.Lerp)+len(cfg.Grad)+len(cfg.Noise))

	for _, t := range cfg.Fade {
		probes = append(probes, newProbe(OpFade, noise.Fade(t), t))
	}
	for _, l := range cfg.Lerp {
		probes = append(probes, newProbe(OpLerp, noise.Lerp(l[0], l[1], l[2]), l[:]...))
	}
	for _, g := range cfg.Grad {
		args := []float64{float64(g.Hash), g.At[0], g.At[1], g.At[2]}
		probes = append(probes, newProbe(OpGrad, noise.Grad(g.Hash, g.At[0], g.At[1], g.At[2]), args...))
	}
	for _, n := range cfg.Noise {
		probes = append(probes, newProbe(OpNoise, p.Noise(n[0], n[1], n[2]), n[:]...))
	}

	return probes
}

// LogProbes writes one record per probe.
func LogProbes(logger *slog.Logger, probes []Probe) {
	for _, p := range probes {
		logger.Info(p.String(), "probe", p)
	}
}

func newProbe(op string, result float64, args ...float64) Probe {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = formatFloat(a)
	}
	return Probe{
		Op:       op,
		Args:     append([]float64(nil), args...),
		Result:   result,
		ArgsText: strings.Join(parts, ", "),
	}
}

// formatFloat prints v with at most 6 significant digits.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
