package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one evaluation pass.
const (
	PhaseProbes  = "probes"
	PhaseField   = "field"
	PhaseStats   = "stats"
	PhaseExtrema = "extrema"
	PhaseOutput  = "output"
)

// phaseOrder lists phases in pipeline order for logging and CSV export.
var phaseOrder = []string{PhaseProbes, PhaseField, PhaseStats, PhaseExtrema, PhaseOutput}

// PerfSample holds timing data for a single pass.
type PerfSample struct {
	PassDuration time.Duration
	Evaluations  int
	Phases       map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window of passes.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	currentEvals  int
	passStart     time.Time
	phaseStart    time.Time
	lastPhase     string

	// Frame timing (for the preview window)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of passes to average over.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 16
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartPass begins timing a new pass.
func (p *PerfCollector) StartPass() {
	p.passStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.currentEvals = 0
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	// End previous phase if any
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// AddEvaluations counts noise evaluations made during the current pass.
func (p *PerfCollector) AddEvaluations(n int) {
	p.currentEvals += n
}

// EndPass finishes timing the current pass and records the sample.
func (p *PerfCollector) EndPass() {
	now := time.Now()
	// End final phase
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		PassDuration: now.Sub(p.passStart),
		Evaluations:  p.currentEvals,
		Phases:       p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records frame timing for the preview window.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Pass timing
	AvgPassDuration time.Duration
	MinPassDuration time.Duration
	MaxPassDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total pass time
	PhasePct map[string]float64

	// Throughput
	PassesPerSecond float64
	EvalsPerSecond  float64

	// Frame timing (preview)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	// Frame timing is always available (independent of pass samples)
	var fps float64
	if p.frameDuration > 0 {
		fps = float64(time.Second) / float64(p.frameDuration)
	}

	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg:      make(map[string]time.Duration),
			PhasePct:      make(map[string]float64),
			FrameDuration: p.frameDuration,
			FPS:           fps,
		}
	}

	var totalPass time.Duration
	var minPass, maxPass time.Duration
	var totalEvals int
	phaseSum := make(map[string]time.Duration)

	// Iterate over valid samples
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalPass += s.PassDuration
		totalEvals += s.Evaluations

		if i == 0 || s.PassDuration < minPass {
			minPass = s.PassDuration
		}
		if s.PassDuration > maxPass {
			maxPass = s.PassDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgPass := totalPass / time.Duration(p.sampleCount)

	// Calculate phase averages and percentages
	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgPass > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgPass) * 100
		}
	}

	// Calculate throughput
	var passesPerSec, evalsPerSec float64
	if avgPass > 0 {
		passesPerSec = float64(time.Second) / float64(avgPass)
	}
	if totalPass > 0 {
		evalsPerSec = float64(totalEvals) / totalPass.Seconds()
	}

	return PerfStats{
		AvgPassDuration: avgPass,
		MinPassDuration: minPass,
		MaxPassDuration: maxPass,
		PhaseAvg:        phaseAvg,
		PhasePct:        phasePct,
		PassesPerSecond: passesPerSec,
		EvalsPerSecond:  evalsPerSec,
		FrameDuration:   p.frameDuration,
		FPS:             fps,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_pass_us", s.AvgPassDuration.Microseconds(),
		"min_pass_us", s.MinPassDuration.Microseconds(),
		"max_pass_us", s.MaxPassDuration.Microseconds(),
		"evals_per_sec", int(s.EvalsPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_pass_us", s.AvgPassDuration.Microseconds()),
		slog.Int64("min_pass_us", s.MinPassDuration.Microseconds()),
		slog.Int64("max_pass_us", s.MaxPassDuration.Microseconds()),
		slog.Float64("evals_per_sec", s.EvalsPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Pass         int     `csv:"pass"`
	AvgPassUS    int64   `csv:"avg_pass_us"`
	MinPassUS    int64   `csv:"min_pass_us"`
	MaxPassUS    int64   `csv:"max_pass_us"`
	PassesPerSec float64 `csv:"passes_per_sec"`
	EvalsPerSec  float64 `csv:"evals_per_sec"`
	ProbesPct    float64 `csv:"probes_pct"`
	FieldPct     float64 `csv:"field_pct"`
	StatsPct     float64 `csv:"stats_pct"`
	ExtremaPct   float64 `csv:"extrema_pct"`
	OutputPct    float64 `csv:"output_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(pass int) PerfStatsCSV {
	return PerfStatsCSV{
		Pass:         pass,
		AvgPassUS:    s.AvgPassDuration.Microseconds(),
		MinPassUS:    s.MinPassDuration.Microseconds(),
		MaxPassUS:    s.MaxPassDuration.Microseconds(),
		PassesPerSec: s.PassesPerSecond,
		EvalsPerSec:  s.EvalsPerSecond,
		ProbesPct:    s.PhasePct[PhaseProbes],
		FieldPct:     s.PhasePct[PhaseField],
		StatsPct:     s.PhasePct[PhaseStats],
		ExtremaPct:   s.PhasePct[PhaseExtrema],
		OutputPct:    s.PhasePct[PhaseOutput],
	}
}
