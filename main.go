package main

import (
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/pthm-cable/perlin/config"
	"github.com/pthm-cable/perlin/field"
	"github.com/pthm-cable/perlin/noise"
	"github.com/pthm-cable/perlin/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logFormat := flag.String("log-format", "", "Log format: json or text (empty = use config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (empty = use config)")
	skipExtrema := flag.Bool("skip-extrema", false, "Skip the extrema search")
	passes := flag.Int("passes", 1, "Number of field sampling passes (perf is averaged over them)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	logger, err := newLogger(cfg.Log, *logFormat, *logLevel)
	if err != nil {
		slog.Error("invalid log settings", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if err := run(cfg, *outputDir, *passes, !*skipExtrema && cfg.Extrema.Enabled); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger. Flag values override the config.
func newLogger(lc config.LogConfig, format, level string) (*slog.Logger, error) {
	if format == "" {
		format = lc.Format
	}
	if level == "" {
		level = lc.Level
	}
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts)), nil
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts)), nil
}

func run(cfg *config.Config, outputDir string, passes int, extrema bool) error {
	if passes < 1 {
		passes = 1
	}

	out, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := out.WriteConfig(cfg); err != nil {
		return err
	}

	p := noise.New()
	sampler := field.NewSampler(p, cfg.Field.Workers)
	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)

	spec := field.Spec{
		Width:   cfg.Field.Width,
		Height:  cfg.Field.Height,
		OriginX: cfg.Field.OriginX,
		OriginY: cfg.Field.OriginY,
		Z:       cfg.Field.Z,
		Scale:   cfg.Field.Scale,
	}

	slog.Info("starting",
		"field_width", spec.Width,
		"field_height", spec.Height,
		"workers", sampler.Workers(),
		"passes", passes,
		"extrema", extrema,
	)

	var values []float64
	for pass := 1; pass <= passes; pass++ {
		perf.StartPass()

		// Probes are reported once; later passes only time the field
		if pass == 1 {
			perf.StartPhase(telemetry.PhaseProbes)
			probes := telemetry.RunProbes(p, cfg.Probes)
			perf.AddEvaluations(len(probes))
			telemetry.LogProbes(slog.Default(), probes)
			if err := out.WriteProbes(probes); err != nil {
				return err
			}
		}

		perf.StartPhase(telemetry.PhaseField)
		values = sampler.Sample(spec, values)
		perf.AddEvaluations(len(values))

		perf.StartPhase(telemetry.PhaseStats)
		stats := telemetry.ComputeFieldStats(spec, values)
		if pass == passes {
			stats.LogStats()
		}

		perf.StartPhase(telemetry.PhaseOutput)
		if err := out.WriteFieldStats(stats); err != nil {
			return err
		}

		if extrema && pass == passes {
			perf.StartPhase(telemetry.PhaseExtrema)
			results, err := telemetry.SearchExtrema(p, cfg.Extrema.Starts, cfg.Extrema.MaxEvals)
			if err != nil {
				return err
			}
			for _, r := range results {
				perf.AddEvaluations(r.Evaluations)
				slog.Debug("extremum", "result", r)
			}
			if lo, hi, ok := telemetry.Bounds(results); ok {
				slog.Info("extrema", "min", lo, "max", hi)
			}
			if err := out.WriteExtrema(results); err != nil {
				return err
			}
		}

		perf.EndPass()
		if err := out.WritePerf(perf.Stats(), pass); err != nil {
			return err
		}
	}

	perf.Stats().LogStats()
	if dir := out.Dir(); dir != "" {
		slog.Info("output written", "dir", dir)
	}
	return nil
}
