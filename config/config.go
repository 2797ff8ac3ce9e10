// Package config provides configuration loading and access for the noise tools.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Probes    ProbesConfig    `yaml:"probes"`
	Field     FieldConfig     `yaml:"field"`
	Extrema   ExtremaConfig   `yaml:"extrema"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Preview   PreviewConfig   `yaml:"preview"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Format string `yaml:"format"` // json or text
	Level  string `yaml:"level"`  // debug, info, warn, error
}

// ProbesConfig lists the individual calls evaluated and reported at startup.
type ProbesConfig struct {
	Fade  []float64    `yaml:"fade"`  // t values
	Lerp  [][3]float64 `yaml:"lerp"`  // (t, a, b)
	Grad  []GradProbe  `yaml:"grad"`
	Noise [][3]float64 `yaml:"noise"` // (x, y, z)
}

// GradProbe is a single gradient lookup.
type GradProbe struct {
	Hash int        `yaml:"hash"`
	At   [3]float64 `yaml:"at"`
}

// FieldConfig describes the z-slice sampled for statistics.
type FieldConfig struct {
	Width   int     `yaml:"width"`    // Samples per row
	Height  int     `yaml:"height"`   // Rows
	OriginX float64 `yaml:"origin_x"` // Lattice coordinate of the slice corner
	OriginY float64 `yaml:"origin_y"`
	Z       float64 `yaml:"z"`
	Scale   float64 `yaml:"scale"`   // Lattice units per sample
	Workers int     `yaml:"workers"` // 0 = GOMAXPROCS
}

// ExtremaConfig holds extrema search parameters.
type ExtremaConfig struct {
	Enabled  bool         `yaml:"enabled"`
	Starts   [][3]float64 `yaml:"starts"`    // Start points for each local search
	MaxEvals int          `yaml:"max_evals"` // Function evaluations per search
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// PreviewConfig holds settings for the interactive preview.
type PreviewConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	TargetFPS   int     `yaml:"target_fps"`
	TextureSize int     `yaml:"texture_size"`
	Zoom        float64 `yaml:"zoom"` // Initial pixels per lattice unit
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	LogLevel    slog.Level // Log.Level parsed
	FieldPoints int        // Field.Width * Field.Height
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format %q: want json or text", c.Log.Format)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Field.Width < 1 || c.Field.Height < 1 {
		return fmt.Errorf("field size %dx%d: both dimensions must be positive", c.Field.Width, c.Field.Height)
	}
	if c.Field.Scale <= 0 {
		return fmt.Errorf("field.scale %v: must be positive", c.Field.Scale)
	}
	if c.Field.Workers < 0 {
		return fmt.Errorf("field.workers %d: must not be negative", c.Field.Workers)
	}
	if c.Extrema.Enabled && c.Extrema.MaxEvals < 1 {
		return fmt.Errorf("extrema.max_evals %d: must be positive", c.Extrema.MaxEvals)
	}
	return nil
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", name, err)
	}
	return level, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.LogLevel, _ = ParseLevel(c.Log.Level)
	c.Derived.FieldPoints = c.Field.Width * c.Field.Height

	if c.Telemetry.PerfCollectorWindow < 1 {
		c.Telemetry.PerfCollectorWindow = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
