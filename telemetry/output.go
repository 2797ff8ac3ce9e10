package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/perlin/config"
)

// Output file names.
const (
	ProbesFile     = "probes.csv"
	FieldStatsFile = "field_stats.csv"
	ExtremaFile    = "extrema.csv"
	PerfFile       = "perf.csv"
	ConfigFile     = "config.yaml"
)

// csvFile is an output file whose header is written with the first records.
type csvFile struct {
	name          string
	f             *os.File
	headerWritten bool
}

// write appends records. records must be a slice of csv-tagged structs.
func (c *csvFile) write(records interface{}) error {
	if !c.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, c.f); err != nil {
			return fmt.Errorf("writing %s: %w", c.name, err)
		}
		c.headerWritten = true
		return nil
	}
	// Subsequent writes skip headers
	if err := gocsv.MarshalWithoutHeaders(records, c.f); err != nil {
		return fmt.Errorf("writing %s: %w", c.name, err)
	}
	return nil
}

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir        string
	probes     *csvFile
	fieldStats *csvFile
	extrema    *csvFile
	perf       *csvFile
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	// Create output directory
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	targets := []struct {
		dst  **csvFile
		name string
	}{
		{&om.probes, ProbesFile},
		{&om.fieldStats, FieldStatsFile},
		{&om.extrema, ExtremaFile},
		{&om.perf, PerfFile},
	}

	for _, tgt := range targets {
		f, err := os.Create(filepath.Join(dir, tgt.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", tgt.name, err)
		}
		*tgt.dst = &csvFile{name: tgt.name, f: f}
	}

	return om, nil
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteProbes writes probe records to probes.csv.
func (om *OutputManager) WriteProbes(probes []Probe) error {
	if om == nil || len(probes) == 0 {
		return nil
	}
	return om.probes.write(probes)
}

// WriteFieldStats writes a field stats record to field_stats.csv.
func (om *OutputManager) WriteFieldStats(stats FieldStats) error {
	if om == nil {
		return nil
	}
	return om.fieldStats.write([]FieldStats{stats})
}

// WriteExtrema writes extremum records to extrema.csv.
func (om *OutputManager) WriteExtrema(results []Extremum) error {
	if om == nil || len(results) == 0 {
		return nil
	}
	return om.extrema.write(results)
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, pass int) error {
	if om == nil {
		return nil
	}
	return om.perf.write([]PerfStatsCSV{stats.ToCSV(pass)})
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, c := range []*csvFile{om.probes, om.fieldStats, om.extrema, om.perf} {
		if c == nil || c.f == nil {
			continue
		}
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
