package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/lagoon-sim/lagoon/config"
)

// PerfRecord is one row of perf.csv: the windowed tick time plus the
// per-phase averages at the time of writing.
type PerfRecord struct {
	Tick        int     `csv:"tick"`
	StepMicros  int64   `csv:"step_us"`
	Predict     int64   `csv:"predict_us"`
	Grid        int64   `csv:"grid_us"`
	Density     int64   `csv:"density_us"`
	Pressure    int64   `csv:"pressure_us"`
	Viscosity   int64   `csv:"viscosity_us"`
	Integrate   int64   `csv:"integrate_us"`
	Collide     int64   `csv:"collide_us"`
	TicksPerSec float64 `csv:"ticks_per_sec"`
}

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir       string
	statsFile *os.File
	perfFile  *os.File

	statsHeaderWritten bool
	perfHeaderWritten  bool
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "stats.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating stats.csv: %w", err)
	}
	om.statsFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.statsFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	return om, nil
}

// WriteConfig saves the configuration used for this run as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteStats appends a stats record to stats.csv.
func (om *OutputManager) WriteStats(rec StepRecord) error {
	if om == nil {
		return nil
	}
	records := []StepRecord{rec}
	if !om.statsHeaderWritten {
		if err := gocsv.Marshal(records, om.statsFile); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
		om.statsHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.statsFile); err != nil {
		return fmt.Errorf("writing stats: %w", err)
	}
	return nil
}

// WritePerf appends a perf record built from the collector's current
// window to perf.csv. Phase names follow the fluid stepper's phases.
func (om *OutputManager) WritePerf(tick int, p *PerfCollector) error {
	if om == nil {
		return nil
	}
	total := p.Total()
	rec := PerfRecord{
		Tick:       tick,
		StepMicros: total.Microseconds(),
		Predict:    p.Avg("predict").Microseconds(),
		Grid:       p.Avg("grid").Microseconds(),
		Density:    p.Avg("density").Microseconds(),
		Pressure:   p.Avg("pressure").Microseconds(),
		Viscosity:  p.Avg("viscosity").Microseconds(),
		Integrate:  p.Avg("integrate").Microseconds(),
		Collide:    p.Avg("collide").Microseconds(),
	}
	if total > 0 {
		rec.TicksPerSec = float64(time.Second) / float64(total)
	}

	records := []PerfRecord{rec}
	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
		om.perfHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, f := range []*os.File{om.statsFile, om.perfFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
