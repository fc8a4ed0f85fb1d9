package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// StepRecord is one row of fluid statistics, aggregated over a window
// of ticks and written to stats.csv.
type StepRecord struct {
	Tick          int     `csv:"tick"`
	KineticEnergy float64 `csv:"kinetic_energy"`
	MeanDensity   float64 `csv:"mean_density"`
	P10Density    float64 `csv:"p10_density"`
	P90Density    float64 `csv:"p90_density"`
	MaxSpeed      float64 `csv:"max_speed"`
}

// StatsCollector aggregates per-tick fluid measurements into windowed
// records. Density slices are copied and sorted internally; callers
// may keep mutating theirs.
type StatsCollector struct {
	window int

	ticksInWindow int
	kineticSum    float64
	maxSpeed      float64
	densities     []float64
}

// NewStatsCollector aggregates over window ticks per record.
func NewStatsCollector(window int) *StatsCollector {
	if window < 1 {
		window = 1
	}
	return &StatsCollector{window: window}
}

// Record accumulates one tick's measurements. It returns a completed
// window record and true when the window closes on this tick.
func (s *StatsCollector) Record(tick int, kineticEnergy, maxSpeed float64, densities []float64) (StepRecord, bool) {
	s.kineticSum += kineticEnergy
	if maxSpeed > s.maxSpeed {
		s.maxSpeed = maxSpeed
	}
	s.ticksInWindow++

	if s.ticksInWindow < s.window {
		return StepRecord{}, false
	}

	// Snapshot the density field at the closing tick only.
	s.densities = append(s.densities[:0], densities...)
	sort.Float64s(s.densities)

	rec := StepRecord{
		Tick:          tick,
		KineticEnergy: s.kineticSum / float64(s.ticksInWindow),
		MeanDensity:   stat.Mean(s.densities, nil),
		P10Density:    stat.Quantile(0.1, stat.Empirical, s.densities, nil),
		P90Density:    stat.Quantile(0.9, stat.Empirical, s.densities, nil),
		MaxSpeed:      s.maxSpeed,
	}

	s.ticksInWindow = 0
	s.kineticSum = 0
	s.maxSpeed = 0
	return rec, true
}

// Log emits a record via slog.
func (r StepRecord) Log() {
	slog.Info("stats",
		"tick", r.Tick,
		"kinetic_energy", r.KineticEnergy,
		"mean_density", r.MeanDensity,
		"p10_density", r.P10Density,
		"p90_density", r.P90Density,
		"max_speed", r.MaxSpeed,
	)
}
