package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a frame window.
type WindowStats struct {
	WindowStartFrame int32 `csv:"-"`
	WindowEndFrame   int32 `csv:"window_end"`

	// Pool occupancy at window end
	Alive int `csv:"alive"`
	Dying int `csv:"dying"`

	// Events during window
	SpawnedFull    int `csv:"spawned_full"`
	SpawnedPartial int `csv:"spawned_partial"`
	SpawnedManual  int `csv:"spawned_manual"`
	Removed        int `csv:"removed"`

	// Colour mix of spawns against the split in effect
	ObservedFull    float64 `csv:"observed_full"`
	ObservedPartial float64 `csv:"observed_partial"`
	ObservedManual  float64 `csv:"observed_manual"`
	TargetFull      float64 `csv:"target_full"`
	TargetPartial   float64 `csv:"target_partial"`
	TargetManual    float64 `csv:"target_manual"`
	ChiSquare       float64 `csv:"chi_square"`

	// Lifetime of removed ribbons, in frames
	LifetimeMean float64 `csv:"lifetime_mean"`
	LifetimeStd  float64 `csv:"lifetime_std"`
	LifetimeP50  float64 `csv:"lifetime_p50"`
	LifetimeP90  float64 `csv:"lifetime_p90"`
}

// Percentile returns the p-th empirical quantile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeLifetimeStats summarizes lifetimes. values is sorted in place.
func ComputeLifetimeStats(values []float64) (mean, std, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	sort.Float64s(values)
	mean, std = stat.MeanStdDev(values, nil)
	if len(values) < 2 {
		std = 0
	}
	return mean, std, Percentile(values, 0.5), Percentile(values, 0.9)
}

// ChiSquare compares observed spawn counts with the counts expected under
// target. Classes with no expected share are skipped. Returns 0 for no spawns.
func ChiSquare(observed []float64, target []float64) float64 {
	total := 0.0
	for _, o := range observed {
		total += o
	}
	if total == 0 {
		return 0
	}
	var obs, exp []float64
	for i := range observed {
		if target[i] <= 0 {
			continue
		}
		obs = append(obs, observed[i])
		exp = append(exp, target[i]*total)
	}
	if len(exp) == 0 {
		return 0
	}
	return stat.ChiSquare(obs, exp)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartFrame)),
		slog.Int("window_end", int(s.WindowEndFrame)),
		slog.Int("alive", s.Alive),
		slog.Int("dying", s.Dying),
		slog.Int("spawned_full", s.SpawnedFull),
		slog.Int("spawned_partial", s.SpawnedPartial),
		slog.Int("spawned_manual", s.SpawnedManual),
		slog.Int("removed", s.Removed),
		slog.Float64("observed_full", s.ObservedFull),
		slog.Float64("observed_partial", s.ObservedPartial),
		slog.Float64("observed_manual", s.ObservedManual),
		slog.Float64("chi_square", s.ChiSquare),
		slog.Float64("lifetime_mean", s.LifetimeMean),
		slog.Float64("lifetime_std", s.LifetimeStd),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"alive", s.Alive,
		"dying", s.Dying,
		"spawned_full", s.SpawnedFull,
		"spawned_partial", s.SpawnedPartial,
		"spawned_manual", s.SpawnedManual,
		"removed", s.Removed,
		"observed_full", s.ObservedFull,
		"observed_partial", s.ObservedPartial,
		"observed_manual", s.ObservedManual,
		"chi_square", s.ChiSquare,
		"lifetime_mean", s.LifetimeMean,
		"lifetime_std", s.LifetimeStd,
		"lifetime_p50", s.LifetimeP50,
		"lifetime_p90", s.LifetimeP90,
	)
}
