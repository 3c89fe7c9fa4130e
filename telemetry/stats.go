package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	Cells       int `csv:"cells"`
	ActiveCells int `csv:"active_cells"`
	FatCells    int `csv:"fat_cells"`
	PhotoCells  int `csv:"photo_cells"`
	Food        int `csv:"food"`
	Connections int `csv:"connections"`

	// Events during window
	Deaths           int     `csv:"deaths"`
	FoodSpawned      int     `csv:"food_spawned"`
	DroppedAdditions int     `csv:"dropped_additions"`
	MeanLifespanSec  float64 `csv:"mean_lifespan"`

	// Resource pools (sampled at window end)
	CellEnergy   float64 `csv:"cell_energy"`   // Main plus fat-buffered energy in cells
	CellMaterial float64 `csv:"cell_material"` // Main plus fat-buffered material in cells
	FoodEnergy   float64 `csv:"food_energy"`
	FoodMaterial float64 `csv:"food_material"`

	// Energy distribution across cells
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`
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

// Distribution summarizes a sample.
type Distribution struct {
	Sum, Mean, Std float64
	P10, P50, P90  float64
}

// Summarize computes population mean/std and percentiles of values. The
// input is not modified.
func Summarize(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	mean, std := stat.PopMeanStdDev(values, nil)

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	return Distribution{
		Sum:  floats.Sum(values),
		Mean: mean,
		Std:  std,
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("cells", s.Cells),
		slog.Int("active_cells", s.ActiveCells),
		slog.Int("food", s.Food),
		slog.Int("connections", s.Connections),
		slog.Int("deaths", s.Deaths),
		slog.Int("dropped_additions", s.DroppedAdditions),
		slog.Float64("cell_energy", s.CellEnergy),
		slog.Float64("food_energy", s.FoodEnergy),
		slog.Float64("energy_mean", s.EnergyMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"cells", s.Cells,
		"active_cells", s.ActiveCells,
		"fat_cells", s.FatCells,
		"photo_cells", s.PhotoCells,
		"food", s.Food,
		"connections", s.Connections,
		"deaths", s.Deaths,
		"food_spawned", s.FoodSpawned,
		"dropped_additions", s.DroppedAdditions,
		"mean_lifespan", s.MeanLifespanSec,
		"cell_energy", s.CellEnergy,
		"cell_material", s.CellMaterial,
		"food_energy", s.FoodEnergy,
		"food_material", s.FoodMaterial,
		"energy_mean", s.EnergyMean,
		"energy_std", s.EnergyStd,
		"energy_p10", s.EnergyP10,
		"energy_p50", s.EnergyP50,
		"energy_p90", s.EnergyP90,
	)
}
