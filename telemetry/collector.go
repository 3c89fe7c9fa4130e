package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	deaths      int
	foodSpawned int
	dropped     int
	lifespanSum float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: nominal seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
	}
}

// RecordDeath records a cell death and how long the cell lived.
func (c *Collector) RecordDeath(lifespanSec float64) {
	c.deaths++
	c.lifespanSum += lifespanSec
}

// RecordFoodSpawned records a food addition that made it into the store.
func (c *Collector) RecordFoodSpawned() {
	c.foodSpawned++
}

// RecordDroppedAddition records an addition lost to a full store.
func (c *Collector) RecordDroppedAddition() {
	c.dropped++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Population is a census of the store taken at the end of a window.
type Population struct {
	Cells, ActiveCells   int
	FatCells, PhotoCells int
	Food                 int
	Connections          int // undirected edges

	CellEnergy, CellMaterial float64
	FoodEnergy, FoodMaterial float64

	// Energies holds each cell's main energy.
	Energies []float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, simTimeSec float64, pop Population) WindowStats {
	var meanLifespan float64
	if c.deaths > 0 {
		meanLifespan = c.lifespanSum / float64(c.deaths)
	}
	dist := Summarize(pop.Energies)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      simTimeSec,

		Cells:       pop.Cells,
		ActiveCells: pop.ActiveCells,
		FatCells:    pop.FatCells,
		PhotoCells:  pop.PhotoCells,
		Food:        pop.Food,
		Connections: pop.Connections,

		Deaths:           c.deaths,
		FoodSpawned:      c.foodSpawned,
		DroppedAdditions: c.dropped,
		MeanLifespanSec:  meanLifespan,

		CellEnergy:   pop.CellEnergy,
		CellMaterial: pop.CellMaterial,
		FoodEnergy:   pop.FoodEnergy,
		FoodMaterial: pop.FoodMaterial,

		EnergyMean: dist.Mean,
		EnergyStd:  dist.Std,
		EnergyP10:  dist.P10,
		EnergyP50:  dist.P50,
		EnergyP90:  dist.P90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.deaths = 0
	c.foodSpawned = 0
	c.dropped = 0
	c.lifespanSum = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
