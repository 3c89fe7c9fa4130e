package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1.0, 0.1)
	assert.Equal(t, int32(10), c.WindowDurationTicks())
	assert.False(t, c.ShouldFlush(9))
	assert.True(t, c.ShouldFlush(10))

	c.RecordDeath(2)
	c.RecordDeath(4)
	c.RecordFoodSpawned()
	c.RecordDroppedAddition()

	stats := c.Flush(10, 1.0, Population{
		Cells:       3,
		ActiveCells: 2,
		Food:        1,
		CellEnergy:  1.5,
		Energies:    []float64{0, 0.5, 1},
	})
	assert.Equal(t, int32(0), stats.WindowStartTick)
	assert.Equal(t, int32(10), stats.WindowEndTick)
	assert.Equal(t, 2, stats.Deaths)
	assert.Equal(t, 1, stats.FoodSpawned)
	assert.Equal(t, 1, stats.DroppedAdditions)
	assert.InDelta(t, 3.0, stats.MeanLifespanSec, 1e-12)
	assert.InDelta(t, 0.5, stats.EnergyMean, 1e-12)
	assert.InDelta(t, 0.5, stats.EnergyP50, 1e-12)

	// Counters reset and the next window starts where this one ended.
	next := c.Flush(20, 2.0, Population{})
	assert.Equal(t, int32(10), next.WindowStartTick)
	assert.Zero(t, next.Deaths)
	assert.Zero(t, next.MeanLifespanSec)
	assert.False(t, c.ShouldFlush(29))
}

func TestCollectorMinimumWindow(t *testing.T) {
	c := NewCollector(0.001, 0.1)
	assert.Equal(t, int32(1), c.WindowDurationTicks())
}
