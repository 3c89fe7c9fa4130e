package game

import (
	"log/slog"

	"github.com/pthm-cable/cellgrid/components"
	"github.com/pthm-cable/cellgrid/telemetry"
)

// flushTelemetry closes the stats window once it has run its length.
func (s *Sim) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, s.simTime, s.Census())
	perfStats := s.perf.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		if s.perf != nil {
			perfStats.LogStats()
		}
	}

	if err := s.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if s.perf != nil {
		if err := s.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// Census counts the store's contents and totals its resource pools. Cell
// totals include fat-buffered stores.
func (s *Sim) Census() telemetry.Population {
	var pop telemetry.Population
	edges := 0

	s.store.Each(func(id EntityID, e *components.Entity) {
		switch e.Kind {
		case components.KindCell:
			c := &e.Cell
			pop.Cells++
			if c.IsActive {
				pop.ActiveCells++
			}
			switch c.Raw.Type {
			case components.CellFat:
				pop.FatCells++
			case components.CellPhotosynthesiser:
				pop.PhotoCells++
			}
			edges += len(c.Connected)
			pop.CellEnergy += c.StoredEnergy()
			pop.CellMaterial += c.StoredMaterial()
			pop.Energies = append(pop.Energies, c.Energy)
			s.lifetimes.UpdateEnergy(id.Pack(), c.Energy)
		case components.KindFood:
			pop.Food++
			pop.FoodEnergy += e.Food.Energy
			pop.FoodMaterial += e.Food.Material
		}
	})

	// Each edge is stored on both endpoints.
	pop.Connections = edges / 2
	return pop
}
