package game

import (
	"log/slog"
)

// logWorldState logs a one-line summary of the world.
func (s *Sim) logWorldState() {
	pop := s.Census()

	var avgEnergy float64
	if pop.Cells > 0 {
		avgEnergy = pop.CellEnergy / float64(pop.Cells)
	}

	slog.Info("world",
		"tick", s.tick,
		"sim_time", s.simTime,
		"entities", s.store.Len(),
		"slots", s.store.SlotCount(),
		"tombstones", s.store.EmptyCount(),
		"cells", pop.Cells,
		"active", pop.ActiveCells,
		"fat", pop.FatCells,
		"photo", pop.PhotoCells,
		"food", pop.Food,
		"connections", pop.Connections,
		"avg_energy", avgEnergy,
		"food_energy", pop.FoodEnergy,
		"dropped", s.dropped,
	)
}
