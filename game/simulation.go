package game

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/pthm-cable/cellgrid/components"
	"github.com/pthm-cable/cellgrid/systems"
	"github.com/pthm-cable/cellgrid/telemetry"
)

// Tick advances the simulation by dt seconds, timing phases into the
// collector given in Options.
func (s *Sim) Tick(dt float64) {
	s.TickWithProfile(dt, s.perf)
}

// TickWithProfile advances the simulation by dt seconds. dt is clamped to
// physics.max_dt; non-positive values are ignored. perf may be nil.
//
// The store is read-only between the prune and merge phases; every change
// computed for the tick is applied in merge, entities marked for removal
// are dropped in sync, and new food is inserted last.
func (s *Sim) TickWithProfile(dt float64, perf *telemetry.PerfCollector) {
	if !(dt > 0) {
		return
	}
	dt = min(dt, s.cfg.Physics.MaxDT)

	perf.StartTick()

	perf.StartPhase(telemetry.PhasePrune)
	s.pruneConnections()

	perf.StartPhase(telemetry.PhaseCompute)
	s.cellIDs = s.store.AppendIDs(s.cellIDs[:0], components.KindCell)
	s.compute(dt)

	perf.StartPhase(telemetry.PhaseMerge)
	s.merge()

	perf.StartPhase(telemetry.PhaseSync)
	s.store.SyncFields()

	perf.StartPhase(telemetry.PhaseFlush)
	s.flushAdditions()

	perf.EndTick()

	s.tick++
	s.simTime += dt

	s.flushTelemetry()
	if n := s.cfg.Telemetry.LogInterval; n > 0 && s.tick%int32(n) == 0 {
		s.logWorldState()
	}
}

// pruneConnections drops connections whose other end was removed. Removal
// happens in sync, so edges to dead cells survive one tick boundary and are
// cleaned here before anyone resolves them.
func (s *Sim) pruneConnections() {
	s.store.Each(func(_ EntityID, e *components.Entity) {
		if !e.IsCell() || len(e.Cell.Connected) == 0 {
			return
		}
		e.Cell.Connected = slices.DeleteFunc(e.Cell.Connected, func(id EntityID) bool {
			return !s.store.IDIsValid(id)
		})
	})
}

// merge applies every change in work-list order. Changes only ever address
// cells that were live at the start of the tick.
func (s *Sim) merge() {
	p := s.parallel
	for i := range p.outputs[:p.used] {
		for _, ch := range p.outputs[i].Changes {
			e, id, ok := s.store.Slot(int(ch.Slot))
			if !ok {
				panic(fmt.Sprintf("game: %s change addressed to empty slot %d", ch.Kind, ch.Slot))
			}
			if !e.IsCell() {
				panic(fmt.Sprintf("game: %s change addressed to %s %v", ch.Kind, e.Kind, id))
			}
			if ch.Kind == systems.SetRemoved && ch.Flag && !e.Cell.ShouldBeRemoved {
				s.recordDeath(id)
			}
			systems.ApplyChange(&e.Cell, ch)
		}
	}
}

func (s *Sim) recordDeath(id EntityID) {
	var lifespan float64
	if lt := s.lifetimes.Remove(id.Pack()); lt != nil {
		lifespan = s.simTime - lt.BirthTimeSec
	}
	s.collector.RecordDeath(lifespan)
}

// flushAdditions inserts the food produced this tick. A full store drops
// the addition.
func (s *Sim) flushAdditions() {
	p := s.parallel
	for i := range p.outputs[:p.used] {
		for _, a := range p.outputs[i].Additions {
			if _, ok := s.AddFood(a.Food); !ok {
				s.dropped++
				s.collector.RecordDroppedAddition()
				slog.Debug("store full, dropping food",
					"tick", s.tick,
					"x", a.Food.X,
					"y", a.Food.Y,
					"energy", a.Food.Energy,
					"material", a.Food.Material,
				)
				continue
			}
			s.collector.RecordFoodSpawned()
		}
	}
}
