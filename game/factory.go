package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/cellgrid/components"
)

// Scenario names accepted by Populate.
const (
	ScenarioEmpty    = "empty"
	ScenarioTriangle = "triangle"
	ScenarioRandom   = "random"
)

// maxInitialLinks caps how many connections the random scenario gives a cell.
const maxInitialLinks = 3

// Populate seeds the world with a named scenario.
func (s *Sim) Populate(scenario string) error {
	switch scenario {
	case ScenarioEmpty:
		return nil
	case ScenarioTriangle:
		_, err := s.SeedTriangle()
		return err
	case ScenarioRandom:
		return s.seedRandom()
	default:
		return fmt.Errorf("unknown scenario %q", scenario)
	}
}

// SeedTriangle adds three fully connected photosynthesisers moving toward
// each other.
func (s *Sim) SeedTriangle() ([3]EntityID, error) {
	starts := [3]struct{ x, y, vx, vy float64 }{
		{1.5, 1.5, 5, 0},
		{2.5, 1.7, -5, 5},
		{1.7, 2.5, 0, -5},
	}

	var ids [3]EntityID
	for i, p := range starts {
		c := components.NewCellWithVel(components.NewPhotosynthesiserCell(), p.x, p.y, 1, 1, 0, p.vx, p.vy)
		id, ok := s.AddCell(c)
		if !ok {
			return ids, fmt.Errorf("adding triangle cell %d: store full", i)
		}
		ids[i] = id
	}
	s.Connect(ids[0], ids[1])
	s.Connect(ids[1], ids[2])
	s.Connect(ids[2], ids[0])
	return ids, nil
}

// seedRandom scatters cells with random resources and links near neighbors.
func (s *Sim) seedRandom() error {
	pc := s.cfg.Population
	w, h := s.store.Bounds()
	margin := min(pc.SpawnMargin, w/2, h/2)

	ids := make([]EntityID, 0, pc.Initial)
	for i := 0; i < pc.Initial; i++ {
		raw := components.NewPhotosynthesiserCell()
		if s.rng.Float64() < pc.FatChance {
			raw = components.NewFatCell(s.cfg.Fat)
		}
		x := margin + s.rng.Float64()*(w-2*margin)
		y := margin + s.rng.Float64()*(h-2*margin)
		energy := 0.5 + 0.5*s.rng.Float64()
		material := 0.5 * s.rng.Float64()

		id, ok := s.AddCell(components.NewCell(raw, x, y, 1, energy, material))
		if !ok {
			slog.Warn("store full while seeding", "placed", len(ids), "wanted", pc.Initial)
			break
		}
		ids = append(ids, id)
	}

	links := 0
	radiusSq := pc.ConnectRadius * pc.ConnectRadius
	for _, id := range ids {
		c := &s.store.MustGet(id).Cell
		for _, nid := range s.NeighborsNear(c.X, c.Y) {
			if len(c.Connected) >= maxInitialLinks {
				break
			}
			if nid == id || c.IsConnectedTo(nid) {
				continue
			}
			n := s.store.MustGet(nid)
			if !n.IsCell() || len(n.Cell.Connected) >= maxInitialLinks {
				continue
			}
			dx, dy := n.Cell.X-c.X, n.Cell.Y-c.Y
			if dx*dx+dy*dy > radiusSq {
				continue
			}
			if s.Connect(id, nid) {
				links++
			}
		}
	}

	slog.Info("seeded random scenario", "cells", len(ids), "connections", links)
	return nil
}
