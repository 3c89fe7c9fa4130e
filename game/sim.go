// Package game drives the simulation: it owns the entity store and runs the
// per-tick update pipeline.
package game

import (
	"math/rand"
	"slices"

	"github.com/pthm-cable/cellgrid/camera"
	"github.com/pthm-cable/cellgrid/components"
	"github.com/pthm-cable/cellgrid/config"
	"github.com/pthm-cable/cellgrid/systems"
	"github.com/pthm-cable/cellgrid/telemetry"
	"github.com/pthm-cable/cellgrid/world"
)

// EntityID is the handle callers keep across ticks.
type EntityID = components.EntityID

// Sim answers camera picks directly.
var _ camera.Picker = (*Sim)(nil)

// Options configures a Sim beyond what the config file covers.
type Options struct {
	Seed int64

	// Workers overrides cfg.Derived.Workers when positive.
	Workers int

	// Perf receives per-phase timings from Tick. May be nil.
	Perf *telemetry.PerfCollector

	// Output receives telemetry windows. May be nil.
	Output *telemetry.OutputManager

	// LogStats logs each telemetry window.
	LogStats bool

	// StatsCallback is called with each flushed telemetry window.
	StatsCallback func(telemetry.WindowStats)
}

// Sim holds the complete simulation state.
type Sim struct {
	cfg    *config.Config
	params systems.Params
	store  *world.Store
	rng    *rand.Rand

	parallel *parallelState
	cellIDs  []EntityID // compute-phase work list, reused across ticks

	// State
	tick    int32
	simTime float64

	// Telemetry
	collector     *telemetry.Collector
	lifetimes     *telemetry.LifetimeTracker
	perf          *telemetry.PerfCollector
	output        *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	dropped       int
}

// NewSim creates an empty simulation. Call Close when done to stop the
// worker pool.
func NewSim(cfg *config.Config, opts Options) *Sim {
	workers := cfg.Derived.Workers
	if opts.Workers > 0 {
		workers = opts.Workers
	}
	return &Sim{
		cfg:           cfg,
		params:        systems.NewParams(cfg),
		store:         world.NewStore(cfg.World.Width, cfg.World.Height, cfg.Derived.MaxEntities),
		rng:           rand.New(rand.NewSource(opts.Seed)),
		parallel:      newParallelState(workers, cfg.Parallel.Threshold),
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Physics.DT),
		lifetimes:     telemetry.NewLifetimeTracker(),
		perf:          opts.Perf,
		output:        opts.Output,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}
}

// Close stops the worker pool.
func (s *Sim) Close() {
	s.parallel.stopWorkers()
}

// Store exposes the entity store for read access and tests.
func (s *Sim) Store() *world.Store { return s.store }

// Config returns the configuration the sim was built with.
func (s *Sim) Config() *config.Config { return s.cfg }

// TickCount returns the number of completed ticks.
func (s *Sim) TickCount() int32 { return s.tick }

// SimTime returns the simulated seconds elapsed.
func (s *Sim) SimTime() float64 { return s.simTime }

// Dropped returns how many additions were lost to a full store.
func (s *Sim) Dropped() int { return s.dropped }

// AddCell inserts a cell. Returns false when the store is full.
func (s *Sim) AddCell(c components.Cell) (EntityID, bool) {
	id, ok := s.store.Add(components.CellEntity(c))
	if ok {
		s.lifetimes.Register(id.Pack(), s.tick, s.simTime, c.Energy)
	}
	return id, ok
}

// AddFood inserts a food pellet. Returns false when the store is full.
func (s *Sim) AddFood(f components.Food) (EntityID, bool) {
	return s.store.Add(components.FoodEntity(f))
}

// Get returns a copy of the entity behind id.
func (s *Sim) Get(id EntityID) (components.Entity, bool) {
	e, ok := s.store.Get(id)
	if !ok {
		return components.Entity{}, false
	}
	out := *e
	out.Cell.Connected = slices.Clone(e.Cell.Connected)
	return out, true
}

// GetMut returns a pointer into the store. It is invalidated by the next
// Add or Tick; never keep it.
func (s *Sim) GetMut(id EntityID) (*components.Entity, bool) {
	return s.store.Get(id)
}

// Connect links two distinct live cells. Returns false for stale ids,
// non-cells, self links and existing links.
func (s *Sim) Connect(a, b EntityID) bool {
	ca, cb, ok := s.cellPair(a, b)
	if !ok || ca.IsConnectedTo(b) {
		return false
	}
	ca.Connected = append(ca.Connected, b)
	cb.Connected = append(cb.Connected, a)
	return true
}

// Disconnect removes the link between a and b. Returns false if there was none.
func (s *Sim) Disconnect(a, b EntityID) bool {
	ca, cb, ok := s.cellPair(a, b)
	if !ok || !ca.IsConnectedTo(b) {
		return false
	}
	ca.Connected = slices.DeleteFunc(ca.Connected, func(id EntityID) bool { return id == b })
	cb.Connected = slices.DeleteFunc(cb.Connected, func(id EntityID) bool { return id == a })
	return true
}

func (s *Sim) cellPair(a, b EntityID) (*components.Cell, *components.Cell, bool) {
	if a == b {
		return nil, nil, false
	}
	ea, ok := s.store.Get(a)
	if !ok || !ea.IsCell() {
		return nil, nil, false
	}
	eb, ok := s.store.Get(b)
	if !ok || !eb.IsCell() {
		return nil, nil, false
	}
	return &ea.Cell, &eb.Cell, true
}

// NeighborsNear returns the ids in the 3x3 bucket neighborhood of a
// grid-space point.
func (s *Sim) NeighborsNear(x, y float64) []EntityID {
	gx, gy := s.store.GridPos(x, y)
	return s.store.Neighbors(gx, gy)
}

// PickAt returns the entity under a grid-space point.
func (s *Sim) PickAt(x, y float64) (EntityID, bool) {
	return s.store.PickAt(x, y)
}
