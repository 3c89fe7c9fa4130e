package telemetry

import "github.com/kamstrup/intmap"

// LifetimeStats tracks per-cell statistics over its lifetime.
type LifetimeStats struct {
	BirthTick    int32
	BirthTimeSec float64
	PeakEnergy   float64
}

// LifetimeTracker manages per-cell lifetime statistics, keyed by packed
// entity id so a reused slot never inherits a previous occupant's record.
type LifetimeTracker struct {
	stats *intmap.Map[uint64, *LifetimeStats]
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: intmap.New[uint64, *LifetimeStats](256),
	}
}

// Register creates lifetime stats for a new cell.
func (lt *LifetimeTracker) Register(id uint64, birthTick int32, birthTimeSec, energy float64) {
	lt.stats.Put(id, &LifetimeStats{
		BirthTick:    birthTick,
		BirthTimeSec: birthTimeSec,
		PeakEnergy:   energy,
	})
}

// Get returns the lifetime stats for a cell, or nil if not found.
func (lt *LifetimeTracker) Get(id uint64) *LifetimeStats {
	s, _ := lt.stats.Get(id)
	return s
}

// Remove removes a cell's stats and returns them.
func (lt *LifetimeTracker) Remove(id uint64) *LifetimeStats {
	s, ok := lt.stats.Get(id)
	if !ok {
		return nil
	}
	lt.stats.Del(id)
	return s
}

// UpdateEnergy tracks peak energy.
func (lt *LifetimeTracker) UpdateEnergy(id uint64, energy float64) {
	if s, ok := lt.stats.Get(id); ok && energy > s.PeakEnergy {
		s.PeakEnergy = energy
	}
}

// Count returns the number of tracked cells.
func (lt *LifetimeTracker) Count() int {
	return lt.stats.Len()
}
