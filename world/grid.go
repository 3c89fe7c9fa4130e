package world

import (
	"math"

	"github.com/pthm-cable/cellgrid/components"
)

// NeighborsInto appends the ids filed in the 3x3 block of buckets centered
// on (gx, gy) to dst and returns it. The block is clamped at the grid edges;
// there is no wraparound. Reuse dst across calls to avoid allocations.
func (s *Store) NeighborsInto(dst []EntityID, gx, gy int) []EntityID {
	x0, x1 := clampIndex(gx-1, s.width), clampIndex(gx+1, s.width)
	y0, y1 := clampIndex(gy-1, s.height), clampIndex(gy+1, s.height)

	for y := y0; y <= y1; y++ {
		row := y * s.width
		for x := x0; x <= x1; x++ {
			dst = append(dst, s.buckets[row+x]...)
		}
	}
	return dst
}

// Neighbors returns the ids in the 3x3 neighborhood of (gx, gy).
func (s *Store) Neighbors(gx, gy int) []EntityID {
	return s.NeighborsInto(nil, gx, gy)
}

// PickAt returns the entity whose footprint contains the grid-space point
// (x, y). When footprints overlap the one with the smallest normalized
// distance wins. Only the 3x3 neighborhood of the point is searched, so
// entities larger than one grid unit may be missed near their edges.
func (s *Store) PickAt(x, y float64) (EntityID, bool) {
	w, h := s.Bounds()
	if x < 0 || y < 0 || x >= w || y >= h || math.IsNaN(x) || math.IsNaN(y) {
		return EntityID{}, false
	}

	gx, gy := s.GridPos(x, y)
	var (
		best     EntityID
		bestDist = math.Inf(1)
		found    bool
	)
	for _, id := range s.Neighbors(gx, gy) {
		e := s.MustGet(id)
		d := e.Body().NormalizedDistance(x, y)
		if d <= 0.5 && d < bestDist {
			best, bestDist, found = id, d, true
		}
	}
	return best, found
}

// CountKind returns how many live entities of the given kind are stored.
func (s *Store) CountKind(kind components.Kind) int {
	n := 0
	s.Each(func(_ EntityID, e *components.Entity) {
		if e.Kind == kind {
			n++
		}
	})
	return n
}
