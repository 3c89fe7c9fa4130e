// Package world provides the generational entity store and its grid-bucket index.
package world

import (
	"fmt"
	"math"
	"slices"

	"github.com/pthm-cable/cellgrid/components"
)

// EntityID is re-exported for callers that only deal with the store.
type EntityID = components.EntityID

// reuseRatio is the tombstone fraction at which Add starts reusing slots
// instead of appending.
const reuseRatio = 0.05

type slot struct {
	entity     components.Entity
	occupied   bool
	generation uint32
}

// Store is a generational slot table plus a row-major grid of buckets, one
// bucket per unit grid cell. Every live entity's id sits in exactly the
// bucket named by its cached Body.GridX/GridY; SyncFields is the only place
// that moves ids between buckets.
//
// Pointers returned by Get are invalidated by Add. Callers must hold
// EntityIDs across ticks, never pointers.
type Store struct {
	width, height int
	capacity      int

	slots  []slot
	live   int
	empty  int
	cursor int // next slot to inspect when reusing tombstones

	buckets [][]EntityID
}

// NewStore creates a store covering a width x height grid that holds at most
// capacity live entities.
func NewStore(width, height, capacity int) *Store {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("world: invalid grid size %dx%d", width, height))
	}
	buckets := make([][]EntityID, width*height)
	for i := range buckets {
		buckets[i] = make([]EntityID, 0, 4)
	}
	return &Store{
		width:    width,
		height:   height,
		capacity: capacity,
		buckets:  buckets,
	}
}

// Width returns the grid width in buckets.
func (s *Store) Width() int { return s.width }

// Height returns the grid height in buckets.
func (s *Store) Height() int { return s.height }

// Bounds returns the grid size as floats.
func (s *Store) Bounds() (float64, float64) {
	return float64(s.width), float64(s.height)
}

// Capacity returns the maximum number of live entities.
func (s *Store) Capacity() int { return s.capacity }

// Len returns the number of live entities.
func (s *Store) Len() int { return s.live }

// SlotCount returns the number of slots, live or tombstoned.
func (s *Store) SlotCount() int { return len(s.slots) }

// EmptyCount returns the number of tombstoned slots.
func (s *Store) EmptyCount() int { return s.empty }

// Add inserts an entity and files it in its bucket. The position is clamped
// into the grid and the bucket cache reseeded from it. Returns false when
// the store is at capacity.
func (s *Store) Add(e components.Entity) (EntityID, bool) {
	if s.live >= s.capacity {
		return EntityID{}, false
	}

	body := e.Body()
	if math.IsNaN(body.X) || math.IsNaN(body.Y) {
		panic(fmt.Sprintf("world: adding %s with NaN position", e.Kind))
	}
	w, h := s.Bounds()
	body.X = clampCoord(body.X, w)
	body.Y = clampCoord(body.Y, h)
	body.GridX, body.GridY = s.GridPos(body.X, body.Y)

	idx := s.chooseSlot()
	sl := &s.slots[idx]
	sl.entity = e
	sl.occupied = true
	s.live++

	id := EntityID{Slot: uint32(idx), Generation: sl.generation}
	b := s.bucketIndex(body.GridX, body.GridY)
	s.buckets[b] = append(s.buckets[b], id)
	return id, true
}

// chooseSlot returns a tombstoned slot once enough of them have accumulated,
// otherwise a freshly appended one.
func (s *Store) chooseSlot() int {
	n := len(s.slots)
	if n > 0 && float64(s.empty)/float64(n) >= reuseRatio {
		for i := 0; i < n; i++ {
			idx := (s.cursor + i) % n
			if !s.slots[idx].occupied {
				s.cursor = (idx + 1) % n
				s.empty--
				return idx
			}
		}
		panic(fmt.Sprintf("world: empty count %d but no tombstoned slot among %d", s.empty, n))
	}
	s.slots = append(s.slots, slot{})
	return n
}

// Get resolves an id. It returns false for out-of-range slots, empty slots,
// and generation mismatches.
func (s *Store) Get(id EntityID) (*components.Entity, bool) {
	if int(id.Slot) >= len(s.slots) {
		return nil, false
	}
	sl := &s.slots[id.Slot]
	if !sl.occupied || sl.generation != id.Generation {
		return nil, false
	}
	return &sl.entity, true
}

// IDIsValid reports whether id still names a live entity.
func (s *Store) IDIsValid(id EntityID) bool {
	_, ok := s.Get(id)
	return ok
}

// MustGet resolves an id that the caller has already established is valid.
// A stale id here means the index and the slots disagree.
func (s *Store) MustGet(id EntityID) *components.Entity {
	e, ok := s.Get(id)
	if !ok {
		panic(fmt.Sprintf("world: entity %v referenced but its slot is empty or reused", id))
	}
	return e
}

// Slot returns the live entity in slot idx along with its id.
func (s *Store) Slot(idx int) (*components.Entity, EntityID, bool) {
	if idx < 0 || idx >= len(s.slots) || !s.slots[idx].occupied {
		return nil, EntityID{}, false
	}
	sl := &s.slots[idx]
	return &sl.entity, EntityID{Slot: uint32(idx), Generation: sl.generation}, true
}

// MustSlot is Slot for indices produced during the current tick.
func (s *Store) MustSlot(idx int) *components.Entity {
	e, _, ok := s.Slot(idx)
	if !ok {
		panic(fmt.Sprintf("world: change addressed to empty slot %d", idx))
	}
	return e
}

// Each calls fn for every live entity in slot order. fn must not add entities.
func (s *Store) Each(fn func(id EntityID, e *components.Entity)) {
	for i := range s.slots {
		sl := &s.slots[i]
		if !sl.occupied {
			continue
		}
		fn(EntityID{Slot: uint32(i), Generation: sl.generation}, &sl.entity)
	}
}

// AppendIDs appends the ids of all live entities of the given kind.
func (s *Store) AppendIDs(dst []EntityID, kind components.Kind) []EntityID {
	for i := range s.slots {
		sl := &s.slots[i]
		if sl.occupied && sl.entity.Kind == kind {
			dst = append(dst, EntityID{Slot: uint32(i), Generation: sl.generation})
		}
	}
	return dst
}

// SyncFields applies pending removals and refiles entities whose position
// crossed a bucket boundary. Must run exactly once per tick after all
// position changes.
func (s *Store) SyncFields() {
	for i := range s.slots {
		sl := &s.slots[i]
		if !sl.occupied {
			continue
		}
		id := EntityID{Slot: uint32(i), Generation: sl.generation}
		body := sl.entity.Body()

		if body.ShouldBeRemoved {
			s.unfile(id, body.GridX, body.GridY)
			*sl = slot{generation: sl.generation + 1}
			s.live--
			s.empty++
			continue
		}

		gx, gy := s.GridPos(body.X, body.Y)
		if gx == body.GridX && gy == body.GridY {
			continue
		}
		s.unfile(id, body.GridX, body.GridY)
		body.GridX, body.GridY = gx, gy
		b := s.bucketIndex(gx, gy)
		s.buckets[b] = append(s.buckets[b], id)
	}
}

// unfile removes id from the bucket at (gx, gy), preserving bucket order.
func (s *Store) unfile(id EntityID, gx, gy int) {
	b := s.bucketIndex(gx, gy)
	bucket := s.buckets[b]
	i := slices.Index(bucket, id)
	if i < 0 {
		panic(fmt.Sprintf("world: entity %v was listed as being in bucket (%d, %d), but its id was not in that bucket", id, gx, gy))
	}
	s.buckets[b] = slices.Delete(bucket, i, i+1)
}

// Bucket returns the ids filed under grid cell (gx, gy). The slice is owned
// by the store.
func (s *Store) Bucket(gx, gy int) []EntityID {
	return s.buckets[s.bucketIndex(gx, gy)]
}

// GridPos returns the bucket coordinates for a position, clamped into the grid.
func (s *Store) GridPos(x, y float64) (int, int) {
	return clampIndex(int(math.Floor(x)), s.width), clampIndex(int(math.Floor(y)), s.height)
}

func (s *Store) bucketIndex(gx, gy int) int {
	if gx < 0 || gx >= s.width || gy < 0 || gy >= s.height {
		panic(fmt.Sprintf("world: bucket (%d, %d) outside %dx%d grid", gx, gy, s.width, s.height))
	}
	return gy*s.width + gx
}

// CheckIndex verifies that every live entity is filed exactly once, in the
// bucket matching floor(position), and that buckets hold nothing else.
// Only meaningful right after SyncFields.
func (s *Store) CheckIndex() error {
	seen := make(map[EntityID]int, s.live)
	for b, bucket := range s.buckets {
		gx, gy := b%s.width, b/s.width
		for _, id := range bucket {
			e, ok := s.Get(id)
			if !ok {
				return fmt.Errorf("bucket (%d, %d) holds dead id %v", gx, gy, id)
			}
			body := e.Body()
			if body.GridX != gx || body.GridY != gy {
				return fmt.Errorf("id %v filed in (%d, %d) but caches (%d, %d)", id, gx, gy, body.GridX, body.GridY)
			}
			if px, py := s.GridPos(body.X, body.Y); px != gx || py != gy {
				return fmt.Errorf("id %v filed in (%d, %d) but positioned in (%d, %d)", id, gx, gy, px, py)
			}
			seen[id]++
		}
	}
	for id, n := range seen {
		if n != 1 {
			return fmt.Errorf("id %v filed %d times", id, n)
		}
	}
	if len(seen) != s.live {
		return fmt.Errorf("%d ids filed but %d entities live", len(seen), s.live)
	}
	return nil
}

func clampIndex(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

// clampCoord keeps a coordinate inside [0, size) so its floor names a bucket.
func clampCoord(v, size float64) float64 {
	if v < 0 {
		return 0
	}
	if v >= size {
		return math.Nextafter(size, 0)
	}
	return v
}
