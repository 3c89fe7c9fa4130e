package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/cellgrid/components"
)

// fillOnePerBucket adds one cell at the center of every bucket and returns
// the ids indexed by bucket.
func fillOnePerBucket(t *testing.T, s *Store) map[[2]int]EntityID {
	t.Helper()
	ids := make(map[[2]int]EntityID)
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			id, ok := s.Add(newTestCell(float64(x)+0.5, float64(y)+0.5))
			require.True(t, ok)
			ids[[2]int{x, y}] = id
		}
	}
	return ids
}

func TestNeighbors(t *testing.T) {
	s := NewStore(5, 4, 64)
	ids := fillOnePerBucket(t, s)

	tests := []struct {
		name   string
		gx, gy int
		want   [][2]int
	}{
		{
			name: "interior",
			gx:   2, gy: 2,
			want: [][2]int{{1, 1}, {2, 1}, {3, 1}, {1, 2}, {2, 2}, {3, 2}, {1, 3}, {2, 3}, {3, 3}},
		},
		{
			name: "top-left corner clamps",
			gx:   0, gy: 0,
			want: [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		},
		{
			name: "bottom-right corner clamps",
			gx:   4, gy: 3,
			want: [][2]int{{3, 2}, {4, 2}, {3, 3}, {4, 3}},
		},
		{
			name: "right edge does not wrap",
			gx:   4, gy: 1,
			want: [][2]int{{3, 0}, {4, 0}, {3, 1}, {4, 1}, {3, 2}, {4, 2}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			want := make([]EntityID, 0, len(tc.want))
			for _, cell := range tc.want {
				want = append(want, ids[cell])
			}
			assert.ElementsMatch(t, want, s.Neighbors(tc.gx, tc.gy))
		})
	}
}

func TestNeighborsIntoReusesBuffer(t *testing.T) {
	s := NewStore(3, 3, 16)
	fillOnePerBucket(t, s)

	buf := make([]EntityID, 0, 16)
	buf = s.NeighborsInto(buf[:0], 1, 1)
	assert.Len(t, buf, 9)
	buf = s.NeighborsInto(buf[:0], 0, 0)
	assert.Len(t, buf, 4)
}

func TestPickAt(t *testing.T) {
	s := NewStore(8, 8, 16)
	a, _ := s.Add(newTestCell(2.5, 2.5))
	b, _ := s.Add(newTestCell(3.3, 2.5))
	food, _ := s.Add(components.FoodEntity(components.Food{Body: components.NewBody(6.5, 6.5, 0.5, 0.5)}))

	tests := []struct {
		name   string
		x, y   float64
		want   EntityID
		wantOK bool
	}{
		{"center of a", 2.5, 2.5, a, true},
		{"overlap prefers nearer", 3.0, 2.5, b, true},
		{"inside b only", 3.75, 2.5, b, true},
		{"empty space", 5.0, 5.0, EntityID{}, false},
		{"food footprint", 6.6, 6.6, food, true},
		{"just outside small food", 6.8, 6.5, EntityID{}, false},
		{"outside grid", -1, 2, EntityID{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.PickAt(tc.x, tc.y)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
