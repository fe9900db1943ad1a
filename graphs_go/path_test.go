package graphs_go

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedthameursassi/geobase/models"
	"github.com/mohamedthameursassi/geobase/utils"
)

// chain builds n contiguous east-going segments of step degrees each.
func chain(n int, step float64) []models.Segment {
	out := make([]models.Segment, n)
	for i := 0; i < n; i++ {
		x := float64(i) * step
		out[i] = seg(string(rune('a'+i)), orb.Point{x, 0}, orb.Point{x + step/2, 0}, orb.Point{x + step, 0})
	}
	return out
}

func assertChained(t *testing.T, idx *SegmentIndex, path []models.Segment) {
	t.Helper()
	for i := 1; i < len(path); i++ {
		assert.Equal(t, idx.EndKey(path[i-1]), idx.StartKey(path[i]), "break between %d and %d", i-1, i)
	}
}

func TestWalkFollowsAdjacency(t *testing.T) {
	a := seg("A", orb.Point{0, 0}, orb.Point{1, 0})
	b := seg("B", orb.Point{1, 0}, orb.Point{2, 0})
	idx, err := NewSegmentIndex([]models.Segment{a, b})
	require.NoError(t, err)

	w := NewWalker(idx, utils.NewRand(1))
	walk, err := w.WalkFromByHopCount(a, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, walk.IDs())
	assert.False(t, walk.DeadEnd)
}

func TestWalkUsingWholeBudgetIsNotDeadEnd(t *testing.T) {
	a := seg("A", orb.Point{0, 0}, orb.Point{1, 0})
	b := seg("B", orb.Point{1, 0}, orb.Point{2, 0})
	idx, err := NewSegmentIndex([]models.Segment{a, b})
	require.NoError(t, err)
	w := NewWalker(idx, utils.NewRand(1))

	walk, err := w.WalkFromByHopCount(a, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, walk.IDs())
	assert.False(t, walk.DeadEnd)

	walk, err = w.WalkFromByHopCount(b, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, walk.IDs())
	assert.False(t, walk.DeadEnd)

	walk, err = w.WalkFromByHopCount(a, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, walk.IDs())
	assert.True(t, walk.DeadEnd)
}

func TestWalkHugeHopBudget(t *testing.T) {
	a := seg("A", orb.Point{0, 0}, orb.Point{1, 0})
	idx, err := NewSegmentIndex([]models.Segment{a})
	require.NoError(t, err)

	walk, err := NewWalker(idx, utils.NewRand(1)).WalkFromByHopCount(a, math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, walk.IDs())
	assert.True(t, walk.DeadEnd)
}

func TestWalkStopsAtDeadEnd(t *testing.T) {
	a := seg("A", orb.Point{0, 0}, orb.Point{1, 0})
	b := seg("B", orb.Point{5, 5}, orb.Point{6, 5})
	idx, err := NewSegmentIndex([]models.Segment{a, b})
	require.NoError(t, err)

	w := NewWalker(idx, utils.NewRand(1))
	walk, err := w.WalkFromByHopCount(a, 10)
	require.NoError(t, err)
	assert.Equal(t, []models.Segment{a}, walk.Segments)
	assert.True(t, walk.DeadEnd)

	walk, err = w.WalkFromByLength(a, 1e9)
	require.NoError(t, err)
	assert.Equal(t, []models.Segment{a}, walk.Segments)
	assert.True(t, walk.DeadEnd)
}

func TestWalkTieBreakUsesFirstRegistered(t *testing.T) {
	a := seg("A", orb.Point{0, 0}, orb.Point{1, 0})
	north := seg("N", orb.Point{1, 0}, orb.Point{1, 1})
	east := seg("E", orb.Point{1, 0}, orb.Point{2, 0})
	idx, err := NewSegmentIndex([]models.Segment{a, north, east})
	require.NoError(t, err)

	w := NewWalker(idx, nil)
	for i := 0; i < 5; i++ {
		walk, err := w.WalkFromByHopCount(a, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "N"}, walk.IDs())
	}
}

func TestWalkByHopCountProperties(t *testing.T) {
	idx, err := NewSegmentIndex(chain(12, 0.001))
	require.NoError(t, err)
	w := NewWalker(idx, utils.NewRand(42))

	for _, hops := range []int{1, 3, 7, 20} {
		for i := 0; i < 25; i++ {
			walk, err := w.WalkByHopCount(hops)
			require.NoError(t, err)
			require.NotEmpty(t, walk.Segments)
			assert.LessOrEqual(t, len(walk.Segments), hops)
			assertChained(t, idx, walk.Segments)
			assert.Equal(t, len(walk.Segments) < hops, walk.DeadEnd)
		}
	}
}

func TestWalkByLengthProperties(t *testing.T) {
	idx, err := NewSegmentIndex(chain(12, 0.001))
	require.NoError(t, err)
	w := NewWalker(idx, utils.NewRand(7))

	for _, maxMeters := range []float64{50, 250, 600, 5000} {
		for i := 0; i < 25; i++ {
			walk, err := w.WalkByLength(maxMeters)
			require.NoError(t, err)
			require.NotEmpty(t, walk.Segments)
			assertChained(t, idx, walk.Segments)

			var total float64
			for _, s := range walk.Segments {
				total += geo.Length(s.Geometry)
			}
			assert.InDelta(t, total, walk.LengthMeters, 1e-6)
			if !walk.DeadEnd {
				assert.Greater(t, total, maxMeters)
				// Only the last segment may cross the bound.
				last := geo.Length(walk.Segments[len(walk.Segments)-1].Geometry)
				assert.LessOrEqual(t, total-last, maxMeters)
			}
		}
	}
}

func TestWalkByLengthIncludesOvershootingSegment(t *testing.T) {
	segments := chain(10, 0.001)
	idx, err := NewSegmentIndex(segments)
	require.NoError(t, err)

	step := geo.Length(segments[0].Geometry)
	w := NewWalker(idx, nil)
	walk, err := w.WalkFromByLength(segments[0], 2.5*step)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, walk.IDs())
	assert.False(t, walk.DeadEnd)
}

func TestWalkByLengthTerminatesOnZeroLengthCycle(t *testing.T) {
	p := orb.Point{3, 3}
	a := seg("A", p, p)
	idx, err := NewSegmentIndex([]models.Segment{a})
	require.NoError(t, err)

	walk, err := NewWalker(idx, nil).WalkFromByLength(a, 100)
	require.NoError(t, err)
	assert.NotEmpty(t, walk.Segments)
	assert.LessOrEqual(t, len(walk.Segments), idx.Len()+2)
}

func TestWalkRejectsInvalidBudget(t *testing.T) {
	idx, err := NewSegmentIndex(chain(2, 0.001))
	require.NoError(t, err)
	w := NewWalker(idx, utils.NewRand(3))

	_, err = w.WalkByHopCount(0)
	assert.ErrorIs(t, err, ErrInvalidBudget)
	_, err = w.WalkByLength(-1)
	assert.ErrorIs(t, err, ErrInvalidBudget)
	_, err = w.WalkFromByLength(idx.At(0), 0)
	assert.ErrorIs(t, err, ErrInvalidBudget)
}

func TestWalkIsReproducibleWithSeed(t *testing.T) {
	idx, err := NewSegmentIndex(chain(12, 0.001))
	require.NoError(t, err)

	run := func() [][]string {
		w := NewWalker(idx, utils.NewRand(99))
		var out [][]string
		for i := 0; i < 10; i++ {
			walk, err := w.WalkByHopCount(4)
			require.NoError(t, err)
			out = append(out, walk.IDs())
		}
		return out
	}
	assert.Equal(t, run(), run())
}
