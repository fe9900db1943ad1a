package graphs_go

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedthameursassi/geobase/models"
)

func seg(id string, pts ...orb.Point) models.Segment {
	return models.Segment{ID: id, Geometry: orb.LineString(pts)}
}

func TestNewSegmentIndexRejectsBadInput(t *testing.T) {
	_, err := NewSegmentIndex(nil)
	require.ErrorIs(t, err, ErrEmptyDataset)

	_, err = NewSegmentIndex([]models.Segment{seg("a", orb.Point{0, 0})})
	require.ErrorIs(t, err, ErrMalformedSegment)

	_, err = NewSegmentIndex([]models.Segment{
		seg("a", orb.Point{0, 0}, orb.Point{1, 0}),
		seg("a", orb.Point{1, 0}, orb.Point{2, 0}),
	})
	require.ErrorIs(t, err, ErrMalformedSegment)

	_, err = NewSegmentIndex([]models.Segment{seg("", orb.Point{0, 0}, orb.Point{1, 0})})
	require.ErrorIs(t, err, ErrMalformedSegment)
}

func TestSegmentIndexLookups(t *testing.T) {
	a := seg("A", orb.Point{0, 0}, orb.Point{1, 0})
	b := seg("B", orb.Point{1, 0}, orb.Point{2, 0})
	c := seg("C", orb.Point{1, 0}, orb.Point{1, 1})

	idx, err := NewSegmentIndex([]models.Segment{a, b, c})
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Len())

	got, ok := idx.ByID("B")
	require.True(t, ok)
	assert.Equal(t, b, got)

	_, ok = idx.ByID("missing")
	assert.False(t, ok)

	out := idx.Outgoing(idx.EndKey(a))
	require.Len(t, out, 2)
	assert.Equal(t, "B", out[0].ID)
	assert.Equal(t, "C", out[1].ID)

	assert.Empty(t, idx.Outgoing(idx.EndKey(b)))
	assert.Equal(t, "1,0", idx.StartKey(b))
}

func TestExactKeyIsTextual(t *testing.T) {
	assert.Equal(t, "-73.5673,45.5017", ExactKey(orb.Point{-73.5673, 45.5017}))
	x, y := 0.1, 0.2
	assert.Equal(t, "0.30000000000000004,0", ExactKey(orb.Point{x + y, 0}))
	assert.NotEqual(t, ExactKey(orb.Point{x + y, 0}), ExactKey(orb.Point{0.3, 0}))
}

func TestRoundedKeyJoinsNearMisses(t *testing.T) {
	x, y := 0.1, 0.2
	a := seg("A", orb.Point{0, 0}, orb.Point{x + y, 0})
	b := seg("B", orb.Point{0.3, 0}, orb.Point{0.4, 0})

	exact, err := NewSegmentIndex([]models.Segment{a, b})
	require.NoError(t, err)
	assert.Empty(t, exact.Outgoing(exact.EndKey(a)))

	rounded, err := NewSegmentIndex([]models.Segment{a, b}, WithKeyFunc(RoundedKey(6)))
	require.NoError(t, err)
	out := rounded.Outgoing(rounded.EndKey(a))
	require.Len(t, out, 1)
	assert.Equal(t, "B", out[0].ID)
	assert.Equal(t, "0.300000,0.000000", rounded.Key(orb.Point{0.3, 0}))
}

func TestSegmentIndexDoesNotAliasInput(t *testing.T) {
	in := []models.Segment{seg("A", orb.Point{0, 0}, orb.Point{1, 0})}
	idx, err := NewSegmentIndex(in)
	require.NoError(t, err)

	in[0] = seg("Z", orb.Point{5, 5}, orb.Point{6, 6})
	got, ok := idx.ByID("A")
	require.True(t, ok)
	assert.Equal(t, orb.Point{0, 0}, got.Start())

	all := idx.Segments()
	all[0].ID = "mutated"
	assert.Equal(t, "A", idx.At(0).ID)
}
