package graphs_go

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedthameursassi/geobase/models"
)

func TestMergePathElidesJunctions(t *testing.T) {
	a := seg("A", orb.Point{0, 0}, orb.Point{1, 0})
	b := seg("B", orb.Point{1, 0}, orb.Point{2, 0})

	f, err := MergePath([]models.Segment{a, b})
	require.NoError(t, err)
	assert.Equal(t, orb.LineString{{0, 0}, {1, 0}, {2, 0}}, f.Geometry)
	assert.Empty(t, f.Properties)
}

func TestMergeLineCoordinateCount(t *testing.T) {
	path := chain(5, 0.01)
	line, err := MergeLine(path)
	require.NoError(t, err)

	total := 0
	for _, s := range path {
		total += len(s.Geometry)
	}
	assert.Len(t, line, total-(len(path)-1))
}

func TestMergeLineSingleSegmentUnchanged(t *testing.T) {
	a := seg("A", orb.Point{0, 0}, orb.Point{0.5, 0.5}, orb.Point{1, 0})
	line, err := MergeLine([]models.Segment{a})
	require.NoError(t, err)
	assert.Equal(t, a.Geometry, line)

	line[0] = orb.Point{9, 9}
	assert.Equal(t, orb.Point{0, 0}, a.Geometry[0])
}

func TestMergeLineDisconnectedIsNotDetected(t *testing.T) {
	a := seg("A", orb.Point{0, 0}, orb.Point{1, 0})
	b := seg("B", orb.Point{5, 5}, orb.Point{6, 5})
	line, err := MergeLine([]models.Segment{a, b})
	require.NoError(t, err)
	assert.Equal(t, orb.LineString{{0, 0}, {1, 0}, {6, 5}}, line)
}

func TestMergeEmptyPath(t *testing.T) {
	_, err := MergeLine(nil)
	assert.ErrorIs(t, err, ErrEmptyPath)
	_, err = MergePath([]models.Segment{})
	assert.ErrorIs(t, err, ErrEmptyPath)
}
