package graphs_go

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSegmentsFromFile(t *testing.T) {
	segments, err := LoadSegmentsFromFile(filepath.Join("testdata", "segments.geojson"), nil)
	require.NoError(t, err)
	require.Len(t, segments, 3)

	assert.Equal(t, "101", segments[0].ID)
	assert.Equal(t, "Rue Saint-Denis", segments[0].Properties["name"])
	assert.Equal(t, orb.Point{-73.5673, 45.5017}, segments[0].Start())
	assert.Equal(t, "rue-ontario-1", segments[2].ID)
	assert.Len(t, segments[2].Geometry, 2)
}

func TestLoadIndexChainsDataset(t *testing.T) {
	idx, err := LoadIndex(filepath.Join("testdata", "segments.geojson"), nil)
	require.NoError(t, err)

	first, ok := idx.ByID("101")
	require.True(t, ok)

	walk, err := NewWalker(idx, nil).WalkFromByHopCount(first, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"101", "102", "rue-ontario-1"}, walk.IDs())
	assert.True(t, walk.DeadEnd)
}

func TestLoadSegmentsFromDirectory(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile(filepath.Join("testdata", "segments.geojson"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.geojson"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	segments, err := LoadSegments(dir, nil)
	require.NoError(t, err)
	assert.Len(t, segments, 3)
}

func TestLoadSegmentsRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"no id":      `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"LineString","coordinates":[[0,0],[1,0]]}}]}`,
		"point":      `{"type":"FeatureCollection","features":[{"type":"Feature","id":1,"properties":{},"geometry":{"type":"Point","coordinates":[0,0]}}]}`,
		"one vertex": `{"type":"FeatureCollection","features":[{"type":"Feature","id":1,"properties":{},"geometry":{"type":"LineString","coordinates":[[0,0]]}}]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadSegmentsFromJSON([]byte(raw))
			assert.ErrorIs(t, err, ErrMalformedSegment)
		})
	}

	_, err := LoadSegmentsFromJSON([]byte("not json"))
	assert.Error(t, err)
}

func TestLoadIndexEmptyDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.geojson")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"FeatureCollection","features":[]}`), 0o644))

	_, err := LoadIndex(path, nil)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}
