package graphs_go

import (
	"errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/mohamedthameursassi/geobase/models"
)

// ErrEmptyPath is returned when merging no segments.
var ErrEmptyPath = errors.New("cannot merge an empty path")

// MergeLine concatenates the segment geometries, dropping the first point of
// every segment after the first. Contiguity is assumed, not checked.
func MergeLine(path []models.Segment) (orb.LineString, error) {
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}

	n := len(path[0].Geometry)
	for _, s := range path[1:] {
		if len(s.Geometry) > 0 {
			n += len(s.Geometry) - 1
		}
	}

	line := make(orb.LineString, 0, n)
	line = append(line, path[0].Geometry...)
	for _, s := range path[1:] {
		if len(s.Geometry) > 0 {
			line = append(line, s.Geometry[1:]...)
		}
	}
	return line, nil
}

// MergePath returns the merged line as a feature with empty properties.
func MergePath(path []models.Segment) (*geojson.Feature, error) {
	line, err := MergeLine(path)
	if err != nil {
		return nil, err
	}
	return geojson.NewFeature(line), nil
}
