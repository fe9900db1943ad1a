package graphs_go

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/mohamedthameursassi/geobase/logger"
	"github.com/mohamedthameursassi/geobase/models"
)

// idProperties are looked up, in order, when a feature carries no top-level id.
var idProperties = []string{"id", "ID", "segment_id", "OBJECTID"}

// parseID converts the JSON forms of a feature id to the segment ID text.
func parseID(id interface{}) (string, bool) {
	switch v := id.(type) {
	case string:
		return v, v != ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case int:
		return strconv.Itoa(v), true
	default:
		return "", false
	}
}

func featureID(f *geojson.Feature) (string, bool) {
	if id, ok := parseID(f.ID); ok {
		return id, true
	}
	for _, name := range idProperties {
		if id, ok := parseID(f.Properties[name]); ok {
			return id, true
		}
	}
	return "", false
}

func featureLine(g orb.Geometry) (orb.LineString, bool) {
	switch v := g.(type) {
	case orb.LineString:
		return v, true
	case orb.MultiLineString:
		if len(v) == 1 {
			return v[0], true
		}
	}
	return nil, false
}

// LoadSegmentsFromJSON decodes a GeoJSON FeatureCollection of line features.
func LoadSegmentsFromJSON(data []byte) ([]models.Segment, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse segment GeoJSON: %w", err)
	}

	segments := make([]models.Segment, 0, len(fc.Features))
	for i, f := range fc.Features {
		id, ok := featureID(f)
		if !ok {
			return nil, fmt.Errorf("%w: feature %d has no id", ErrMalformedSegment, i)
		}
		line, ok := featureLine(f.Geometry)
		if !ok {
			return nil, fmt.Errorf("%w: feature %q is not a single line", ErrMalformedSegment, id)
		}
		if len(line) < 2 {
			return nil, fmt.Errorf("%w: feature %q has %d points", ErrMalformedSegment, id, len(line))
		}
		props := make(map[string]interface{}, len(f.Properties))
		for k, v := range f.Properties {
			props[k] = v
		}
		segments = append(segments, models.Segment{
			ID:         id,
			Geometry:   line.Clone(),
			Properties: props,
		})
	}
	return segments, nil
}

func LoadSegmentsFromFile(path string, l *slog.Logger) ([]models.Segment, error) {
	if l == nil {
		l = logger.Discard()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read segment file: %w", err)
	}
	segments, err := LoadSegmentsFromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.Info("loaded segments", "path", path, "segments", len(segments))
	return segments, nil
}

func isDatasetFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".geojson") || strings.HasSuffix(lower, ".json")
}

// LoadSegmentsFromDirectory loads every .geojson/.json file below folder, in
// lexical path order so the resulting dataset order is reproducible.
func LoadSegmentsFromDirectory(folder string, l *slog.Logger) ([]models.Segment, error) {
	var paths []string
	err := filepath.Walk(folder, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && isDatasetFile(info.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var segments []models.Segment
	for _, path := range paths {
		s, err := LoadSegmentsFromFile(path, l)
		if err != nil {
			return nil, fmt.Errorf("error loading segments from %s: %w", path, err)
		}
		segments = append(segments, s...)
	}
	return segments, nil
}

// LoadSegments loads a single file or a whole directory.
func LoadSegments(path string, l *slog.Logger) ([]models.Segment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("could not open dataset: %w", err)
	}
	if info.IsDir() {
		return LoadSegmentsFromDirectory(path, l)
	}
	return LoadSegmentsFromFile(path, l)
}

// LoadIndex loads the dataset at path and builds its index. Any failure is
// meant to be fatal at startup.
func LoadIndex(path string, l *slog.Logger, opts ...IndexOption) (*SegmentIndex, error) {
	segments, err := LoadSegments(path, l)
	if err != nil {
		return nil, err
	}
	return NewSegmentIndex(segments, append([]IndexOption{WithLogger(l)}, opts...)...)
}
