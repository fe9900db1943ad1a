package graphs_go

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/mohamedthameursassi/geobase/models"
)

// nodeLinkGraph is the node-link JSON export of an OSMnx street graph.
type nodeLinkGraph struct {
	Graph struct {
		Nodes []struct {
			ID  interface{} `json:"id"`
			X   float64     `json:"x"`
			Y   float64     `json:"y"`
			Lon float64     `json:"lon"`
			Lat float64     `json:"lat"`
		} `json:"nodes"`
		Links []struct {
			Source   interface{} `json:"source"`
			Target   interface{} `json:"target"`
			Key      int         `json:"key"`
			OSMID    interface{} `json:"osmid"`
			Name     interface{} `json:"name"`
			Highway  interface{} `json:"highway"`
			MaxSpeed interface{} `json:"maxspeed"`
			Length   float64     `json:"length"`
		} `json:"links"`
	} `json:"graph"`
}

const defaultMaxSpeed = 50.0

var digits = regexp.MustCompile(`\d+`)

func parseSpeed(speed interface{}) float64 {
	switch v := speed.(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case float64:
		return v
	case string:
		if match := digits.FindString(v); match != "" {
			if parsed, err := strconv.ParseFloat(match, 64); err == nil {
				return parsed
			}
		}
	case []interface{}:
		if len(v) > 0 {
			return parseSpeed(v[0])
		}
	}
	return defaultMaxSpeed
}

func convertID(id interface{}) (string, error) {
	switch v := id.(type) {
	case json.Number:
		return v.String(), nil
	case string:
		if v == "" {
			return "", fmt.Errorf("empty id")
		}
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported ID type: %T", id)
	}
}

func convertToString(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			parts = append(parts, fmt.Sprintf("%v", e))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// SegmentsFromNodeLinkJSON turns every link of a node-link street graph into
// a two-point segment from its source node to its target node. The segment ID
// is "source-target-key", which stays unique on multigraphs.
func SegmentsFromNodeLinkJSON(data []byte) ([]models.Segment, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var g nodeLinkGraph
	if err := dec.Decode(&g); err != nil {
		return nil, fmt.Errorf("failed to parse node-link JSON: %w", err)
	}

	nodes := make(map[string]orb.Point, len(g.Graph.Nodes))
	for _, n := range g.Graph.Nodes {
		id, err := convertID(n.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to convert node ID (%v): %w", n.ID, err)
		}
		lon, lat := n.Lon, n.Lat
		if lat == 0 && lon == 0 {
			lon, lat = n.X, n.Y
		}
		nodes[id] = orb.Point{lon, lat}
	}

	segments := make([]models.Segment, 0, len(g.Graph.Links))
	for _, l := range g.Graph.Links {
		source, err := convertID(l.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to convert source ID (%v): %w", l.Source, err)
		}
		target, err := convertID(l.Target)
		if err != nil {
			return nil, fmt.Errorf("failed to convert target ID (%v): %w", l.Target, err)
		}
		from, ok := nodes[source]
		if !ok {
			return nil, fmt.Errorf("%w: link references unknown node %s", ErrMalformedSegment, source)
		}
		to, ok := nodes[target]
		if !ok {
			return nil, fmt.Errorf("%w: link references unknown node %s", ErrMalformedSegment, target)
		}

		segments = append(segments, models.Segment{
			ID:       fmt.Sprintf("%s-%s-%d", source, target, l.Key),
			Geometry: orb.LineString{from, to},
			Properties: map[string]interface{}{
				"name":     convertToString(l.Name),
				"highway":  convertToString(l.Highway),
				"osmid":    convertToString(l.OSMID),
				"maxspeed": parseSpeed(l.MaxSpeed),
				"length_m": l.Length,
			},
		})
	}
	return segments, nil
}

// SegmentsFeatureCollection renders segments in the dataset format read by
// LoadSegmentsFromJSON.
func SegmentsFeatureCollection(segments []models.Segment) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range segments {
		f := geojson.NewFeature(s.Geometry)
		f.ID = s.ID
		for k, v := range s.Properties {
			f.Properties[k] = v
		}
		fc.Append(f)
	}
	return fc
}
