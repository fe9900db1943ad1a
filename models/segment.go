package models

import (
	"time"

	"github.com/paulmach/orb"
)

// Segment is one road-network line feature (tronçon). Segments are loaded
// once and never mutated.
type Segment struct {
	ID         string
	Geometry   orb.LineString
	Properties map[string]interface{}
}

func (s Segment) Start() orb.Point { return s.Geometry[0] }

func (s Segment) End() orb.Point { return s.Geometry[len(s.Geometry)-1] }

// SampledPoint is one simulated position report.
type SampledPoint struct {
	Point   orb.Point
	Ordinal int
	Elapsed time.Duration
}
