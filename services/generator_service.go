package services

import (
	"fmt"
	"log/slog"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	graphs "github.com/mohamedthameursassi/geobase/graphs_go"
	"github.com/mohamedthameursassi/geobase/logger"
	"github.com/mohamedthameursassi/geobase/metrics"
	"github.com/mohamedthameursassi/geobase/models"
)

// GenerateRequest describes one synthetic trajectory. Exactly one of MaxHops
// and MaxMeters selects the walk policy; MaxMeters wins when both are set.
// Zero SpeedKmh or IntervalSeconds fall back to the profile. A zero
// Density skips the scatter.
type GenerateRequest struct {
	MaxHops         int
	MaxMeters       float64
	Profile         models.VehicleProfile
	SpeedKmh        float64
	IntervalSeconds float64
	Density         float64
}

// Trajectory bundles everything generated for one request.
type Trajectory struct {
	Walk    graphs.Walk
	Line    orb.LineString
	Samples []models.SampledPoint
	Scatter []orb.Point
}

// GeneratorService chains walk, merge, sampling and scatter for test-data
// builders.
type GeneratorService struct {
	walker     *graphs.Walker
	trajectory *TrajectoryService
	corridor   *CorridorService
	logger     *slog.Logger
	metrics    *metrics.Collector
}

func NewGeneratorService(walker *graphs.Walker, ts *TrajectoryService, cs *CorridorService, l *slog.Logger, m *metrics.Collector) *GeneratorService {
	if l == nil {
		l = logger.Discard()
	}
	return &GeneratorService{
		walker:     walker,
		trajectory: ts,
		corridor:   cs,
		logger:     l,
		metrics:    m,
	}
}

func (gs *GeneratorService) walk(req GenerateRequest) (graphs.Walk, string, error) {
	if req.MaxMeters > 0 {
		w, err := gs.walker.WalkByLength(req.MaxMeters)
		return w, "meters", err
	}
	w, err := gs.walker.WalkByHopCount(req.MaxHops)
	return w, "hops", err
}

func (gs *GeneratorService) Generate(req GenerateRequest) (*Trajectory, error) {
	w, policy, err := gs.walk(req)
	if err != nil {
		gs.metrics.ObserveRejected("walk")
		return nil, err
	}
	gs.metrics.ObserveWalk(policy, len(w.Segments), w.LengthMeters, w.DeadEnd)

	line, err := graphs.MergeLine(w.Segments)
	if err != nil {
		return nil, err
	}

	speed, interval := req.SpeedKmh, req.IntervalSeconds
	if speed == 0 {
		speed = req.Profile.SpeedKmh
	}
	if interval == 0 {
		interval = req.Profile.IntervalSeconds
	}
	samples, err := gs.trajectory.Sample(line, speed, interval)
	if err != nil {
		return nil, fmt.Errorf("sampling walk from %s: %w", w.Segments[0].ID, err)
	}

	t := &Trajectory{Walk: w, Line: line, Samples: samples}
	if req.Density != 0 {
		t.Scatter, err = gs.corridor.Scatter(line, req.Density)
		if err != nil {
			return nil, err
		}
	}

	gs.logger.Info("trajectory generated",
		"policy", policy,
		"segments", len(w.Segments),
		"length_m", w.LengthMeters,
		"dead_end", w.DeadEnd,
		"samples", len(samples),
		"scatter", len(t.Scatter),
	)
	return t, nil
}

// FeatureCollection renders the merged line, the samples and the scatter.
// Every feature has a "kind" property: path, sample or asset.
func (t *Trajectory) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	path := geojson.NewFeature(t.Line)
	path.Properties["kind"] = "path"
	path.Properties["segment_ids"] = t.Walk.IDs()
	path.Properties["length_m"] = t.Walk.LengthMeters
	path.Properties["dead_end"] = t.Walk.DeadEnd
	fc.Append(path)

	for _, f := range SampleFeatures(t.Samples).Features {
		f.Properties["kind"] = "sample"
		fc.Append(f)
	}
	for _, p := range t.Scatter {
		f := geojson.NewFeature(p)
		f.Properties["kind"] = "asset"
		fc.Append(f)
	}
	return fc
}
