package services

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/mohamedthameursassi/geobase/logger"
	"github.com/mohamedthameursassi/geobase/metrics"
	"github.com/mohamedthameursassi/geobase/models"
	"github.com/mohamedthameursassi/geobase/utils"
)

// CorridorRadiusMeters is the half-width of the corridor around a line.
const CorridorRadiusMeters = 30.0

// MaxScatterPoints bounds the number of candidate points drawn by one scatter.
const MaxScatterPoints = 1_000_000

var (
	ErrInvalidDensity = errors.New("point density must be positive")
	ErrTooManyPoints  = errors.New("too many scatter points")
)

// Corridor is the buffered polygon around a line.
type Corridor struct {
	Polygon         orb.Polygon
	Bound           orb.Bound
	AreaSquareMeter float64
}

// CorridorService scatters random points near a line, for simulating assets
// along a road.
type CorridorService struct {
	rng     models.Random
	logger  *slog.Logger
	metrics *metrics.Collector
}

// NewCorridorService uses rng for every scatter; nil gets a time-seeded source.
func NewCorridorService(rng models.Random, l *slog.Logger, m *metrics.Collector) *CorridorService {
	if rng == nil {
		rng = utils.NewRand(0)
	}
	if l == nil {
		l = logger.Discard()
	}
	return &CorridorService{rng: rng, logger: l, metrics: m}
}

// Corridor buffers the line carried by g by CorridorRadiusMeters.
func (cs *CorridorService) Corridor(g interface{}) (Corridor, error) {
	line, err := LineOf(g)
	if err != nil {
		return Corridor{}, err
	}
	if len(line) == 0 {
		return Corridor{}, fmt.Errorf("%w: empty line", ErrUnsupportedGeometry)
	}
	poly := Buffer(line, CorridorRadiusMeters)
	return Corridor{
		Polygon:         poly,
		Bound:           poly.Bound(),
		AreaSquareMeter: math.Abs(geo.Area(poly)),
	}, nil
}

// Scatter draws round(area * density) uniform points in the corridor's
// bounding box and keeps those inside the corridor. Fewer points than drawn
// are usually returned. More than MaxScatterPoints draws fail with
// ErrTooManyPoints.
func (cs *CorridorService) Scatter(g interface{}, pointDensityPerSquareMeter float64) ([]orb.Point, error) {
	if !positive(pointDensityPerSquareMeter) {
		cs.metrics.ObserveRejected("scatter")
		return nil, fmt.Errorf("%w: %v", ErrInvalidDensity, pointDensityPerSquareMeter)
	}
	c, err := cs.Corridor(g)
	if err != nil {
		cs.metrics.ObserveRejected("scatter")
		return nil, err
	}

	drawn := math.Round(c.AreaSquareMeter * pointDensityPerSquareMeter)
	if !(drawn <= MaxScatterPoints) {
		cs.metrics.ObserveRejected("scatter")
		return nil, fmt.Errorf("%w: %v over %.0f m2 (limit %d)", ErrTooManyPoints, drawn, c.AreaSquareMeter, MaxScatterPoints)
	}
	requested := int(drawn)
	candidates := RandomPointsInBound(c.Bound, requested, cs.rng)
	kept := PointsInPolygon(candidates, c.Polygon)

	cs.metrics.ObserveScatter(requested, len(kept))
	cs.logger.Debug("corridor scattered",
		"area_m2", c.AreaSquareMeter,
		"requested", requested,
		"kept", len(kept),
	)
	return kept, nil
}
