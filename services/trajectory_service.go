package services

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"

	"github.com/mohamedthameursassi/geobase/logger"
	"github.com/mohamedthameursassi/geobase/metrics"
	"github.com/mohamedthameursassi/geobase/models"
)

// MaxSamples bounds the number of position reports of one trajectory.
const MaxSamples = 1_000_000

var (
	ErrInvalidSpeed    = errors.New("speed must be positive")
	ErrInvalidInterval = errors.New("sampling interval must be positive")
	ErrZeroLengthLine  = errors.New("line has zero length")
	ErrTooManySamples  = errors.New("too many samples")
)

// TrajectoryService turns a line into the position reports of a vehicle
// driving it at constant speed.
type TrajectoryService struct {
	logger  *slog.Logger
	metrics *metrics.Collector
}

func NewTrajectoryService(l *slog.Logger, m *metrics.Collector) *TrajectoryService {
	if l == nil {
		l = logger.Discard()
	}
	return &TrajectoryService{logger: l, metrics: m}
}

func positive(v float64) bool { return v > 0 && !math.IsInf(v, 1) }

// Sample cuts line into one chunk per capture interval and reports the start
// of each chunk. The chunk count is the travel time divided by the interval,
// rounded to the nearest integer and never below one. Counts above MaxSamples
// fail with ErrTooManySamples.
func (ts *TrajectoryService) Sample(line orb.LineString, speedKmh, intervalSeconds float64) ([]models.SampledPoint, error) {
	if !positive(speedKmh) {
		ts.metrics.ObserveRejected("sample")
		return nil, fmt.Errorf("%w: %v km/h", ErrInvalidSpeed, speedKmh)
	}
	if !positive(intervalSeconds) {
		ts.metrics.ObserveRejected("sample")
		return nil, fmt.Errorf("%w: %v s", ErrInvalidInterval, intervalSeconds)
	}
	totalMeters := 0.0
	if len(line) >= 2 {
		totalMeters = geo.Length(line)
	}
	if !(totalMeters > 0) {
		ts.metrics.ObserveRejected("sample")
		return nil, ErrZeroLengthLine
	}

	speedMetersPerHour := speedKmh * 1000
	durationSeconds := totalMeters / speedMetersPerHour * 3600
	rounded := math.Round(durationSeconds / intervalSeconds)
	if !(rounded <= MaxSamples) {
		ts.metrics.ObserveRejected("sample")
		return nil, fmt.Errorf("%w: %v for %.1f m at %v km/h every %v s (limit %d)",
			ErrTooManySamples, rounded, totalMeters, speedKmh, intervalSeconds, MaxSamples)
	}
	chunkCount := max(int(rounded), 1)

	chunks := LineChunk(line, chunkCount)
	samples := make([]models.SampledPoint, len(chunks))
	for i, c := range chunks {
		samples[i] = models.SampledPoint{
			Point:   c[0],
			Ordinal: i,
			Elapsed: time.Duration(float64(i) * intervalSeconds * float64(time.Second)),
		}
	}

	ts.metrics.ObserveSamples(len(samples))
	ts.logger.Debug("trajectory sampled",
		"length_m", totalMeters,
		"speed_kmh", speedKmh,
		"interval_s", intervalSeconds,
		"samples", len(samples),
	)
	return samples, nil
}

// SampleProfile samples line with the defaults of a vehicle profile.
func (ts *TrajectoryService) SampleProfile(line orb.LineString, p models.VehicleProfile) ([]models.SampledPoint, error) {
	return ts.Sample(line, p.SpeedKmh, p.IntervalSeconds)
}

// SampleFeatures renders samples as point features carrying their ordinal and
// elapsed seconds.
func SampleFeatures(samples []models.SampledPoint) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range samples {
		f := geojson.NewFeature(s.Point)
		f.Properties["ordinal"] = s.Ordinal
		f.Properties["elapsed_seconds"] = s.Elapsed.Seconds()
		fc.Append(f)
	}
	return fc
}
