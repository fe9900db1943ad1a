// Package metrics records generation statistics on a private Prometheus
// registry. The registry is written to a node-exporter textfile rather than
// served, so batch runs of the generator can still be scraped.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector groups the generator metrics. A nil *Collector is valid and
// records nothing.
type Collector struct {
	registry *prometheus.Registry

	WalksTotal         *prometheus.CounterVec
	DeadEndsTotal      prometheus.Counter
	WalkSegments       prometheus.Histogram
	WalkMeters         prometheus.Histogram
	SamplesTotal       prometheus.Counter
	ScatterRequested   prometheus.Counter
	ScatterKept        prometheus.Counter
	RejectedCallsTotal *prometheus.CounterVec
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		WalksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "geobase_walks_total",
			Help: "Total number of random walks by stopping policy",
		}, []string{"policy"}),
		DeadEndsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "geobase_walk_dead_ends_total",
			Help: "Total number of walks that stopped at a network dead end",
		}),
		WalkSegments: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "geobase_walk_segments",
			Help:    "Number of segments per walk",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200},
		}),
		WalkMeters: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "geobase_walk_meters",
			Help:    "Cumulative length of each walk in meters",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
		SamplesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "geobase_trajectory_samples_total",
			Help: "Total number of sampled trajectory points",
		}),
		ScatterRequested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "geobase_scatter_requested_total",
			Help: "Total number of random points drawn in corridor bounding boxes",
		}),
		ScatterKept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "geobase_scatter_kept_total",
			Help: "Total number of random points kept inside corridors",
		}),
		RejectedCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "geobase_rejected_calls_total",
			Help: "Total number of calls rejected for invalid parameters",
		}, []string{"operation"}),
	}
	c.registry.MustRegister(
		c.WalksTotal,
		c.DeadEndsTotal,
		c.WalkSegments,
		c.WalkMeters,
		c.SamplesTotal,
		c.ScatterRequested,
		c.ScatterKept,
		c.RejectedCallsTotal,
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

func (c *Collector) ObserveWalk(policy string, segments int, meters float64, deadEnd bool) {
	if c == nil {
		return
	}
	c.WalksTotal.WithLabelValues(policy).Inc()
	c.WalkSegments.Observe(float64(segments))
	c.WalkMeters.Observe(meters)
	if deadEnd {
		c.DeadEndsTotal.Inc()
	}
}

func (c *Collector) ObserveSamples(n int) {
	if c == nil {
		return
	}
	c.SamplesTotal.Add(float64(n))
}

func (c *Collector) ObserveScatter(requested, kept int) {
	if c == nil {
		return
	}
	c.ScatterRequested.Add(float64(requested))
	c.ScatterKept.Add(float64(kept))
}

func (c *Collector) ObserveRejected(operation string) {
	if c == nil {
		return
	}
	c.RejectedCallsTotal.WithLabelValues(operation).Inc()
}

// WriteTextfile writes the registry in text exposition format to path,
// atomically.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, c.registry)
}
