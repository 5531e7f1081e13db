package integrator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "pathspace"

var (
	pathsTraced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "paths_traced_total",
		Help:      "Subpaths traced, by integrator and origin.",
	}, []string{"integrator", "origin"})

	pathTerminations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "path_terminations_total",
		Help:      "Subpath terminations, by integrator and reason.",
	}, []string{"integrator", "reason"})

	connections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "connections_total",
		Help:      "Unoccluded connections, by integrator and target.",
	}, []string{"integrator", "target"})

	merges = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "merges_total",
		Help:      "Light vertices merged with eye vertices.",
	})

	rejectedSamples = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "rejected_samples_total",
		Help:      "Degenerate densities or contributions dropped before accumulation.",
	})

	lightVerticesPerPass = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "light_vertices_per_pass",
		Help:      "Light vertices stored by one worker for one pass.",
		Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
	})
)

// Termination reasons
const (
	reasonMiss     = "miss"
	reasonAbsorbed = "absorbed"
	reasonDepth    = "depth"
	reasonRoulette = "roulette"
	reasonFloor    = "floor"
)

// pathMetrics holds the counters of one integrator so the trace loops do not
// look labels up per event
type pathMetrics struct {
	eyePaths       prometheus.Counter
	lightPaths     prometheus.Counter
	terminations   map[string]prometheus.Counter
	lightConnects  prometheus.Counter
	vertexConnects prometheus.Counter
	cameraConnects prometheus.Counter
}

func newPathMetrics(integrator string) *pathMetrics {
	m := &pathMetrics{
		eyePaths:       pathsTraced.WithLabelValues(integrator, "eye"),
		lightPaths:     pathsTraced.WithLabelValues(integrator, "light"),
		terminations:   make(map[string]prometheus.Counter),
		lightConnects:  connections.WithLabelValues(integrator, "light"),
		vertexConnects: connections.WithLabelValues(integrator, "vertex"),
		cameraConnects: connections.WithLabelValues(integrator, "camera"),
	}
	for _, reason := range []string{reasonMiss, reasonAbsorbed, reasonDepth, reasonRoulette, reasonFloor} {
		m.terminations[reason] = pathTerminations.WithLabelValues(integrator, reason)
	}
	return m
}

func (m *pathMetrics) terminated(reason string) {
	m.terminations[reason].Inc()
}
