// Package telemetry exposes the Chunk Manager's operational metrics through
// prometheus/client_golang, the same metrics library the rest of the
// retrieved corpus reaches for whenever a component needs counters and
// histograms rather than ad hoc logging.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles every gauge/counter/histogram the Chunk Manager reports.
// A nil *Metrics is safe to call methods on — every method is a no-op in
// that case, so wiring telemetry is always optional.
type Metrics struct {
	QueueDepth         prometheus.Gauge
	ChunksGenerated    prometheus.Counter
	ChunksEvicted      prometheus.Counter
	ChunksSaved        prometheus.Counter
	SaveFailures       prometheus.Counter
	GenerationDuration prometheus.Histogram
}

// New constructs a Metrics bundle and registers it against reg. Passing a
// dedicated *prometheus.Registry (rather than the global default) keeps
// repeated test construction from panicking on duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voxelcore",
			Subsystem: "chunk_manager",
			Name:      "queue_depth",
			Help:      "Number of generation-queue entries awaiting a worker.",
		}),
		ChunksGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxelcore",
			Subsystem: "chunk_manager",
			Name:      "chunks_generated_total",
			Help:      "Chunks produced by the terrain generator.",
		}),
		ChunksEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxelcore",
			Subsystem: "chunk_manager",
			Name:      "chunks_evicted_total",
			Help:      "Chunks dropped from the live map by distance-based eviction.",
		}),
		ChunksSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxelcore",
			Subsystem: "chunk_manager",
			Name:      "chunks_saved_total",
			Help:      "Chunks successfully persisted via the region store.",
		}),
		SaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxelcore",
			Subsystem: "chunk_manager",
			Name:      "save_failures_total",
			Help:      "Region-store save attempts that returned an I/O error.",
		}),
		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voxelcore",
			Subsystem: "chunk_manager",
			Name:      "generation_duration_seconds",
			Help:      "Wall-clock time spent generating one chunk.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.QueueDepth,
			m.ChunksGenerated,
			m.ChunksEvicted,
			m.ChunksSaved,
			m.SaveFailures,
			m.GenerationDuration,
		)
	}
	return m
}

// SetQueueDepth records the current generation-queue length.
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.QueueDepth.Set(float64(n))
}

// IncChunksGenerated records one terrain-generation completion.
func (m *Metrics) IncChunksGenerated() {
	if m == nil {
		return
	}
	m.ChunksGenerated.Inc()
}

// IncChunksEvicted records one chunk dropped by eviction.
func (m *Metrics) IncChunksEvicted() {
	if m == nil {
		return
	}
	m.ChunksEvicted.Inc()
}

// IncChunksSaved records one successful region-store save.
func (m *Metrics) IncChunksSaved() {
	if m == nil {
		return
	}
	m.ChunksSaved.Inc()
}

// IncSaveFailures records one failed region-store save.
func (m *Metrics) IncSaveFailures() {
	if m == nil {
		return
	}
	m.SaveFailures.Inc()
}

// ObserveGenerationDuration records how long one Generate call took.
func (m *Metrics) ObserveGenerationDuration(seconds float64) {
	if m == nil {
		return
	}
	m.GenerationDuration.Observe(seconds)
}
