// Package metrics exposes Prometheus counters and histograms for the
// batch and document drivers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry groups every metric the document and batch drivers record
// against. A caller normally constructs exactly one and shares it.
type Registry struct {
	PagesProcessed   *prometheus.CounterVec
	ElementsMerged   prometheus.Counter
	StitchIterations prometheus.Counter
	PageLatency      prometheus.Histogram
}

// NewRegistry registers every metric against reg (typically
// prometheus.DefaultRegisterer) and returns the handles to record with.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)
	return &Registry{
		PagesProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ocrmd",
			Name:      "pages_processed_total",
			Help:      "Pages processed, labeled by outcome (ok or error).",
		}, []string{"outcome"}),
		ElementsMerged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ocrmd",
			Name:      "elements_merged_total",
			Help:      "Elements absorbed by the header/list merger across all pages.",
		}),
		StitchIterations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ocrmd",
			Name:      "stitch_iterations_total",
			Help:      "Sentence-stitch absorption steps performed across all pages.",
		}),
		PageLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ocrmd",
			Name:      "page_latency_seconds",
			Help:      "Wall-clock time to run the full pipeline over one page.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
