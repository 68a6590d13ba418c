package index

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts index activity. A nil registerer keeps the collectors
// unregistered.
type Metrics struct {
	Hits          prometheus.Counter
	Misses        prometheus.Counter
	Builds        prometheus.Counter
	Invalidations prometheus.Counter
	BuildErrors   prometheus.Counter
	Entries       *prometheus.GaugeVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Hits: f.NewCounter(prometheus.CounterOpts{
			Name: "goadoc_index_cache_hits_total",
			Help: "Index queries answered from the query cache",
		}),
		Misses: f.NewCounter(prometheus.CounterOpts{
			Name: "goadoc_index_cache_misses_total",
			Help: "Index queries computed from the index",
		}),
		Builds: f.NewCounter(prometheus.CounterOpts{
			Name: "goadoc_index_builds_total",
			Help: "Full index builds",
		}),
		Invalidations: f.NewCounter(prometheus.CounterOpts{
			Name: "goadoc_index_invalidations_total",
			Help: "Wholesale index invalidations",
		}),
		BuildErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "goadoc_index_build_errors_total",
			Help: "Files skipped during index builds",
		}),
		Entries: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "goadoc_index_entries",
			Help: "Entries in the index by kind",
		}, []string{"kind"}),
	}
}
