package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the Medline fetcher service.
// All counters and histograms are registered via promauto for automatic
// registration with the default Prometheus registry.
type Metrics struct {
	// SearchesStarted counts search pipelines initiated.
	SearchesStarted prometheus.Counter

	// SearchesCompleted counts search pipelines that finished successfully.
	SearchesCompleted prometheus.Counter

	// SearchesFailed counts search pipelines that ended in failure.
	SearchesFailed prometheus.Counter

	// SearchDuration observes end-to-end pipeline duration in seconds.
	SearchDuration prometheus.Histogram

	// IdsPerSearch observes the distribution of identifiers returned per search.
	IdsPerSearch prometheus.Histogram

	// EntriesFetched counts the total number of bibliographic entries fetched.
	EntriesFetched prometheus.Counter

	// FetchFailures counts upstream failures, labeled by pipeline phase
	// (search, fetch, parse).
	FetchFailures *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		SearchesStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_started_total",
			Help:      "Total number of search pipelines started",
		}),
		SearchesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_completed_total",
			Help:      "Total number of search pipelines completed successfully",
		}),
		SearchesFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_failed_total",
			Help:      "Total number of search pipelines that failed",
		}),
		SearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "End-to-end search pipeline duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		IdsPerSearch: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ids_per_search",
			Help:      "Distribution of identifiers returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
		EntriesFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_fetched_total",
			Help:      "Total number of bibliographic entries fetched",
		}),
		FetchFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_failures_total",
			Help:      "Total number of upstream failures by pipeline phase",
		}, []string{"phase"}),
	}
}

// RecordSearchStarted records that a search pipeline has started.
func (m *Metrics) RecordSearchStarted() {
	m.SearchesStarted.Inc()
}

// RecordSearchCompleted records a successful pipeline run.
func (m *Metrics) RecordSearchCompleted(idCount, entryCount int, durationSeconds float64) {
	m.SearchesCompleted.Inc()
	m.SearchDuration.Observe(durationSeconds)
	m.IdsPerSearch.Observe(float64(idCount))
	m.EntriesFetched.Add(float64(entryCount))
}

// RecordSearchFailed records a failed pipeline run.
func (m *Metrics) RecordSearchFailed(phase string, durationSeconds float64) {
	m.SearchesFailed.Inc()
	m.SearchDuration.Observe(durationSeconds)
	m.FetchFailures.WithLabelValues(phase).Inc()
}
